package database

import (
	"database/sql"
	"reflect"
	"strings"
	"testing"
	"time"
)

// The keyword counter reports the whole catalog, inactive rows
// included; only the chat counter narrows to active rows.
func TestCountQueryScopes(t *testing.T) {
	t.Parallel()

	if strings.Contains(strings.ToLower(countKeywordsQuery), "active") {
		t.Errorf("keyword count must not filter on active: %q", countKeywordsQuery)
	}
	if !strings.Contains(strings.ToLower(countActiveChatsQuery), "active") {
		t.Errorf("chat count must filter on active: %q", countActiveChatsQuery)
	}
}

func TestChatLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		label  sql.NullString
		chatID string
		want   string
	}{
		{
			name:   "display name wins",
			label:  sql.NullString{String: "Грузы Москва", Valid: true},
			chatID: "-100123",
			want:   "Грузы Москва",
		},
		{
			name:   "null name falls back to chat id",
			label:  sql.NullString{},
			chatID: "-100123",
			want:   "-100123",
		},
		{
			name:   "empty name falls back to chat id",
			label:  sql.NullString{String: "", Valid: true},
			chatID: "-100456",
			want:   "-100456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := chatLabel(tt.label, tt.chatID); got != tt.want {
				t.Errorf("chatLabel(%+v, %q) = %q, want %q", tt.label, tt.chatID, got, tt.want)
			}
		})
	}
}

func TestRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		part  int
		total int
		want  float64
	}{
		{name: "zero total yields zero", part: 10, total: 0, want: 0},
		{name: "zero part", part: 0, total: 100, want: 0},
		{name: "exact half", part: 50, total: 100, want: 50},
		{name: "rounds to one decimal", part: 1, total: 3, want: 33.3},
		{name: "rounds up", part: 2, total: 3, want: 66.7},
		{name: "full", part: 7, total: 7, want: 100},
		{name: "small fraction", part: 1, total: 1000, want: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := rate(tt.part, tt.total); got != tt.want {
				t.Errorf("rate(%d, %d) = %v, want %v", tt.part, tt.total, got, tt.want)
			}
		})
	}
}

func TestTopChats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		names []string
		n     int
		want  []ChatCount
	}{
		{
			name:  "empty sample",
			names: nil,
			n:     5,
			want:  []ChatCount{},
		},
		{
			name:  "ordered by count descending",
			names: []string{"Cargo RU", "Cargo RU", "Logistics", "Cargo RU", "Logistics", "Sped"},
			n:     5,
			want: []ChatCount{
				{Name: "Cargo RU", Count: 3},
				{Name: "Logistics", Count: 2},
				{Name: "Sped", Count: 1},
			},
		},
		{
			name:  "truncates to n",
			names: []string{"a", "b", "c", "d"},
			n:     2,
			want: []ChatCount{
				{Name: "a", Count: 1},
				{Name: "b", Count: 1},
			},
		},
		{
			name:  "ties break alphabetically",
			names: []string{"beta", "alpha", "beta", "alpha"},
			n:     5,
			want: []ChatCount{
				{Name: "alpha", Count: 2},
				{Name: "beta", Count: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := topChats(tt.names, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("topChats() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDayWindows(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 15, 42, 7, 0, time.UTC)
	windows := dayWindows(now, 7)

	if len(windows) != 7 {
		t.Fatalf("expected 7 windows, got %d", len(windows))
	}

	if windows[0].Date != "2025-03-04" {
		t.Errorf("oldest window date = %q, want 2025-03-04", windows[0].Date)
	}
	if windows[6].Date != "2025-03-10" {
		t.Errorf("newest window date = %q, want 2025-03-10", windows[6].Date)
	}

	for i, w := range windows {
		if !w.End.Equal(w.Start.AddDate(0, 0, 1)) {
			t.Errorf("window %d is not one day wide: %v..%v", i, w.Start, w.End)
		}
		if w.Start.Hour() != 0 || w.Start.Minute() != 0 || w.Start.Second() != 0 {
			t.Errorf("window %d does not start at midnight: %v", i, w.Start)
		}
		if i > 0 && !w.Start.Equal(windows[i-1].End) {
			t.Errorf("window %d does not abut previous window", i)
		}
	}
}

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	in := time.Date(2025, time.July, 1, 23, 59, 59, 0, loc)
	got := startOfDay(in)
	want := time.Date(2025, time.July, 1, 0, 0, 0, 0, loc)

	if !got.Equal(want) {
		t.Errorf("startOfDay() = %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Errorf("startOfDay() changed location to %v", got.Location())
	}
}

func TestClampLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit int
		def   int
		want  int
	}{
		{name: "zero uses default", limit: 0, def: 50, want: 50},
		{name: "negative uses default", limit: -3, def: 200, want: 200},
		{name: "in range passes through", limit: 25, def: 50, want: 25},
		{name: "over cap clamps", limit: 5000, def: 50, want: maxQueryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := clampLimit(tt.limit, tt.def); got != tt.want {
				t.Errorf("clampLimit(%d, %d) = %d, want %d", tt.limit, tt.def, got, tt.want)
			}
		})
	}
}
