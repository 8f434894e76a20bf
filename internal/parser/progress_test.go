package parser

import "testing"

func TestParseProcessed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		want    int64
		matched bool
	}{
		{
			name:    "plain counter line",
			line:    "Обработано сообщений: 152",
			want:    152,
			matched: true,
		},
		{
			name:    "counter embedded in longer line",
			line:    "[2025-07-01 12:00:03] INFO Обработано сообщений: 7 (чат: Грузы Москва)",
			want:    7,
			matched: true,
		},
		{
			name:    "zero",
			line:    "Обработано сообщений: 0",
			want:    0,
			matched: true,
		},
		{
			name: "unrelated line",
			line: "Подключение к Telegram установлено",
		},
		{
			name: "saved counter does not match processed",
			line: "Сохранено новых: 12",
		},
		{
			name: "empty line",
			line: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseProcessed(tt.line)
			if ok != tt.matched {
				t.Fatalf("ParseProcessed(%q) matched = %v, want %v", tt.line, ok, tt.matched)
			}
			if got != tt.want {
				t.Errorf("ParseProcessed(%q) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseSaved(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		want    int64
		matched bool
	}{
		{
			name:    "plain counter line",
			line:    "Сохранено новых: 34",
			want:    34,
			matched: true,
		},
		{
			name: "processed counter does not match saved",
			line: "Обработано сообщений: 34",
		},
		{
			name: "counter without number",
			line: "Сохранено новых: много",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseSaved(tt.line)
			if ok != tt.matched {
				t.Fatalf("ParseSaved(%q) matched = %v, want %v", tt.line, ok, tt.matched)
			}
			if got != tt.want {
				t.Errorf("ParseSaved(%q) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}
