package api

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/autologist/cargowatch/internal/config"
	"github.com/autologist/cargowatch/internal/database"
)

func TestAddChatValidation(t *testing.T) {
	r := newTestRouter(t, &fakeStore{}, config.ServerConfig{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "valid chat",
			body: `{"chat_id":"-100123","chat_name":"Test","platform":"telegram"}`,
			want: http.StatusCreated,
		},
		{
			name: "platform defaults to telegram",
			body: `{"chat_id":"-100124","chat_name":"Test 2"}`,
			want: http.StatusCreated,
		},
		{
			name: "missing chat_id",
			body: `{"chat_name":"Test"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "missing chat_name",
			body: `{"chat_id":"-100123"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "not json",
			body: `chat_id=-100123`,
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, payload := doJSON(t, r, http.MethodPost, "/api/chats", tt.body)
			if w.Code != tt.want {
				t.Fatalf("POST /api/chats = %d, want %d (body %v)", w.Code, tt.want, payload)
			}
		})
	}
}

func TestAddChatConflictTranslatesTo409(t *testing.T) {
	store := &fakeStore{
		addChat: func(context.Context, database.NewMonitoredChat) (*database.MonitoredChat, error) {
			return nil, &pgconn.PgError{Code: "23505", ConstraintName: "monitored_chats_platform_chat_id_key"}
		},
	}
	r := newTestRouter(t, store, config.ServerConfig{})

	w, payload := doJSON(t, r, http.MethodPost, "/api/chats",
		`{"chat_id":"-100123","chat_name":"Test"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate chat insert = %d, want 409 (body %v)", w.Code, payload)
	}
	if payload["success"] != false {
		t.Errorf("expected success=false, got %v", payload)
	}
}

func TestUpdateChat(t *testing.T) {
	store := &fakeStore{
		updateChat: func(_ context.Context, id int64, active bool) (*database.MonitoredChat, error) {
			if id == 404 {
				return nil, sql.ErrNoRows
			}
			return &database.MonitoredChat{ID: id, Active: active}, nil
		},
	}
	r := newTestRouter(t, store, config.ServerConfig{})

	w, payload := doJSON(t, r, http.MethodPatch, "/api/chats/5", `{"active":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH /api/chats/5 = %d, want 200", w.Code)
	}
	data := payload["data"].(map[string]any)
	if data["active"] != false {
		t.Errorf("active = %v, want false", data["active"])
	}

	w, _ = doJSON(t, r, http.MethodPatch, "/api/chats/404", `{"active":true}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("PATCH on missing chat = %d, want 404", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodPatch, "/api/chats/5", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("PATCH without active = %d, want 400", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodPatch, "/api/chats/abc", `{"active":true}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("PATCH with non-numeric id = %d, want 400", w.Code)
	}
}

func TestDeleteChatMissingTranslatesTo404(t *testing.T) {
	store := &fakeStore{
		deleteChat: func(context.Context, int64) error { return sql.ErrNoRows },
	}
	r := newTestRouter(t, store, config.ServerConfig{})

	w, _ := doJSON(t, r, http.MethodDelete, "/api/chats/99", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("DELETE on missing chat = %d, want 404", w.Code)
	}
}
