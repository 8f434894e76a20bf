package api

import (
	"net/http"
	"testing"

	"github.com/autologist/cargowatch/internal/config"
)

func TestAddRecipientValidation(t *testing.T) {
	r := newTestRouter(t, &fakeStore{}, config.ServerConfig{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "valid with phone",
			body: `{"name":"Иван","phone":"+15551234567","category":"dispatch"}`,
			want: http.StatusCreated,
		},
		{
			name: "valid with username only",
			body: `{"name":"Пётр","username":"@petr_cargo","category":"dispatch"}`,
			want: http.StatusCreated,
		},
		{
			name: "phone without plus",
			body: `{"name":"Иван","phone":"5551234567","category":"dispatch"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "phone too short",
			body: `{"name":"Иван","phone":"+123","category":"dispatch"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "phone too long",
			body: `{"name":"Иван","phone":"+1234567890123456","category":"dispatch"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "neither username nor phone",
			body: `{"name":"Иван","category":"dispatch"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "missing category",
			body: `{"name":"Иван","phone":"+15551234567"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "missing name",
			body: `{"phone":"+15551234567","category":"dispatch"}`,
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, payload := doJSON(t, r, http.MethodPost, "/api/recipient-categories", tt.body)
			if w.Code != tt.want {
				t.Fatalf("POST /api/recipient-categories = %d, want %d (body %v)",
					w.Code, tt.want, payload)
			}
		})
	}
}
