package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autologist/cargowatch/internal/cache"
	"github.com/autologist/cargowatch/internal/config"
	"github.com/autologist/cargowatch/internal/database"
	"github.com/autologist/cargowatch/internal/parser"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeStore lets each test supply just the gateway methods it touches;
// everything else answers with zero values.
type fakeStore struct {
	saveMessage        func(context.Context, *database.Message) (*database.Message, error)
	getRecent          func(context.Context, int) ([]database.Message, error)
	getUnprocessed     func(context.Context, int) ([]database.Message, error)
	updateAIProcessed  func(context.Context, int64, json.RawMessage) (*database.Message, error)
	addKeyword         func(context.Context, database.NewKeyword) (*database.Keyword, error)
	updateKeyword      func(context.Context, int64, bool) (*database.Keyword, error)
	deleteKeyword      func(context.Context, int64) error
	getChats           func(context.Context, string) ([]database.MonitoredChat, error)
	addChat            func(context.Context, database.NewMonitoredChat) (*database.MonitoredChat, error)
	updateChat         func(context.Context, int64, bool) (*database.MonitoredChat, error)
	deleteChat         func(context.Context, int64) error
	addRecipient       func(context.Context, database.NewRecipientCategory) (*database.RecipientCategory, error)
	getStats           func(context.Context) (*database.Stats, error)
	getDuplicates      func(context.Context, int64) ([]database.MessageDuplicate, error)
	getDuplicateStats  func(context.Context) (*database.DuplicateStats, error)
	getDetailedDups    func(context.Context, int, int) ([]database.DetailedDuplicate, int, error)
	cleanOldMessages   func(context.Context, int) (int64, error)
	createAnnouncement func(context.Context, database.NewAnnouncement) (*database.Announcement, error)
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) TestConnection(context.Context) database.ConnectionStatus {
	return database.ConnectionStatus{Success: true, Message: "ok"}
}

func (f *fakeStore) SaveMessage(ctx context.Context, m *database.Message) (*database.Message, error) {
	if f.saveMessage != nil {
		return f.saveMessage(ctx, m)
	}
	return m, nil
}

func (f *fakeStore) CheckDuplicate(context.Context, string, int64) (*database.Message, error) {
	return nil, nil
}

func (f *fakeStore) GetRecentMessages(ctx context.Context, limit int) ([]database.Message, error) {
	if f.getRecent != nil {
		return f.getRecent(ctx, limit)
	}
	return []database.Message{}, nil
}

func (f *fakeStore) GetUnprocessedMessages(ctx context.Context, limit int) ([]database.Message, error) {
	if f.getUnprocessed != nil {
		return f.getUnprocessed(ctx, limit)
	}
	return []database.Message{}, nil
}

func (f *fakeStore) UpdateAIProcessed(ctx context.Context, id int64, data json.RawMessage) (*database.Message, error) {
	if f.updateAIProcessed != nil {
		return f.updateAIProcessed(ctx, id, data)
	}
	return &database.Message{ID: id, AIProcessed: true, AIStructuredData: data}, nil
}

func (f *fakeStore) GetKeywords(context.Context) ([]database.Keyword, error) {
	return []database.Keyword{}, nil
}

func (f *fakeStore) AddKeyword(ctx context.Context, in database.NewKeyword) (*database.Keyword, error) {
	if f.addKeyword != nil {
		return f.addKeyword(ctx, in)
	}
	return &database.Keyword{ID: 1, Keyword: in.Keyword, Active: true}, nil
}

func (f *fakeStore) UpdateKeyword(ctx context.Context, id int64, active bool) (*database.Keyword, error) {
	if f.updateKeyword != nil {
		return f.updateKeyword(ctx, id, active)
	}
	return &database.Keyword{ID: id, Active: active}, nil
}

func (f *fakeStore) DeleteKeyword(ctx context.Context, id int64) error {
	if f.deleteKeyword != nil {
		return f.deleteKeyword(ctx, id)
	}
	return nil
}

func (f *fakeStore) GetMonitoredChats(ctx context.Context, platform string) ([]database.MonitoredChat, error) {
	if f.getChats != nil {
		return f.getChats(ctx, platform)
	}
	return []database.MonitoredChat{}, nil
}

func (f *fakeStore) AddMonitoredChat(ctx context.Context, in database.NewMonitoredChat) (*database.MonitoredChat, error) {
	if f.addChat != nil {
		return f.addChat(ctx, in)
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return &database.MonitoredChat{
		ID: 1, ChatID: in.ChatID, ChatName: in.ChatName,
		Platform: in.Platform, Active: active,
	}, nil
}

func (f *fakeStore) UpdateMonitoredChat(ctx context.Context, id int64, active bool) (*database.MonitoredChat, error) {
	if f.updateChat != nil {
		return f.updateChat(ctx, id, active)
	}
	return &database.MonitoredChat{ID: id, Active: active}, nil
}

func (f *fakeStore) DeleteMonitoredChat(ctx context.Context, id int64) error {
	if f.deleteChat != nil {
		return f.deleteChat(ctx, id)
	}
	return nil
}

func (f *fakeStore) GetRecipientCategories(context.Context) ([]database.RecipientCategory, error) {
	return []database.RecipientCategory{}, nil
}

func (f *fakeStore) AddRecipientCategory(ctx context.Context, in database.NewRecipientCategory) (*database.RecipientCategory, error) {
	if f.addRecipient != nil {
		return f.addRecipient(ctx, in)
	}
	return &database.RecipientCategory{ID: 1, Name: in.Name, Category: in.Category, Active: true}, nil
}

func (f *fakeStore) UpdateRecipientCategory(ctx context.Context, id int64, active bool) (*database.RecipientCategory, error) {
	return &database.RecipientCategory{ID: id, Active: active}, nil
}

func (f *fakeStore) DeleteRecipientCategory(context.Context, int64) error { return nil }

func (f *fakeStore) CreateAnnouncement(ctx context.Context, in database.NewAnnouncement) (*database.Announcement, error) {
	if f.createAnnouncement != nil {
		return f.createAnnouncement(ctx, in)
	}
	status := in.Status
	if status == "" {
		status = "draft"
	}
	return &database.Announcement{ID: 1, Title: in.Title, Content: in.Content, Status: status}, nil
}

func (f *fakeStore) GetAnnouncements(context.Context, string) ([]database.Announcement, error) {
	return []database.Announcement{}, nil
}

func (f *fakeStore) DueAnnouncements(context.Context, time.Time) ([]database.Announcement, error) {
	return []database.Announcement{}, nil
}

func (f *fakeStore) MarkAnnouncementSent(context.Context, int64) error { return nil }

func (f *fakeStore) GetMessageDuplicates(ctx context.Context, id int64) ([]database.MessageDuplicate, error) {
	if f.getDuplicates != nil {
		return f.getDuplicates(ctx, id)
	}
	return []database.MessageDuplicate{}, nil
}

func (f *fakeStore) GetDuplicateStats(ctx context.Context) (*database.DuplicateStats, error) {
	if f.getDuplicateStats != nil {
		return f.getDuplicateStats(ctx)
	}
	return &database.DuplicateStats{TopOriginals: []database.DuplicateOrigin{}}, nil
}

func (f *fakeStore) GetDetailedDuplicates(ctx context.Context, page, limit int) ([]database.DetailedDuplicate, int, error) {
	if f.getDetailedDups != nil {
		return f.getDetailedDups(ctx, page, limit)
	}
	return []database.DetailedDuplicate{}, 0, nil
}

func (f *fakeStore) GetStats(ctx context.Context) (*database.Stats, error) {
	if f.getStats != nil {
		return f.getStats(ctx)
	}
	return &database.Stats{TopChats: []database.ChatCount{}, DailyStats: []database.DailyCount{}}, nil
}

func (f *fakeStore) CleanOldMessages(ctx context.Context, days int) (int64, error) {
	if f.cleanOldMessages != nil {
		return f.cleanOldMessages(ctx, days)
	}
	return 0, nil
}

type fakeInspector struct {
	pid   int
	found bool
}

func (f *fakeInspector) FindProcess(context.Context, string) (int, bool, error) {
	return f.pid, f.found, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, store database.Store, cfg config.ServerConfig) *gin.Engine {
	t.Helper()
	return newTestRouterWithInspector(t, store, cfg, &fakeInspector{})
}

func newTestRouterWithInspector(
	t *testing.T,
	store database.Store,
	cfg config.ServerConfig,
	inspector parser.ProcessInspector,
) *gin.Engine {
	t.Helper()
	sup := parser.NewSupervisor(parser.Config{Script: "ingest.py"}, inspector, discardLogger())
	chatCache := cache.New(nil, "test:", time.Minute, discardLogger())
	srv := NewServer(store, sup, chatCache, false, discardLogger())
	return srv.Router(cfg)
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var payload map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("response is not JSON: %v\nbody: %s", err, w.Body.String())
		}
	}
	return w, payload
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t, &fakeStore{}, config.ServerConfig{})

	w, payload := doJSON(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", w.Code)
	}
	if payload["status"] != "ok" {
		t.Errorf("health status = %v, want ok", payload["status"])
	}
}

func TestUnmatchedRouteAnswersJSON404(t *testing.T) {
	r := newTestRouter(t, &fakeStore{}, config.ServerConfig{})

	w, payload := doJSON(t, r, http.MethodGet, "/api/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unmatched route = %d, want 404", w.Code)
	}
	if payload["success"] != false {
		t.Errorf("expected success=false envelope, got %v", payload)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	r := newTestRouter(t, &fakeStore{}, config.ServerConfig{APIKeys: []string{"sekret"}})

	w, _ := doJSON(t, r, http.MethodGet, "/api/keywords", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("request without key = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/keywords", nil)
	req.Header.Set("X-API-Key", "sekret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("request with key = %d, want 200", rec.Code)
	}
}

func TestStatsEnvelope(t *testing.T) {
	store := &fakeStore{
		getStats: func(context.Context) (*database.Stats, error) {
			return &database.Stats{
				TotalMessages: 100,
				Duplicates:    25,
				DuplicateRate: 25,
				TopChats:      []database.ChatCount{{Name: "Грузы", Count: 40}},
				DailyStats:    []database.DailyCount{},
			}, nil
		},
	}
	r := newTestRouter(t, store, config.ServerConfig{})

	w, payload := doJSON(t, r, http.MethodGet, "/api/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/stats = %d, want 200", w.Code)
	}
	data, ok := payload["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data object in %v", payload)
	}
	if data["totalMessages"] != float64(100) {
		t.Errorf("totalMessages = %v, want 100", data["totalMessages"])
	}
	if data["duplicateRate"] != float64(25) {
		t.Errorf("duplicateRate = %v, want 25", data["duplicateRate"])
	}
}

func TestGetMessagesPassesLimit(t *testing.T) {
	var gotLimit int
	store := &fakeStore{
		getRecent: func(_ context.Context, limit int) ([]database.Message, error) {
			gotLimit = limit
			return []database.Message{{ID: 1}, {ID: 2}}, nil
		},
	}
	r := newTestRouter(t, store, config.ServerConfig{})

	w, payload := doJSON(t, r, http.MethodGet, "/api/messages?limit=7", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/messages = %d, want 200", w.Code)
	}
	if gotLimit != 7 {
		t.Errorf("store received limit %d, want 7", gotLimit)
	}
	if payload["count"] != float64(2) {
		t.Errorf("count = %v, want 2", payload["count"])
	}
}

func TestCleanupValidatesDays(t *testing.T) {
	store := &fakeStore{
		cleanOldMessages: func(_ context.Context, days int) (int64, error) {
			if days != 30 {
				t.Errorf("store received days %d, want 30", days)
			}
			return 12, nil
		},
	}
	r := newTestRouter(t, store, config.ServerConfig{})

	w, _ := doJSON(t, r, http.MethodDelete, "/api/messages/cleanup?days=30", "")
	if w.Code != http.StatusOK {
		t.Fatalf("cleanup = %d, want 200", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodDelete, "/api/messages/cleanup?days=-1", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("cleanup with negative days = %d, want 400", w.Code)
	}
}
