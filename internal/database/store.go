package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	defaultRecentLimit      = 50
	defaultUnprocessedLimit = 200
	maxQueryLimit           = 1000
)

// Store defines the interface for all persistence operations. It is the
// single choke point between the application and the hosted store; every
// method either returns its result or lets the driver's error propagate
// unmodified to the caller. No retries, no circuit breaking — the HTTP
// layer is the sole error-translation point.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// TestConnection performs a trivial read and reports the outcome.
	// It never returns an error; failures are folded into the result.
	TestConnection(ctx context.Context) ConnectionStatus

	// SaveMessage inserts a message row and returns the stored row.
	// Conflicts with the canonical-original unique index propagate as
	// driver errors; this call never dedups on its own.
	SaveMessage(ctx context.Context, msg *Message) (*Message, error)

	// CheckDuplicate returns the canonical original for the fingerprint,
	// or nil, nil when no non-duplicate row matches. Not atomic with a
	// subsequent insert; the store-level unique index is the backstop.
	CheckDuplicate(ctx context.Context, contentHash string, userID int64) (*Message, error)

	// GetRecentMessages returns the most recent messages, newest first.
	GetRecentMessages(ctx context.Context, limit int) ([]Message, error)

	// GetUnprocessedMessages returns oldest-first messages still awaiting
	// AI annotation. Duplicates are excluded so the AI workload is
	// bounded to genuinely new content.
	GetUnprocessedMessages(ctx context.Context, limit int) ([]Message, error)

	// UpdateAIProcessed marks a message annotated and stores the opaque
	// structured payload. Idempotent.
	UpdateAIProcessed(ctx context.Context, id int64, structured json.RawMessage) (*Message, error)

	GetKeywords(ctx context.Context) ([]Keyword, error)
	AddKeyword(ctx context.Context, in NewKeyword) (*Keyword, error)
	UpdateKeyword(ctx context.Context, id int64, active bool) (*Keyword, error)
	DeleteKeyword(ctx context.Context, id int64) error

	// GetMonitoredChats lists all monitored chats, optionally filtered by
	// platform. Inactive chats are included.
	GetMonitoredChats(ctx context.Context, platform string) ([]MonitoredChat, error)
	AddMonitoredChat(ctx context.Context, in NewMonitoredChat) (*MonitoredChat, error)
	UpdateMonitoredChat(ctx context.Context, id int64, active bool) (*MonitoredChat, error)
	DeleteMonitoredChat(ctx context.Context, id int64) error

	GetRecipientCategories(ctx context.Context) ([]RecipientCategory, error)
	AddRecipientCategory(ctx context.Context, in NewRecipientCategory) (*RecipientCategory, error)
	UpdateRecipientCategory(ctx context.Context, id int64, active bool) (*RecipientCategory, error)
	DeleteRecipientCategory(ctx context.Context, id int64) error

	CreateAnnouncement(ctx context.Context, in NewAnnouncement) (*Announcement, error)
	GetAnnouncements(ctx context.Context, status string) ([]Announcement, error)

	// DueAnnouncements returns scheduled announcements whose time has
	// come, oldest first.
	DueAnnouncements(ctx context.Context, now time.Time) ([]Announcement, error)
	MarkAnnouncementSent(ctx context.Context, id int64) error

	// GetMessageDuplicates returns the provenance rows for one original.
	GetMessageDuplicates(ctx context.Context, originalID int64) ([]MessageDuplicate, error)
	GetDuplicateStats(ctx context.Context) (*DuplicateStats, error)

	// GetDetailedDuplicates returns one page of duplicates joined with
	// their originals plus the total row count for pagination.
	GetDetailedDuplicates(ctx context.Context, page, limit int) ([]DetailedDuplicate, int, error)

	// GetStats computes the aggregate dashboard snapshot.
	GetStats(ctx context.Context) (*Stats, error)

	// CleanOldMessages deletes messages older than daysOld days and
	// returns the deleted count. Destructive, no soft-delete.
	CleanOldMessages(ctx context.Context, daysOld int) (int64, error)
}

// ConnectionStatus is the result of TestConnection.
type ConnectionStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// pgStore implements Store against the hosted Postgres store using sqlx.
type pgStore struct {
	db     *sqlx.DB
	sq     sq.StatementBuilderType
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &pgStore{
		db:     db,
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger: logger.With("component", "store"),
		now:    time.Now,
	}
}

func (s *pgStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *pgStore) TestConnection(ctx context.Context) ConnectionStatus {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM keywords`); err != nil {
		return ConnectionStatus{Success: false, Message: fmt.Sprintf("connection failed: %v", err)}
	}
	return ConnectionStatus{Success: true, Message: "database connection established"}
}

const messageColumns = `id, message_id, chat_id, chat_name, user_id, username, message_text,
       content_hash, price, platform, contains_keywords, matched_keywords,
       is_duplicate, ai_processed, ai_structured_data, created_at`

func (s *pgStore) SaveMessage(ctx context.Context, msg *Message) (*Message, error) {
	if msg == nil {
		return nil, errors.New("cannot save nil message")
	}
	if msg.ChatID == "" {
		return nil, errors.New("message must have a non-empty chat_id")
	}
	if msg.ContentHash == "" {
		return nil, errors.New("message must have a non-empty content_hash")
	}
	if msg.Platform == "" {
		msg.Platform = "telegram"
	}
	if msg.MatchedKeywords == nil {
		msg.MatchedKeywords = pq.StringArray{}
	}

	var saved Message
	query := `
        INSERT INTO messages (message_id, chat_id, chat_name, user_id, username,
                              message_text, content_hash, price, platform,
                              contains_keywords, matched_keywords, is_duplicate)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING ` + messageColumns
	err := s.db.GetContext(ctx, &saved, query,
		msg.MessageID, msg.ChatID, msg.ChatName, msg.UserID, msg.Username,
		msg.MessageText, msg.ContentHash, msg.Price, msg.Platform,
		msg.ContainsKeywords, msg.MatchedKeywords, msg.IsDuplicate)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message",
			"chat_id", msg.ChatID, "user_id", msg.UserID, "error", err)
		return nil, fmt.Errorf("failed to save message (chat %s, user %d): %w", msg.ChatID, msg.UserID, err)
	}

	s.logger.DebugContext(ctx, "Message saved",
		"message_id", saved.ID, "chat_id", saved.ChatID, "is_duplicate", saved.IsDuplicate)
	return &saved, nil
}

func (s *pgStore) CheckDuplicate(ctx context.Context, contentHash string, userID int64) (*Message, error) {
	var original Message
	query := `
        SELECT ` + messageColumns + `
        FROM messages
        WHERE content_hash = $1 AND user_id = $2 AND NOT is_duplicate
        ORDER BY created_at ASC
        LIMIT 1`
	err := s.db.GetContext(ctx, &original, query, contentHash, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		s.logger.ErrorContext(ctx, "Error checking duplicate",
			"content_hash", contentHash, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to check duplicate for user %d: %w", userID, err)
	}
	return &original, nil
}

func (s *pgStore) GetRecentMessages(ctx context.Context, limit int) ([]Message, error) {
	limit = clampLimit(limit, defaultRecentLimit)

	var messages []Message
	query := `
        SELECT ` + messageColumns + `
        FROM messages
        ORDER BY created_at DESC
        LIMIT $1`
	if err := s.db.SelectContext(ctx, &messages, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error getting recent messages", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get recent messages: %w", err)
	}
	return messages, nil
}

func (s *pgStore) GetUnprocessedMessages(ctx context.Context, limit int) ([]Message, error) {
	limit = clampLimit(limit, defaultUnprocessedLimit)

	var messages []Message
	query := `
        SELECT ` + messageColumns + `
        FROM messages
        WHERE NOT ai_processed AND NOT is_duplicate
        ORDER BY created_at ASC
        LIMIT $1`
	if err := s.db.SelectContext(ctx, &messages, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error getting unprocessed messages", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get unprocessed messages: %w", err)
	}
	return messages, nil
}

func (s *pgStore) UpdateAIProcessed(ctx context.Context, id int64, structured json.RawMessage) (*Message, error) {
	var updated Message
	query := `
        UPDATE messages
        SET ai_processed = TRUE, ai_structured_data = $2
        WHERE id = $1
        RETURNING ` + messageColumns
	err := s.db.GetContext(ctx, &updated, query, id, structured)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.ErrorContext(ctx, "Error updating AI status", "message_id", id, "error", err)
		}
		return nil, fmt.Errorf("failed to update AI status for message %d: %w", id, err)
	}
	return &updated, nil
}

// --- Keywords ---

func (s *pgStore) GetKeywords(ctx context.Context) ([]Keyword, error) {
	var keywords []Keyword
	query := `SELECT id, keyword, active, category, created_at
	          FROM keywords ORDER BY created_at DESC`
	if err := s.db.SelectContext(ctx, &keywords, query); err != nil {
		s.logger.ErrorContext(ctx, "Error getting keywords", "error", err)
		return nil, fmt.Errorf("failed to get keywords: %w", err)
	}
	return keywords, nil
}

func (s *pgStore) AddKeyword(ctx context.Context, in NewKeyword) (*Keyword, error) {
	var kw Keyword
	query := `INSERT INTO keywords (keyword, active, category)
	          VALUES ($1, TRUE, $2)
	          RETURNING id, keyword, active, category, created_at`
	if err := s.db.GetContext(ctx, &kw, query, in.Keyword, in.Category); err != nil {
		s.logger.ErrorContext(ctx, "Error adding keyword", "keyword", in.Keyword, "error", err)
		return nil, fmt.Errorf("failed to add keyword %q: %w", in.Keyword, err)
	}
	return &kw, nil
}

func (s *pgStore) UpdateKeyword(ctx context.Context, id int64, active bool) (*Keyword, error) {
	var kw Keyword
	query := `UPDATE keywords SET active = $2 WHERE id = $1
	          RETURNING id, keyword, active, category, created_at`
	if err := s.db.GetContext(ctx, &kw, query, id, active); err != nil {
		return nil, fmt.Errorf("failed to update keyword %d: %w", id, err)
	}
	return &kw, nil
}

func (s *pgStore) DeleteKeyword(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "keywords", id)
}

// --- Monitored chats ---

func (s *pgStore) GetMonitoredChats(ctx context.Context, platform string) ([]MonitoredChat, error) {
	builder := s.sq.
		Select("id", "chat_id", "chat_name", "platform", "active", "keywords", "created_at", "updated_at").
		From("monitored_chats").
		OrderBy("created_at DESC")
	if platform != "" {
		builder = builder.Where(sq.Eq{"platform": platform})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build chats query: %w", err)
	}

	var chats []MonitoredChat
	if err := s.db.SelectContext(ctx, &chats, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Error getting monitored chats", "platform", platform, "error", err)
		return nil, fmt.Errorf("failed to get monitored chats: %w", err)
	}
	return chats, nil
}

func (s *pgStore) AddMonitoredChat(ctx context.Context, in NewMonitoredChat) (*MonitoredChat, error) {
	cols := []string{"chat_id", "chat_name", "platform", "keywords"}
	vals := []any{in.ChatID, in.ChatName, in.Platform, pq.StringArray(emptyIfNil(in.Keywords))}
	if in.Active != nil {
		cols = append(cols, "active")
		vals = append(vals, *in.Active)
	}

	query, args, err := s.sq.
		Insert("monitored_chats").
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING id, chat_id, chat_name, platform, active, keywords, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build chat insert: %w", err)
	}

	var chat MonitoredChat
	if err := s.db.GetContext(ctx, &chat, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Error adding monitored chat",
			"chat_id", in.ChatID, "platform", in.Platform, "error", err)
		return nil, fmt.Errorf("failed to add monitored chat %s: %w", in.ChatID, err)
	}
	return &chat, nil
}

func (s *pgStore) UpdateMonitoredChat(ctx context.Context, id int64, active bool) (*MonitoredChat, error) {
	var chat MonitoredChat
	query := `UPDATE monitored_chats SET active = $2, updated_at = NOW() WHERE id = $1
	          RETURNING id, chat_id, chat_name, platform, active, keywords, created_at, updated_at`
	if err := s.db.GetContext(ctx, &chat, query, id, active); err != nil {
		return nil, fmt.Errorf("failed to update monitored chat %d: %w", id, err)
	}
	return &chat, nil
}

func (s *pgStore) DeleteMonitoredChat(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "monitored_chats", id)
}

// --- Recipient categories ---

func (s *pgStore) GetRecipientCategories(ctx context.Context) ([]RecipientCategory, error) {
	var recipients []RecipientCategory
	query := `SELECT id, name, username, phone, category, active, created_at, updated_at
	          FROM recipient_categories ORDER BY name ASC`
	if err := s.db.SelectContext(ctx, &recipients, query); err != nil {
		s.logger.ErrorContext(ctx, "Error getting recipient categories", "error", err)
		return nil, fmt.Errorf("failed to get recipient categories: %w", err)
	}
	return recipients, nil
}

func (s *pgStore) AddRecipientCategory(ctx context.Context, in NewRecipientCategory) (*RecipientCategory, error) {
	cols := []string{"name", "username", "phone", "category"}
	vals := []any{in.Name, in.Username, in.Phone, in.Category}
	if in.Active != nil {
		cols = append(cols, "active")
		vals = append(vals, *in.Active)
	}

	query, args, err := s.sq.
		Insert("recipient_categories").
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING id, name, username, phone, category, active, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recipient insert: %w", err)
	}

	var rec RecipientCategory
	if err := s.db.GetContext(ctx, &rec, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Error adding recipient category",
			"name", in.Name, "category", in.Category, "error", err)
		return nil, fmt.Errorf("failed to add recipient %q: %w", in.Name, err)
	}
	return &rec, nil
}

func (s *pgStore) UpdateRecipientCategory(ctx context.Context, id int64, active bool) (*RecipientCategory, error) {
	var rec RecipientCategory
	query := `UPDATE recipient_categories SET active = $2, updated_at = NOW() WHERE id = $1
	          RETURNING id, name, username, phone, category, active, created_at, updated_at`
	if err := s.db.GetContext(ctx, &rec, query, id, active); err != nil {
		return nil, fmt.Errorf("failed to update recipient %d: %w", id, err)
	}
	return &rec, nil
}

func (s *pgStore) DeleteRecipientCategory(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "recipient_categories", id)
}

// --- Announcements ---

func (s *pgStore) CreateAnnouncement(ctx context.Context, in NewAnnouncement) (*Announcement, error) {
	status := in.Status
	if status == "" {
		status = "draft"
	}

	var ann Announcement
	query := `INSERT INTO announcements (title, content, target_chats, status, scheduled_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, title, content, target_chats, status, scheduled_at, created_at`
	err := s.db.GetContext(ctx, &ann, query,
		in.Title, in.Content, pq.StringArray(emptyIfNil(in.TargetChats)), status, in.ScheduledAt)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating announcement", "title", in.Title, "error", err)
		return nil, fmt.Errorf("failed to create announcement %q: %w", in.Title, err)
	}
	return &ann, nil
}

func (s *pgStore) GetAnnouncements(ctx context.Context, status string) ([]Announcement, error) {
	builder := s.sq.
		Select("id", "title", "content", "target_chats", "status", "scheduled_at", "created_at").
		From("announcements").
		OrderBy("created_at DESC")
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build announcements query: %w", err)
	}

	var anns []Announcement
	if err := s.db.SelectContext(ctx, &anns, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Error getting announcements", "status", status, "error", err)
		return nil, fmt.Errorf("failed to get announcements: %w", err)
	}
	return anns, nil
}

func (s *pgStore) DueAnnouncements(ctx context.Context, now time.Time) ([]Announcement, error) {
	var anns []Announcement
	query := `SELECT id, title, content, target_chats, status, scheduled_at, created_at
	          FROM announcements
	          WHERE status = 'scheduled' AND scheduled_at IS NOT NULL AND scheduled_at <= $1
	          ORDER BY scheduled_at ASC`
	if err := s.db.SelectContext(ctx, &anns, query, now); err != nil {
		s.logger.ErrorContext(ctx, "Error getting due announcements", "error", err)
		return nil, fmt.Errorf("failed to get due announcements: %w", err)
	}
	return anns, nil
}

func (s *pgStore) MarkAnnouncementSent(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE announcements SET status = 'sent' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark announcement %d sent: %w", id, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- Duplicate provenance ---

func (s *pgStore) GetMessageDuplicates(ctx context.Context, originalID int64) ([]MessageDuplicate, error) {
	var dups []MessageDuplicate
	query := `SELECT id, original_message_id, chat_id, chat_name, user_id, username, detected_at
	          FROM message_duplicates
	          WHERE original_message_id = $1
	          ORDER BY detected_at DESC`
	if err := s.db.SelectContext(ctx, &dups, query, originalID); err != nil {
		s.logger.ErrorContext(ctx, "Error getting message duplicates",
			"original_id", originalID, "error", err)
		return nil, fmt.Errorf("failed to get duplicates for message %d: %w", originalID, err)
	}
	return dups, nil
}

func (s *pgStore) GetDuplicateStats(ctx context.Context) (*DuplicateStats, error) {
	stats := &DuplicateStats{TopOriginals: []DuplicateOrigin{}}

	if err := s.db.GetContext(ctx, &stats.TotalDuplicates,
		`SELECT COUNT(*) FROM message_duplicates`); err != nil {
		return nil, fmt.Errorf("failed to count duplicates: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.OriginalsWithDuplicates,
		`SELECT COUNT(DISTINCT original_message_id) FROM message_duplicates`); err != nil {
		return nil, fmt.Errorf("failed to count duplicated originals: %w", err)
	}

	query := `
        SELECT d.original_message_id,
               m.chat_name,
               LEFT(m.message_text, 120) AS text_preview,
               COUNT(*) AS count
        FROM message_duplicates d
        JOIN messages m ON m.id = d.original_message_id
        GROUP BY d.original_message_id, m.chat_name, m.message_text
        ORDER BY count DESC
        LIMIT 5`
	if err := s.db.SelectContext(ctx, &stats.TopOriginals, query); err != nil {
		return nil, fmt.Errorf("failed to get top duplicated originals: %w", err)
	}

	return stats, nil
}

func (s *pgStore) GetDetailedDuplicates(ctx context.Context, page, limit int) ([]DetailedDuplicate, int, error) {
	if page < 1 {
		page = 1
	}
	limit = clampLimit(limit, defaultRecentLimit)
	offset := (page - 1) * limit

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM message_duplicates`); err != nil {
		return nil, 0, fmt.Errorf("failed to count duplicates: %w", err)
	}

	query, args, err := s.sq.
		Select("d.id", "d.original_message_id", "d.chat_id", "d.chat_name",
			"d.user_id", "d.username", "d.detected_at",
			"m.message_text AS original_text", "m.chat_name AS original_chat_name").
		From("message_duplicates d").
		Join("messages m ON m.id = d.original_message_id").
		OrderBy("d.detected_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build detailed duplicates query: %w", err)
	}

	var dups []DetailedDuplicate
	if err := s.db.SelectContext(ctx, &dups, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Error getting detailed duplicates",
			"page", page, "limit", limit, "error", err)
		return nil, 0, fmt.Errorf("failed to get detailed duplicates: %w", err)
	}
	return dups, total, nil
}

// --- Retention ---

func (s *pgStore) CleanOldMessages(ctx context.Context, daysOld int) (int64, error) {
	if daysOld <= 0 {
		daysOld = 14
	}
	cutoff := s.now().AddDate(0, 0, -daysOld)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM messages WHERE created_at < $1`, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error cleaning old messages", "days", daysOld, "error", err)
		return 0, fmt.Errorf("failed to clean messages older than %d days: %w", daysOld, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted count: %w", err)
	}
	s.logger.InfoContext(ctx, "Cleaned old messages", "days", daysOld, "deleted", deleted)
	return deleted, nil
}

// deleteByID removes one row and reports sql.ErrNoRows when nothing
// matched so the HTTP layer can answer 404.
func (s *pgStore) deleteByID(ctx context.Context, table string, id int64) error {
	query, args, err := s.sq.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete for %s: %w", table, err)
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting row", "table", table, "id", id, "error", err)
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// NormalizePageLimit applies the store's paging bounds (default 50,
// cap 1000) so callers can echo the effective limit back to clients.
func NormalizePageLimit(limit int) int {
	return clampLimit(limit, defaultRecentLimit)
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxQueryLimit {
		return maxQueryLimit
	}
	return limit
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
