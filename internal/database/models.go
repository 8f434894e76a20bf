package database

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Message represents one observed chat post. The (content_hash, user_id)
// pair identifies "the same post by the same sender"; at most one row per
// pair has is_duplicate = false, and that row is the canonical original.
type Message struct {
	ID               int64           `db:"id"                 json:"id"`
	MessageID        int64           `db:"message_id"         json:"message_id"`
	ChatID           string          `db:"chat_id"            json:"chat_id"`
	ChatName         *string         `db:"chat_name"          json:"chat_name"`
	UserID           int64           `db:"user_id"            json:"user_id"`
	Username         *string         `db:"username"           json:"username"`
	MessageText      string          `db:"message_text"       json:"message_text"`
	ContentHash      string          `db:"content_hash"       json:"content_hash"`
	Price            *float64        `db:"price"              json:"price"`
	Platform         string          `db:"platform"           json:"platform"`
	ContainsKeywords bool            `db:"contains_keywords"  json:"contains_keywords"`
	MatchedKeywords  pq.StringArray  `db:"matched_keywords"   json:"matched_keywords"`
	IsDuplicate      bool            `db:"is_duplicate"       json:"is_duplicate"`
	AIProcessed      bool            `db:"ai_processed"       json:"ai_processed"`
	AIStructuredData json.RawMessage `db:"ai_structured_data" json:"ai_structured_data"`
	CreatedAt        time.Time       `db:"created_at"         json:"created_at"`
}

// MessageDuplicate records the provenance of one duplicate occurrence:
// which original it repeats and in which chat/user context it was seen.
type MessageDuplicate struct {
	ID                int64     `db:"id"                  json:"id"`
	OriginalMessageID int64     `db:"original_message_id" json:"original_message_id"`
	ChatID            string    `db:"chat_id"             json:"chat_id"`
	ChatName          *string   `db:"chat_name"           json:"chat_name"`
	UserID            int64     `db:"user_id"             json:"user_id"`
	Username          *string   `db:"username"            json:"username"`
	DetectedAt        time.Time `db:"detected_at"         json:"detected_at"`
}

// DetailedDuplicate is a MessageDuplicate joined with its original's text
// for the paginated provenance listing.
type DetailedDuplicate struct {
	MessageDuplicate
	OriginalText     string  `db:"original_text"      json:"original_text"`
	OriginalChatName *string `db:"original_chat_name" json:"original_chat_name"`
}

// MonitoredChat is a chat/channel under observation by the external
// ingestion process. chat_id is the platform-specific identifier as a
// string (Telegram supergroup ids are negative).
type MonitoredChat struct {
	ID        int64          `db:"id"         json:"id"`
	ChatID    string         `db:"chat_id"    json:"chat_id"`
	ChatName  string         `db:"chat_name"  json:"chat_name"`
	Platform  string         `db:"platform"   json:"platform"`
	Active    bool           `db:"active"     json:"active"`
	Keywords  pq.StringArray `db:"keywords"   json:"keywords"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// Keyword is a match token. A ';'-joined value is an AND-conjunction of
// sub-terms; that semantics lives in the external matcher, not here.
type Keyword struct {
	ID        int64     `db:"id"         json:"id"`
	Keyword   string    `db:"keyword"    json:"keyword"`
	Active    bool      `db:"active"     json:"active"`
	Category  *string   `db:"category"   json:"category"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RecipientCategory is a notification target bound to a category label.
// At least one of username/phone must be present.
type RecipientCategory struct {
	ID        int64     `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Username  *string   `db:"username"   json:"username"`
	Phone     *string   `db:"phone"      json:"phone"`
	Category  string    `db:"category"   json:"category"`
	Active    bool      `db:"active"     json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Announcement is a draft/scheduled broadcast. Status is a free-form
// string written by the caller; the dispatcher acts on "scheduled".
type Announcement struct {
	ID          int64          `db:"id"           json:"id"`
	Title       string         `db:"title"        json:"title"`
	Content     string         `db:"content"      json:"content"`
	TargetChats pq.StringArray `db:"target_chats" json:"target_chats"`
	Status      string         `db:"status"       json:"status"`
	ScheduledAt *time.Time     `db:"scheduled_at" json:"scheduled_at"`
	CreatedAt   time.Time      `db:"created_at"   json:"created_at"`
}

// ChatCount is one entry of the top-chats leaderboard.
type ChatCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyCount is one day of the 7-day message histogram.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stats is the aggregate dashboard snapshot returned by GetStats.
// Field names match what the frontend consumes.
type Stats struct {
	TotalMessages      int          `json:"totalMessages"`
	TodayMessages      int          `json:"todayMessages"`
	Duplicates         int          `json:"duplicates"`
	ActiveChats        int          `json:"activeChats"`
	TotalKeywords      int          `json:"totalKeywords"`
	MessagesWithPrices int          `json:"messagesWithPrices"`
	DuplicateRate      float64      `json:"duplicateRate"`
	PriceRate          float64      `json:"priceRate"`
	TopChats           []ChatCount  `json:"topChats"`
	DailyStats         []DailyCount `json:"dailyStats"`
}

// DuplicateOrigin is one original message ranked by how many duplicates
// point at it.
type DuplicateOrigin struct {
	OriginalMessageID int64   `db:"original_message_id" json:"original_message_id"`
	ChatName          *string `db:"chat_name"           json:"chat_name"`
	TextPreview       string  `db:"text_preview"        json:"text_preview"`
	Count             int     `db:"count"               json:"count"`
}

// DuplicateStats summarizes the message_duplicates join.
type DuplicateStats struct {
	TotalDuplicates         int               `json:"totalDuplicates"`
	OriginalsWithDuplicates int               `json:"originalsWithDuplicates"`
	TopOriginals            []DuplicateOrigin `json:"topOriginals"`
}

// NewMonitoredChat carries the insert payload for a monitored chat.
// A nil Active defers to the store default (true).
type NewMonitoredChat struct {
	ChatID   string
	ChatName string
	Platform string
	Keywords []string
	Active   *bool
}

// NewKeyword carries the insert payload for a keyword.
type NewKeyword struct {
	Keyword  string
	Category *string
}

// NewRecipientCategory carries the insert payload for a recipient.
type NewRecipientCategory struct {
	Name     string
	Username *string
	Phone    *string
	Category string
	Active   *bool
}

// NewAnnouncement carries the insert payload for an announcement.
// An empty Status defaults to "draft".
type NewAnnouncement struct {
	Title       string
	Content     string
	TargetChats []string
	Status      string
	ScheduledAt *time.Time
}
