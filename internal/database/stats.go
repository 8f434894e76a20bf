package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"
)

// topChatsSampleSize caps how many recent rows feed the top-chats
// leaderboard. The leaderboard is a dashboard hint, not an exact
// ranking, so a bounded sample keeps the query cheap on large tables.
const topChatsSampleSize = 1000

const statsHistoryDays = 7

// The keyword counter deliberately includes inactive rows: the dashboard
// shows the catalog size, not the matcher's working set. Only the chat
// counter filters on active.
const (
	countMessagesQuery    = `SELECT COUNT(*) FROM messages`
	countTodayQuery       = `SELECT COUNT(*) FROM messages WHERE created_at >= $1`
	countDuplicatesQuery  = `SELECT COUNT(*) FROM messages WHERE is_duplicate`
	countActiveChatsQuery = `SELECT COUNT(*) FROM monitored_chats WHERE active`
	countKeywordsQuery    = `SELECT COUNT(*) FROM keywords`
	countPricedQuery      = `SELECT COUNT(*) FROM messages WHERE price IS NOT NULL`
)

// GetStats computes the aggregate dashboard snapshot. The counts are
// issued as separate queries rather than one grouped aggregate; each
// query is trivial and the snapshot does not need to be transactionally
// consistent across counters.
func (s *pgStore) GetStats(ctx context.Context) (*Stats, error) {
	now := s.now()
	stats := &Stats{
		TopChats:   []ChatCount{},
		DailyStats: []DailyCount{},
	}

	counts := []struct {
		dst   *int
		query string
		args  []any
	}{
		{&stats.TotalMessages, countMessagesQuery, nil},
		{&stats.TodayMessages, countTodayQuery, []any{startOfDay(now)}},
		{&stats.Duplicates, countDuplicatesQuery, nil},
		{&stats.ActiveChats, countActiveChatsQuery, nil},
		{&stats.TotalKeywords, countKeywordsQuery, nil},
		{&stats.MessagesWithPrices, countPricedQuery, nil},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dst, c.query, c.args...); err != nil {
			s.logger.ErrorContext(ctx, "Error computing stats count", "query", c.query, "error", err)
			return nil, fmt.Errorf("failed to compute stats: %w", err)
		}
	}

	stats.DuplicateRate = rate(stats.Duplicates, stats.TotalMessages)
	stats.PriceRate = rate(stats.MessagesWithPrices, stats.TotalMessages)

	sample, err := s.sampleChatNames(ctx)
	if err != nil {
		return nil, err
	}
	stats.TopChats = topChats(sample, 5)

	daily, err := s.dailyCounts(ctx, now)
	if err != nil {
		return nil, err
	}
	stats.DailyStats = daily

	return stats, nil
}

// sampleChatNames pulls the chat labels of the most recent messages,
// capped at topChatsSampleSize. Rows without a display name fall back
// to their chat id so every chat keeps its own bucket.
func (s *pgStore) sampleChatNames(ctx context.Context) ([]string, error) {
	rows := []struct {
		ChatName sql.NullString `db:"chat_name"`
		ChatID   string         `db:"chat_id"`
	}{}
	query := `SELECT chat_name, chat_id FROM messages ORDER BY created_at DESC LIMIT $1`
	if err := s.db.SelectContext(ctx, &rows, query, topChatsSampleSize); err != nil {
		s.logger.ErrorContext(ctx, "Error sampling chat names", "error", err)
		return nil, fmt.Errorf("failed to sample chat names: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, chatLabel(r.ChatName, r.ChatID))
	}
	return names, nil
}

// chatLabel prefers the display name and falls back to the chat id.
func chatLabel(name sql.NullString, chatID string) string {
	if name.Valid && name.String != "" {
		return name.String
	}
	return chatID
}

// dailyCounts builds the last statsHistoryDays days of message counts,
// oldest first, one count query per half-open [day, nextDay) window.
func (s *pgStore) dailyCounts(ctx context.Context, now time.Time) ([]DailyCount, error) {
	daily := make([]DailyCount, 0, statsHistoryDays)
	for _, w := range dayWindows(now, statsHistoryDays) {
		var count int
		query := `SELECT COUNT(*) FROM messages WHERE created_at >= $1 AND created_at < $2`
		if err := s.db.GetContext(ctx, &count, query, w.Start, w.End); err != nil {
			s.logger.ErrorContext(ctx, "Error counting daily messages", "date", w.Date, "error", err)
			return nil, fmt.Errorf("failed to count messages for %s: %w", w.Date, err)
		}
		daily = append(daily, DailyCount{Date: w.Date, Count: count})
	}
	return daily, nil
}

// dayWindow is one half-open day interval in the server's local zone.
type dayWindow struct {
	Date  string
	Start time.Time
	End   time.Time
}

// dayWindows returns the last n calendar days ending with today, oldest
// first. Each window is [local midnight, next local midnight).
func dayWindows(now time.Time, n int) []dayWindow {
	windows := make([]dayWindow, 0, n)
	today := startOfDay(now)
	for i := n - 1; i >= 0; i-- {
		start := today.AddDate(0, 0, -i)
		windows = append(windows, dayWindow{
			Date:  start.Format("2006-01-02"),
			Start: start,
			End:   start.AddDate(0, 0, 1),
		})
	}
	return windows
}

// startOfDay returns local midnight of the given instant.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// rate returns part as a percentage of total, rounded to one decimal.
// A zero total yields 0 rather than NaN.
func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// topChats aggregates a slice of chat names into the n most frequent,
// most active first. Ties break alphabetically so the order is stable.
func topChats(names []string, n int) []ChatCount {
	byName := make(map[string]int, len(names))
	for _, name := range names {
		byName[name]++
	}

	top := make([]ChatCount, 0, len(byName))
	for name, count := range byName {
		top = append(top, ChatCount{Name: name, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Name < top[j].Name
	})

	if len(top) > n {
		top = top[:n]
	}
	return top
}
