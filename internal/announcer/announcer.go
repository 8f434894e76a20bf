// Package announcer dispatches scheduled announcements to their target
// Telegram chats through the bot API.
package announcer

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-telegram/bot"

	"github.com/autologist/cargowatch/internal/database"
)

// Announcer sends due announcements and marks them sent.
type Announcer struct {
	bot    *bot.Bot
	store  database.Store
	logger *slog.Logger
}

// New creates an Announcer over the given bot token.
func New(token string, store database.Store, logger *slog.Logger) (*Announcer, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &Announcer{
		bot:    b,
		store:  store,
		logger: logger.With("component", "announcer"),
	}, nil
}

// DispatchDue sends every announcement whose schedule time has passed
// and returns how many were fully dispatched. An announcement is marked
// sent only when at least one target chat accepted it; partial delivery
// is logged per chat.
func (a *Announcer) DispatchDue(ctx context.Context) (int, error) {
	due, err := a.store.DueAnnouncements(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to load due announcements: %w", err)
	}

	sent := 0
	for _, ann := range due {
		delivered := 0
		for _, target := range ann.TargetChats {
			chatID, err := strconv.ParseInt(target, 10, 64)
			if err != nil {
				a.logger.WarnContext(ctx, "Skipping non-numeric target chat",
					"announcement_id", ann.ID, "target", target)
				continue
			}

			_, err = a.bot.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   fmt.Sprintf("%s\n\n%s", ann.Title, ann.Content),
			})
			if err != nil {
				a.logger.ErrorContext(ctx, "Failed to send announcement",
					"announcement_id", ann.ID, "chat_id", chatID, "error", err)
				continue
			}
			delivered++
		}

		if delivered == 0 {
			a.logger.WarnContext(ctx, "Announcement not delivered to any chat",
				"announcement_id", ann.ID, "targets", len(ann.TargetChats))
			continue
		}

		if err := a.store.MarkAnnouncementSent(ctx, ann.ID); err != nil {
			a.logger.ErrorContext(ctx, "Failed to mark announcement sent",
				"announcement_id", ann.ID, "error", err)
			continue
		}
		sent++
	}

	return sent, nil
}
