package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/autologist/cargowatch/internal/database"
)

// Annotator processes one batch of unannotated messages.
type Annotator interface {
	AnnotateBatch(ctx context.Context) (int, error)
}

// Dispatcher sends announcements whose schedule time has passed.
type Dispatcher interface {
	DispatchDue(ctx context.Context) (int, error)
}

// Tasks builds the task registry. A nil annotator or dispatcher leaves
// the corresponding task unregistered, so enabling it in config only
// logs a warning instead of failing.
func Tasks(
	store database.Store,
	retentionDays int,
	annotator Annotator,
	dispatcher Dispatcher,
	logger *slog.Logger,
) map[string]TaskFunc {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "tasks")

	tasks := map[string]TaskFunc{
		"message_retention": func(ctx context.Context) error {
			deleted, err := store.CleanOldMessages(ctx, retentionDays)
			if err != nil {
				return fmt.Errorf("retention sweep failed: %w", err)
			}
			log.Info("Retention sweep done", "days", retentionDays, "deleted", deleted)
			return nil
		},
	}

	if annotator != nil {
		tasks["ai_annotation"] = func(ctx context.Context) error {
			annotated, err := annotator.AnnotateBatch(ctx)
			if err != nil {
				return fmt.Errorf("annotation batch failed: %w", err)
			}
			log.Info("Annotation batch done", "annotated", annotated)
			return nil
		}
	}

	if dispatcher != nil {
		tasks["announcement_dispatch"] = func(ctx context.Context) error {
			sent, err := dispatcher.DispatchDue(ctx)
			if err != nil {
				return fmt.Errorf("announcement dispatch failed: %w", err)
			}
			if sent > 0 {
				log.Info("Announcements dispatched", "sent", sent)
			}
			return nil
		}
	}

	return tasks
}
