// Package annotator implements the downstream AI-annotation step: it
// feeds unprocessed messages to Google's Gemini API and stores the
// structured cargo data it extracts.
package annotator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/autologist/cargowatch/internal/config"
	"github.com/autologist/cargowatch/internal/database"
)

const systemInstruction = `Ты анализируешь сообщения из чатов грузоперевозок.
Для каждого сообщения верни JSON-объект с полями:
  "route": {"from": string|null, "to": string|null},
  "cargo": string|null,
  "weight_kg": number|null,
  "price": number|null,
  "vehicle": string|null,
  "contact": string|null,
  "is_offer": boolean (true если предлагают груз, false если ищут груз)
Отвечай только JSON-объектом без пояснений.`

// Annotator runs annotation batches against the Gemini API.
type Annotator struct {
	client  *genai.Client
	store   database.Store
	logger  *slog.Logger
	model   string
	batch   int
	timeout time.Duration
}

// New creates an Annotator. The API token is required; callers decide
// whether annotation is enabled before constructing one.
func New(ctx context.Context, cfg config.AIConfig, store database.Store, logger *slog.Logger) (*Annotator, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("AI token is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Token,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Annotator{
		client:  client,
		store:   store,
		logger:  logger.With("component", "annotator"),
		model:   cfg.Model,
		batch:   cfg.BatchSize,
		timeout: cfg.Timeout,
	}, nil
}

// AnnotateBatch pulls one batch of unprocessed originals, annotates
// each, and marks it processed. Per-message failures are logged and
// skipped so one bad message cannot stall the queue; the message stays
// unprocessed and is retried on the next batch.
func (a *Annotator) AnnotateBatch(ctx context.Context) (int, error) {
	messages, err := a.store.GetUnprocessedMessages(ctx, a.batch)
	if err != nil {
		return 0, fmt.Errorf("failed to load annotation queue: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	annotated := 0
	for i := range messages {
		msg := &messages[i]

		structured, err := a.annotate(ctx, msg.MessageText)
		if err != nil {
			a.logger.WarnContext(ctx, "Annotation failed, message stays queued",
				"message_id", msg.ID, "error", err)
			continue
		}

		if _, err := a.store.UpdateAIProcessed(ctx, msg.ID, structured); err != nil {
			a.logger.ErrorContext(ctx, "Failed to store annotation",
				"message_id", msg.ID, "error", err)
			continue
		}
		annotated++
	}

	return annotated, nil
}

func (a *Annotator) annotate(ctx context.Context, text string) (json.RawMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.Models.GenerateContent(callCtx, a.model,
		genai.Text(text),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: systemInstruction}},
			},
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini call failed: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	if raw == "" {
		return nil, fmt.Errorf("gemini returned an empty response")
	}

	payload := extractJSON(raw)
	if !json.Valid(payload) {
		return nil, fmt.Errorf("gemini returned invalid JSON: %.120s", raw)
	}
	return payload, nil
}

// extractJSON strips the markdown code fence the model sometimes wraps
// its answer in.
func extractJSON(raw string) json.RawMessage {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	return json.RawMessage(s)
}
