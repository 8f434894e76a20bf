package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/autologist/cargowatch/internal/cache"
)

const chatListCacheKey = "telegram:chats"

// Chat is one entry of the live-account chat listing produced by the
// external chat-list script.
type Chat struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	ParticipantsCount int     `json:"participantsCount"`
	Type              string  `json:"type"`
	Accessible        bool    `json:"accessible"`
	Username          *string `json:"username"`
}

// ListChats shells out to the chat-list script and returns the chats of
// the live Telegram account. Results are cached; when the script's
// environment is unusable (interpreter or Telegram library missing) a
// static demo set is returned instead so the dashboard stays usable,
// with demo=true. A hard wall-clock timeout bounds the subprocess.
func (s *Supervisor) ListChats(ctx context.Context, chatCache *cache.Cache) ([]Chat, bool, error) {
	if data, err := chatCache.Get(ctx, chatListCacheKey); err == nil {
		var chats []Chat
		if err := json.Unmarshal(data, &chats); err == nil {
			return chats, false, nil
		}
		chatCache.Invalidate(ctx, chatListCacheKey)
	}

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.ChatListTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, s.cfg.Python, s.cfg.ChatListScript)
	cmd.Dir = s.cfg.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, false, fmt.Errorf("chat listing timed out after %s", s.cfg.ChatListTimeout)
		}
		if isDegradedEnvironment(err, stderr.String()) {
			s.logger.Warn("Chat-list script unavailable, serving demo chats",
				"error", err, "stderr", strings.TrimSpace(stderr.String()))
			return demoChats(), true, nil
		}
		return nil, false, fmt.Errorf("chat listing failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	chats, err := parseChatList(stdout.Bytes())
	if err != nil {
		return nil, false, err
	}

	if payload, err := json.Marshal(chats); err == nil {
		chatCache.Set(ctx, chatListCacheKey, payload)
	}
	return chats, false, nil
}

// isDegradedEnvironment recognizes the failure modes that mean "this
// machine cannot run the script at all", as opposed to a script bug.
func isDegradedEnvironment(err error, stderr string) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	return strings.Contains(stderr, "ModuleNotFoundError")
}

// parseChatList extracts the JSON array from the script's stdout. The
// script may print log lines around the payload, so only the outermost
// bracketed span is decoded.
func parseChatList(out []byte) ([]Chat, error) {
	start := bytes.IndexByte(out, '[')
	end := bytes.LastIndexByte(out, ']')
	if start < 0 || end < start {
		return nil, errors.New("chat-list script produced no JSON array")
	}

	var chats []Chat
	if err := json.Unmarshal(out[start:end+1], &chats); err != nil {
		return nil, fmt.Errorf("failed to decode chat list: %w", err)
	}
	return chats, nil
}

func demoChats() []Chat {
	username := func(s string) *string { return &s }
	return []Chat{
		{ID: -1001234567890, Title: "Грузоперевозки РФ", ParticipantsCount: 12840, Type: "supergroup", Accessible: true, Username: username("cargo_rf")},
		{ID: -1001234567891, Title: "Логистика и перевозки", ParticipantsCount: 8312, Type: "supergroup", Accessible: true, Username: username("logistika_chat")},
		{ID: -1001234567892, Title: "Грузы Москва-СПб", ParticipantsCount: 5427, Type: "supergroup", Accessible: true},
		{ID: -1001234567893, Title: "Попутный груз", ParticipantsCount: 3108, Type: "group", Accessible: true},
		{ID: -1001234567894, Title: "Доставка сборных грузов", ParticipantsCount: 1965, Type: "supergroup", Accessible: false},
		{ID: -1001234567895, Title: "Грузоперевозки объявления", ParticipantsCount: 947, Type: "channel", Accessible: true, Username: username("cargo_ads")},
	}
}
