package store

import (
	"context"
	"errors"
	"time"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
)

type ChatStore struct {
	kv    kv.Store
	ttl   time.Duration
	limit int // transcript messages kept per session
}

func NewChatStore(store kv.Store, ttl time.Duration, limit int) *ChatStore {
	return &ChatStore{kv: store, ttl: ttl, limit: limit}
}

func chatKey(sessionID string) string {
	return "chat:" + sessionID
}

func (s *ChatStore) Messages(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := s.kv.Get(ctx, chatKey(sessionID), &messages)
	if errors.Is(err, kv.ErrNotFound) {
		return []model.ChatMessage{}, nil
	}
	if errors.Is(err, kv.ErrCorrupt) {
		logger.Warn("Chat transcript corrupt, resetting to empty", map[string]interface{}{
			"session_id": sessionID,
		})
		return []model.ChatMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Append adds messages to the transcript, trimming the oldest past the limit
func (s *ChatStore) Append(ctx context.Context, sessionID string, messages ...model.ChatMessage) error {
	existing, err := s.Messages(ctx, sessionID)
	if err != nil {
		return err
	}

	existing = append(existing, messages...)
	if s.limit > 0 && len(existing) > s.limit {
		existing = existing[len(existing)-s.limit:]
	}

	return s.kv.Set(ctx, chatKey(sessionID), existing, s.ttl)
}

func (s *ChatStore) Clear(ctx context.Context, sessionID string) error {
	return s.kv.Delete(ctx, chatKey(sessionID))
}
