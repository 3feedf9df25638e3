package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionStore struct {
	kv  kv.Store
	ttl time.Duration
}

func NewSessionStore(store kv.Store, ttl time.Duration) *SessionStore {
	return &SessionStore{kv: store, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// Create mints a new anonymous session
func (s *SessionStore) Create(ctx context.Context) (*model.Session, error) {
	session := &model.Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}
	if err := s.kv.Set(ctx, sessionKey(session.ID), session, s.ttl); err != nil {
		return nil, err
	}

	logger.Info("Session created", map[string]interface{}{
		"session_id": session.ID,
	})
	return session, nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	var session model.Session
	err := s.kv.Get(ctx, sessionKey(sessionID), &session)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if errors.Is(err, kv.ErrCorrupt) {
		// A mangled session snapshot is treated like an expired one; the
		// token no longer resolves and the client starts a fresh session.
		logger.Warn("Session snapshot corrupt, dropping", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// SetUser attaches (or with nil detaches) the signed-in user
func (s *SessionStore) SetUser(ctx context.Context, sessionID string, user *model.User) (*model.Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	session.User = user
	if err := s.kv.Set(ctx, sessionKey(sessionID), session, s.ttl); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.kv.Delete(ctx, sessionKey(sessionID))
}
