package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
	"github.com/minhtvo/storefront-gateway/pkg/upstream"
)

var ErrEmptyQuestion = errors.New("question is empty")

// chatFallback is shown when the assistant backend does not answer
const chatFallback = "Xin lỗi, trợ lý đang bận. Vui lòng thử lại sau."

type ChatService interface {
	// Ask relays the question to the assistant and records both sides of
	// the exchange in the session transcript
	Ask(ctx context.Context, sessionID, question string) (*model.ChatMessage, error)
	History(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	Reset(ctx context.Context, sessionID string) error
}

type chatService struct {
	transcripts *store.ChatStore
	client      *upstream.Client
}

func NewChatService(transcripts *store.ChatStore, client *upstream.Client) ChatService {
	return &chatService{transcripts: transcripts, client: client}
}

func (s *chatService) Ask(ctx context.Context, sessionID, question string) (*model.ChatMessage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	now := time.Now()
	userMsg := model.ChatMessage{
		Sender: model.SenderUser,
		Text:   question,
		SentAt: now,
	}

	answer := chatFallback
	resp, err := s.client.Chatbot(ctx, question)
	if err != nil {
		// The widget degrades to a canned apology instead of erroring; the
		// question still lands in the transcript.
		logger.Warn("Chatbot relay failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	} else if strings.TrimSpace(resp.Answer) != "" {
		answer = resp.Answer
	}

	botMsg := model.ChatMessage{
		Sender: model.SenderBot,
		Text:   answer,
		SentAt: time.Now(),
	}

	if err := s.transcripts.Append(ctx, sessionID, userMsg, botMsg); err != nil {
		return nil, err
	}
	return &botMsg, nil
}

func (s *chatService) History(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	return s.transcripts.Messages(ctx, sessionID)
}

func (s *chatService) Reset(ctx context.Context, sessionID string) error {
	return s.transcripts.Clear(ctx, sessionID)
}
