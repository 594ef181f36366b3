package chat

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/hperssn/focusnest/internal/domain"
	"github.com/hperssn/focusnest/internal/storage"
)

const replyFailed = "Failed to get AI response"

type Exchange struct {
	UserMessage domain.Message  `json:"userMessage"`
	AIMessage   *domain.Message `json:"aiMessage,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// Service stores the user's message before asking for a reply, so the
// message survives a failed completion.
type Service struct {
	repo      storage.Repository
	completer Completer
	logger    *log.Logger
}

func NewService(repo storage.Repository, completer Completer, logger *log.Logger) *Service {
	return &Service{repo: repo, completer: completer, logger: logger}
}

func (s *Service) Send(ctx context.Context, content string) (Exchange, error) {
	msg := domain.Message{Content: content, IsUser: true}
	if err := domain.Validate(msg); err != nil {
		return Exchange{}, err
	}

	user, err := s.repo.CreateMessage(ctx, msg)
	if err != nil {
		return Exchange{}, fmt.Errorf("store user message: %w", err)
	}

	reply, err := s.completer.Complete(ctx, content)
	if err != nil {
		s.logger.Error("chat completion failed", "messageID", user.ID, "err", err)
		reply = FallbackReply(err)
	}

	ai, err := s.repo.CreateMessage(ctx, domain.Message{Content: reply, IsUser: false})
	if err != nil {
		s.logger.Error("failed to store reply", "messageID", user.ID, "err", err)
		return Exchange{UserMessage: user, Error: replyFailed}, nil
	}

	return Exchange{UserMessage: user, AIMessage: &ai}, nil
}

func (s *Service) History(ctx context.Context) ([]domain.Message, error) {
	return s.repo.ListMessages(ctx)
}
