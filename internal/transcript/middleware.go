// Package transcript records completed message turns.
package transcript

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"multilingual-bot/internal/domain"
	"multilingual-bot/internal/usecase"
)

// Store persists transcript turns.
type Store interface {
	GetConversationTurnCount(ctx context.Context, conversationID string) (int, error)
	SaveTranscriptTurn(ctx context.Context, conversationID, userID, text, reply string, turns int) error
}

// Middleware writes the user's text and the bot's replies after the rest of
// the pipeline succeeds. A failed write is logged and never fails the turn.
type Middleware struct {
	store  Store
	logger *slog.Logger
}

func NewMiddleware(store Store, logger *slog.Logger) (*Middleware, error) {
	if store == nil {
		return nil, errors.New("transcript: store must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{store: store, logger: logger}, nil
}

func (m *Middleware) OnTurn(ctx context.Context, turn *usecase.Turn, next func(context.Context) error) error {
	// Capture before next: later middleware may rewrite the text.
	inbound := turn.Activity()
	if err := next(ctx); err != nil {
		return err
	}
	if !inbound.IsMessage() {
		return nil
	}

	convID := inbound.Conversation.ID
	log := m.logger.With("conversationId", convID, "activityId", inbound.ID)

	turns, err := m.store.GetConversationTurnCount(ctx, convID)
	if err != nil {
		log.Warn("transcript turn count failed", "err", err)
		return nil
	}
	if err := m.store.SaveTranscriptTurn(ctx, convID, inbound.From.ID, inbound.Text, replyText(turn.Replies()), turns+1); err != nil {
		log.Warn("transcript write failed", "err", err)
	}
	return nil
}

func replyText(replies []domain.Activity) string {
	return strings.Join(lo.FilterMap(replies, func(r domain.Activity, _ int) (string, bool) {
		return r.Text, r.Text != ""
	}), "\n")
}
