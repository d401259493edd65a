package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"multilingual-bot/internal/bot"
	"multilingual-bot/internal/domain"
)

// Bot is the turn handler run at the end of the middleware chain.
type Bot interface {
	OnTurn(ctx context.Context, turn bot.TurnContext) error
}

// Middleware runs around the bot on every turn. Implementations call next to
// continue the pipeline, or return without calling it to short-circuit.
type Middleware interface {
	OnTurn(ctx context.Context, turn *Turn, next func(context.Context) error) error
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(ctx context.Context, turn *Turn, next func(context.Context) error) error

func (f MiddlewareFunc) OnTurn(ctx context.Context, turn *Turn, next func(context.Context) error) error {
	return f(ctx, turn, next)
}

// TurnOutput is the result of processing one inbound activity.
type TurnOutput struct {
	Replies []domain.Activity
}

// TurnService plays the host role for the bot: it validates the inbound
// activity, runs the middleware pipeline and the bot, and collects replies.
type TurnService struct {
	bot        Bot
	middleware []Middleware
	validate   *validator.Validate
}

func NewTurnService(b Bot, middleware ...Middleware) (*TurnService, error) {
	if b == nil {
		return nil, errors.New("usecase: bot must not be nil")
	}
	for _, m := range middleware {
		if m == nil {
			return nil, errors.New("usecase: middleware must not be nil")
		}
	}
	return &TurnService{
		bot:        b,
		middleware: middleware,
		validate:   validator.New(),
	}, nil
}

func (s *TurnService) Process(ctx context.Context, activity domain.Activity) (TurnOutput, error) {
	if err := s.validate.Struct(activity); err != nil {
		return TurnOutput{}, newError(ErrorInvalidActivity, "invalid_activity", err)
	}
	if activity.IsMessage() {
		if err := s.validate.Var(activity.From.ID, "required"); err != nil {
			return TurnOutput{}, newError(ErrorInvalidActivity, "missing_user_id", err)
		}
	}
	if activity.ID == "" {
		activity.ID = newUUID()
	}

	turn := newTurn(activity, newUUID, now)
	if err := s.run(ctx, turn, 0); err != nil {
		return TurnOutput{}, classifyTurnError(err)
	}
	return TurnOutput{Replies: turn.Replies()}, nil
}

func (s *TurnService) run(ctx context.Context, turn *Turn, i int) error {
	if i == len(s.middleware) {
		return s.bot.OnTurn(ctx, turn)
	}
	return s.middleware[i].OnTurn(ctx, turn, func(ctx context.Context) error {
		return s.run(ctx, turn, i+1)
	})
}

var newUUID = func() string {
	return uuid.NewString()
}

var now = time.Now
