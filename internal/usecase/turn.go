package usecase

import (
	"context"
	"fmt"
	"time"

	"multilingual-bot/internal/domain"
)

// SendHook runs before a reply is recorded and may rewrite it.
type SendHook func(ctx context.Context, turn *Turn, reply domain.Activity) (domain.Activity, error)

// Turn is the context of a single inbound activity and the replies sent to it.
// It satisfies bot.TurnContext.
type Turn struct {
	activity domain.Activity
	replies  []domain.Activity
	hooks    []SendHook
	state    map[string]any
	newID    func() string
	now      func() time.Time
}

func newTurn(activity domain.Activity, newID func() string, now func() time.Time) *Turn {
	return &Turn{
		activity: activity,
		state:    map[string]any{},
		newID:    newID,
		now:      now,
	}
}

// Activity returns the inbound activity as seen by the current pipeline step.
func (t *Turn) Activity() domain.Activity {
	return t.activity
}

// SetActivity replaces the inbound activity for the remaining pipeline steps.
func (t *Turn) SetActivity(activity domain.Activity) {
	t.activity = activity
}

// TurnState is a bag of values scoped to this turn.
func (t *Turn) TurnState() map[string]any {
	return t.state
}

// OnSendActivity registers a hook run, in registration order, on every reply.
func (t *Turn) OnSendActivity(hook SendHook) {
	t.hooks = append(t.hooks, hook)
}

// SendActivity addresses reply to the inbound activity's sender and records it.
func (t *Turn) SendActivity(ctx context.Context, reply domain.Activity) error {
	reply = t.address(reply)
	for _, hook := range t.hooks {
		var err error
		reply, err = hook(ctx, t, reply)
		if err != nil {
			return fmt.Errorf("usecase: send hook: %w", err)
		}
	}
	t.replies = append(t.replies, reply)
	return nil
}

// Replies returns the replies sent so far.
func (t *Turn) Replies() []domain.Activity {
	out := make([]domain.Activity, len(t.replies))
	copy(out, t.replies)
	return out
}

func (t *Turn) address(reply domain.Activity) domain.Activity {
	in := t.activity
	if reply.Type == "" {
		reply.Type = domain.ActivityTypeMessage
	}
	if reply.ID == "" {
		reply.ID = t.newID()
	}
	if reply.Timestamp == nil {
		ts := t.now().UTC()
		reply.Timestamp = &ts
	}
	reply.ChannelID = in.ChannelID
	reply.Conversation = in.Conversation
	reply.From = in.Recipient
	reply.Recipient = in.From
	reply.ReplyToID = in.ID
	if reply.Locale == "" {
		reply.Locale = in.Locale
	}
	return reply
}
