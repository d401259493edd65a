// Package state provides per-user property accessors over a persistent store.
package state

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"multilingual-bot/internal/bot"
)

// LanguagePreference is the user property holding the selected language code.
const LanguagePreference = "language_preference"

// Store persists user properties keyed by channel and user.
type Store interface {
	GetUserProperty(ctx context.Context, channelID, userID, name string) (string, bool, error)
	PutUserProperty(ctx context.Context, channelID, userID, name, value string) error
}

// turnStater is implemented by turn contexts that carry a per-turn state bag.
// Values read or written during the turn are cached there.
type turnStater interface {
	TurnState() map[string]any
}

// PropertyAccessor reads and writes one named property of the turn's user.
type PropertyAccessor struct {
	store Store
	name  string
}

// NewPropertyAccessor creates an accessor for the named user property.
func NewPropertyAccessor(store Store, name string) (*PropertyAccessor, error) {
	if store == nil {
		return nil, errors.New("state: store must not be nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("state: property name must not be empty")
	}
	return &PropertyAccessor{store: store, name: name}, nil
}

// Get returns the stored value, or def when the user has none. The default
// is not persisted.
func (p *PropertyAccessor) Get(ctx context.Context, turn bot.TurnContext, def string) (string, error) {
	if v, ok := p.cached(turn); ok {
		return v, nil
	}
	channelID, userID, err := userKey(turn)
	if err != nil {
		return "", err
	}
	v, found, err := p.store.GetUserProperty(ctx, channelID, userID, p.name)
	if err != nil {
		return "", fmt.Errorf("state: get %s: %w", p.name, err)
	}
	if !found {
		v = def
	}
	p.cache(turn, v)
	return v, nil
}

// Set writes the value through to the store.
func (p *PropertyAccessor) Set(ctx context.Context, turn bot.TurnContext, value string) error {
	channelID, userID, err := userKey(turn)
	if err != nil {
		return err
	}
	if err := p.store.PutUserProperty(ctx, channelID, userID, p.name, value); err != nil {
		return fmt.Errorf("state: set %s: %w", p.name, err)
	}
	p.cache(turn, value)
	return nil
}

func (p *PropertyAccessor) cacheKey() string {
	return "state:user:" + p.name
}

func (p *PropertyAccessor) cached(turn bot.TurnContext) (string, bool) {
	ts, ok := turn.(turnStater)
	if !ok {
		return "", false
	}
	v, ok := ts.TurnState()[p.cacheKey()].(string)
	return v, ok
}

func (p *PropertyAccessor) cache(turn bot.TurnContext, value string) {
	if ts, ok := turn.(turnStater); ok {
		ts.TurnState()[p.cacheKey()] = value
	}
}

func userKey(turn bot.TurnContext) (channelID, userID string, err error) {
	activity := turn.Activity()
	if strings.TrimSpace(activity.From.ID) == "" {
		return "", "", errors.New("state: activity has no user id")
	}
	return activity.ChannelID, activity.From.ID, nil
}
