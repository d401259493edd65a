// Package bot holds the multilingual bot: a single-turn handler that lets the
// user pick the language the translation middleware should use.
package bot

import (
	"context"
	"errors"
	"fmt"

	"multilingual-bot/internal/domain"
)

// TurnContext is the view of a conversation turn the bot works against.
type TurnContext interface {
	Activity() domain.Activity
	SendActivity(ctx context.Context, activity domain.Activity) error
}

// PreferenceAccessor reads and writes the user's language preference.
type PreferenceAccessor interface {
	Get(ctx context.Context, turn TurnContext, def string) (string, error)
	Set(ctx context.Context, turn TurnContext, value string) error
}

const promptText = "Choose your language:"

// MultilingualBot captures the user's preferred language and stores it so the
// translation middleware can translate in both directions.
//
// There are no dialogs: each turn is a single request and response.
type MultilingualBot struct {
	languagePreference PreferenceAccessor
}

// New creates a MultilingualBot backed by the given preference accessor.
func New(languagePreference PreferenceAccessor) (*MultilingualBot, error) {
	if languagePreference == nil {
		return nil, errors.New("bot: language preference accessor must not be nil")
	}
	return &MultilingualBot{languagePreference: languagePreference}, nil
}

// OnTurn handles one inbound activity. Non-message activities are ignored.
func (b *MultilingualBot) OnTurn(ctx context.Context, turn TurnContext) error {
	activity := turn.Activity()
	if !activity.IsMessage() {
		return nil
	}
	text := activity.Text

	if _, err := b.languagePreference.Get(ctx, turn, domain.DefaultLanguage); err != nil {
		return err
	}

	if domain.IsLanguageChangeRequest(text) {
		if err := b.languagePreference.Set(ctx, turn, text); err != nil {
			return err
		}
		return turn.SendActivity(ctx, Text(fmt.Sprintf("Your current language code is: %s", text)))
	}

	return turn.SendActivity(ctx, SuggestedActions(
		[]string{domain.LanguageSpanish, domain.LanguageEnglish},
		promptText,
	))
}
