// Package translation translates message text between the user's preferred
// language and English so the bot only ever handles English.
package translation

import (
	"context"
	"errors"
	"fmt"

	"github.com/abadojack/whatlanggo"

	"multilingual-bot/internal/bot"
	"multilingual-bot/internal/domain"
	"multilingual-bot/internal/usecase"
)

// Translator translates text from one language code to another.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// Middleware translates inbound text to English and outbound replies to the
// user's preferred language whenever that preference is not English.
type Middleware struct {
	translator Translator
	preference bot.PreferenceAccessor
}

func NewMiddleware(translator Translator, preference bot.PreferenceAccessor) (*Middleware, error) {
	if translator == nil {
		return nil, errors.New("translation: translator must not be nil")
	}
	if preference == nil {
		return nil, errors.New("translation: preference accessor must not be nil")
	}
	return &Middleware{translator: translator, preference: preference}, nil
}

func (m *Middleware) OnTurn(ctx context.Context, turn *usecase.Turn, next func(context.Context) error) error {
	activity := turn.Activity()
	if activity.IsMessage() && activity.Text != "" {
		lang, err := m.preference.Get(ctx, turn, domain.DefaultLanguage)
		if err != nil {
			return err
		}
		if shouldTranslateInbound(activity.Text, lang) {
			translated, err := m.translator.Translate(ctx, activity.Text, lang, domain.LanguageEnglish)
			if err != nil {
				return fmt.Errorf("translation: inbound %s->%s: %w", lang, domain.LanguageEnglish, err)
			}
			activity.Text = translated
			turn.SetActivity(activity)
		}
	}

	turn.OnSendActivity(m.translateReply)
	return next(ctx)
}

// translateReply reads the preference at send time, so a reply confirming a
// language change is already shown in the newly selected language.
func (m *Middleware) translateReply(ctx context.Context, turn *usecase.Turn, reply domain.Activity) (domain.Activity, error) {
	if reply.Text == "" {
		return reply, nil
	}
	lang, err := m.preference.Get(ctx, turn, domain.DefaultLanguage)
	if err != nil {
		return reply, err
	}
	if lang == domain.LanguageEnglish {
		return reply, nil
	}
	translated, err := m.translator.Translate(ctx, reply.Text, domain.LanguageEnglish, lang)
	if err != nil {
		return reply, fmt.Errorf("translation: outbound %s->%s: %w", domain.LanguageEnglish, lang, err)
	}
	reply.Text = translated
	return reply, nil
}

// Language-change utterances stay untouched so the bot can recognise them.
func shouldTranslateInbound(text, lang string) bool {
	if lang == domain.LanguageEnglish || domain.IsLanguageChangeRequest(text) {
		return false
	}
	info := whatlanggo.Detect(text)
	return !(info.IsReliable() && info.Lang.Iso6391() == domain.LanguageEnglish)
}
