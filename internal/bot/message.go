package bot

import (
	"github.com/samber/lo"

	"multilingual-bot/internal/domain"
)

// Text builds a plain message activity.
func Text(text string) domain.Activity {
	return domain.Activity{
		Type: domain.ActivityTypeMessage,
		Text: text,
	}
}

// SuggestedActions builds a message that offers each option as an imBack
// action, in the given order.
func SuggestedActions(options []string, text string) domain.Activity {
	msg := Text(text)
	msg.SuggestedActions = &domain.SuggestedActions{
		Actions: lo.Map(options, func(option string, _ int) domain.CardAction {
			return domain.CardAction{
				Type:  domain.ActionTypeIMBack,
				Title: option,
				Value: option,
			}
		}),
	}
	return msg
}
