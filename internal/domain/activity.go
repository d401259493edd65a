package domain

import "time"

// ActivityType names the kind of event carried by an Activity.
type ActivityType string

const (
	ActivityTypeMessage            ActivityType = "message"
	ActivityTypeConversationUpdate ActivityType = "conversationUpdate"
	ActivityTypeTyping             ActivityType = "typing"
	ActivityTypeEvent              ActivityType = "event"
)

// ActionTypeIMBack posts the action value back to the bot as if the user typed it.
const ActionTypeIMBack = "imBack"

// ChannelAccount identifies a user or bot on a channel.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ConversationAccount identifies the conversation an activity belongs to.
type ConversationAccount struct {
	ID string `json:"id" validate:"required"`
}

// CardAction is a single selectable option presented to the user.
type CardAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// SuggestedActions are options shown with a message that disappear once one is chosen.
type SuggestedActions struct {
	Actions []CardAction `json:"actions"`
}

// Activity is the inbound or outbound unit of a conversation turn.
type Activity struct {
	Type             ActivityType        `json:"type" validate:"required"`
	ID               string              `json:"id,omitempty"`
	Timestamp        *time.Time          `json:"timestamp,omitempty"`
	ChannelID        string              `json:"channelId,omitempty"`
	From             ChannelAccount      `json:"from"`
	Recipient        ChannelAccount      `json:"recipient"`
	Conversation     ConversationAccount `json:"conversation"`
	Text             string              `json:"text,omitempty"`
	Locale           string              `json:"locale,omitempty"`
	ReplyToID        string              `json:"replyToId,omitempty"`
	SuggestedActions *SuggestedActions   `json:"suggestedActions,omitempty"`
}

// IsMessage reports whether the activity carries a user or bot message.
func (a Activity) IsMessage() bool {
	return a.Type == ActivityTypeMessage
}
