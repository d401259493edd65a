package domain

// TranscriptEntry is a single persisted message turn: what the user sent and
// what the bot replied.
type TranscriptEntry struct {
	PK             string
	SK             string
	ConversationID string
	UserID         string
	Text           string
	Reply          string
	Status         string
	TTL            int64
}

// ConversationMeta stores aggregate conversation state.
type ConversationMeta struct {
	PK             string
	SK             string
	ConversationID string
	LastActivity   string
	Turns          int
	TTL            int64
}
