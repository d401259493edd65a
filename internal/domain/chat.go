package domain

// ChatMessage is the chat-completions message shape used by the OpenAI translator.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
