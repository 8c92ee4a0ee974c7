package chat

// Message roles the harness sends.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Payload mirrors the chat completions request body the harness sends.
type Payload struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// BuildPayload assembles the request body for one send. The system message is
// included only when system is non-empty; the user message is always last.
func BuildPayload(model, system, prompt string) Payload {
	messages := make([]Message, 0, 2)
	if system != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: system})
	}
	messages = append(messages, Message{Role: RoleUser, Content: prompt})
	return Payload{Model: model, Messages: messages}
}
