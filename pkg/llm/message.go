// Package llm provides provider-agnostic chat completion types and clients.
package llm

// Message roles understood by every supported provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single text message in a conversation.
// The tool-calling channel in tasktape is text-only: tool invocations travel
// inside the assistant's text, not as structured content blocks.
type Message struct {
	Role    string `json:"role"`    // "system", "user", "assistant"
	Content string `json:"content"` // plain text
}

// NewTextMessage creates a message with the given role and content.
func NewTextMessage(role, text string) Message {
	return Message{Role: role, Content: text}
}
