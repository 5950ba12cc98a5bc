package llm

// ChatRequest represents a provider-agnostic chat completion request.
// This is the internal representation used by the agent; provider callers
// translate it into their wire format.
type ChatRequest struct {
	// Model name (e.g. "openai/gpt-oss-120b", "llama3.2")
	Model string `json:"model"`

	// Conversation messages, oldest first
	Messages []Message `json:"messages"`

	// System prompt (kept separate from messages; callers prepend it the
	// way their provider expects)
	System string `json:"system,omitempty"`

	// Generation parameters (unified across providers; nil = provider default)
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
}
