package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	providerGroq   = "groq"
	providerOpenAI = "openai"
	providerOllama = "ollama"
)

// Client issues chat completion requests against a single provider.
// Implementations must honor ctx cancellation; the agent runner owns the
// per-run deadline, so clients do not impose their own.
type Client interface {
	Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// ClientConfig holds configuration for creating a completion client.
type ClientConfig struct {
	Provider string // "groq", "openai", or "ollama"
	Model    string // e.g. "openai/gpt-oss-120b", "gpt-4o-mini", "llama3.2"
	APIKey   string // explicit API key (highest priority)
	BaseURL  string // override base URL
}

// NewClient creates a Client based on the provided configuration.
// Resolution order for the API key:
//  1. Explicit APIKey in config
//  2. Environment variables (GROQ_API_KEY / OPENAI_API_KEY)
//  3. Fall back to Ollama at localhost:11434
func NewClient(cfg ClientConfig) (Client, error) {
	provider := strings.ToLower(cfg.Provider)

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = resolveAPIKeyFromEnv(provider)
	}
	if apiKey == "" && provider != providerOllama {
		provider = providerOllama
	}

	switch provider {
	case providerGroq, "":
		model := cfg.Model
		if model == "" {
			model = "openai/gpt-oss-120b"
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://api.groq.com/openai"
		}
		return &openAIClient{apiKey: apiKey, model: model, baseURL: baseURL}, nil

	case providerOpenAI:
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://api.openai.com"
		}
		return &openAIClient{apiKey: apiKey, model: model, baseURL: baseURL}, nil

	case providerOllama:
		model := cfg.Model
		if model == "" {
			model = "llama3.2"
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return &ollamaClient{model: model, baseURL: baseURL}, nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

func resolveAPIKeyFromEnv(provider string) string {
	switch provider {
	case providerOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case providerGroq, "":
		return os.Getenv("GROQ_API_KEY")
	default:
		// Try both
		if key := os.Getenv("GROQ_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("OPENAI_API_KEY")
	}
}

// --- OpenAI-compatible caller (Groq speaks the same wire format) ---

type openAIClient struct {
	apiKey  string
	model   string
	baseURL string
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
	TopP        *float64        `json:"top_p,omitempty"`
	Stream      bool            `json:"stream"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Model   string `json:"model"`
	Created int64  `json:"created"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *openAIClient) Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]openAIMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openAIMessage{Role: RoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, openAIMessage{Role: m.Role, Content: m.Content})
	}

	body := openAIRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider API error (status %d): %s", resp.StatusCode, string(payload))
	}

	var result openAIResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("provider error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return nil, errors.New("provider returned no choices")
	}

	choice := result.Choices[0]
	out := &ChatResponse{
		Model:      result.Model,
		CreatedAt:  time.Unix(result.Created, 0),
		Message:    Message{Role: choice.Message.Role, Content: choice.Message.Content},
		StopReason: choice.FinishReason,
	}
	if result.Usage != nil {
		out.Usage = &Usage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		}
	}

	return out, nil
}

// --- Ollama caller ---

type ollamaClient struct {
	model   string
	baseURL string
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason"`
}

func (c *ollamaClient) Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	messages := make([]openAIMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openAIMessage{Role: RoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, openAIMessage{Role: m.Role, Content: m.Content})
	}

	body := ollamaChatRequest{
		Model:    model,
		Messages: messages,
	}
	if req.Temperature != nil || req.TopP != nil || req.MaxTokens != nil {
		body.Options = map[string]any{}
		if req.Temperature != nil {
			body.Options["temperature"] = *req.Temperature
		}
		if req.TopP != nil {
			body.Options["top_p"] = *req.TopP
		}
		if req.MaxTokens != nil {
			body.Options["num_predict"] = *req.MaxTokens
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(payload))
	}

	var result ollamaChatResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &ChatResponse{
		Model:      result.Model,
		CreatedAt:  time.Now(),
		Message:    Message{Role: result.Message.Role, Content: result.Message.Content},
		StopReason: result.DoneReason,
	}, nil
}
