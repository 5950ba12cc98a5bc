package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/llm"
	"github.com/papercomputeco/tasktape/pkg/tools"
)

// Error kinds surfaced by a run. All are terminal for the turn; retry, if
// any, is the caller's decision.
const (
	ErrKindInitFailed = "agent_initialization_failed"
	ErrKindTimeout    = "timeout"
	ErrKindUnexpected = "unexpected_error"
)

// User-facing copy for terminal failures. Internals stay in the logs.
const (
	apologyInit       = "I'm having trouble starting. Please try again."
	apologyTimeout    = "I'm taking too long to think. Please try again."
	apologyUnexpected = "An unexpected error occurred. Please try again."
	emptyResponse     = "I couldn't generate a response."
)

// extractionTemperature is used for the primary completion; structured
// extraction wants less creative output than prose.
const extractionTemperature = 0.3

// RunnerConfig holds the generation parameters and the per-run deadline.
type RunnerConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
	Timeout     time.Duration
}

// Response is the terminal value of one orchestration run.
type Response struct {
	Text     string
	Outcomes []tools.Outcome
	ErrKind  string
}

// Success reports whether the run completed without a terminal error.
func (r *Response) Success() bool { return r.ErrKind == "" }

// Runner drives a single conversational turn end to end: compose the prompt,
// invoke the model, parse tool calls out of its text, dispatch them
// sequentially, and optionally ask the model to synthesize the results into
// final prose. Runners hold no per-run state; one Runner serves concurrent
// requests, each run getting a fresh IDMapper.
type Runner struct {
	client   llm.Client
	registry *tools.Registry
	parser   *Parser
	cfg      RunnerConfig
	logger   *zap.Logger
}

// NewRunner creates a runner over the given completion client and tool registry.
func NewRunner(client llm.Client, registry *tools.Registry, cfg RunnerConfig, logger *zap.Logger) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Runner{
		client:   client,
		registry: registry,
		parser:   NewParser(logger),
		cfg:      cfg,
		logger:   logger,
	}
}

// Run executes one turn for the given conversation context and new user
// message. It always returns a well-formed Response; infrastructure faults
// become apologetic terminal responses, never errors.
func (r *Runner) Run(ctx context.Context, convCtx *Context, userMessage string) (resp *Response) {
	runID := uuid.NewString()
	logger := r.logger.With(
		zap.String("run_id", runID),
		zap.String("user_id", convCtx.UserID),
		zap.Int64("conversation_id", convCtx.ConversationID),
	)

	// Anything unexpected below becomes a generic apologetic response.
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("agent run panicked", zap.Any("panic", rec))
			resp = &Response{Text: apologyUnexpected, ErrKind: ErrKindUnexpected}
		}
	}()

	if r.client == nil {
		logger.Error("agent run failed: no completion client configured")
		return &Response{Text: apologyInit, ErrKind: ErrKindInitFailed}
	}

	// One deadline covers the primary completion, every tool dispatch, and
	// the synthesis pass. Tool side effects committed before expiry stay
	// committed; there is no rollback.
	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	// Each run gets its own mapper so provider IDs never leak across requests.
	idMapper := NewIDMapper()

	messages := append(append([]llm.Message{}, convCtx.History...), llm.NewTextMessage(llm.RoleUser, userMessage))

	logger.Info("agent run starting", zap.Int("message_count", len(messages)))

	firstPass, err := r.complete(runCtx, messages, ExtractionPrompt(), extractionTemperature)
	if err != nil {
		if isTimeout(runCtx, err) {
			logger.Error("agent run timed out", zap.Duration("timeout", r.cfg.Timeout))
			return &Response{Text: apologyTimeout, ErrKind: ErrKindTimeout}
		}
		logger.Error("primary completion failed", zap.Error(err))
		return &Response{Text: apologyUnexpected, ErrKind: ErrKindUnexpected}
	}

	parsed := r.parser.Parse(firstPass)

	outcomes := r.dispatchAll(runCtx, convCtx.UserID, parsed.Tools, idMapper, logger)

	if runCtx.Err() != nil {
		logger.Error("agent run timed out during tool dispatch",
			zap.Int("outcomes", len(outcomes)),
		)
		return &Response{Text: apologyTimeout, Outcomes: outcomes, ErrKind: ErrKindTimeout}
	}

	responseText := parsed.Prose

	// Synthesis pass: best effort. A failure here falls back to the
	// first-pass text rather than failing the whole turn.
	if len(outcomes) > 0 {
		if synthesized, err := r.synthesize(runCtx, messages, parsed.Prose, outcomes); err != nil {
			if isTimeout(runCtx, err) {
				logger.Error("agent run timed out during synthesis")
				return &Response{Text: apologyTimeout, Outcomes: outcomes, ErrKind: ErrKindTimeout}
			}
			logger.Warn("synthesis pass failed, keeping first-pass text", zap.Error(err))
		} else if synthesized != "" {
			responseText = synthesized
		}
	}

	if responseText == "" {
		responseText = emptyResponse
	}

	logger.Info("agent run completed",
		zap.Int("tool_calls", len(outcomes)),
		zap.Int("response_length", len(responseText)),
	)

	return &Response{Text: responseText, Outcomes: outcomes}
}

// dispatchAll executes parsed invocations sequentially, in the order the
// model emitted them: later calls may depend on earlier ones, and sequential
// execution keeps the audit trail deterministic. One tool's failure never
// aborts the rest.
func (r *Runner) dispatchAll(ctx context.Context, userID string, invocations []tools.Invocation, idMapper *IDMapper, logger *zap.Logger) []tools.Outcome {
	outcomes := make([]tools.Outcome, 0, len(invocations))

	for _, inv := range invocations {
		if ctx.Err() != nil {
			break
		}

		if inv.Name == "" {
			logger.Warn("tool invocation missing name")
			continue
		}

		params := inv.Params
		if params == nil {
			params = make(map[string]any)
		}
		// Never trust a model-supplied user id.
		params["user_id"] = userID

		// Provider-issued item identifiers get remapped to stable synthetic
		// ints before they reach a tool or the audit trail.
		if providerID, ok := params["provider_item_id"].(string); ok && providerID != "" {
			provider, _ := params["provider"].(string)
			params["provider_item_id"] = idMapper.MapProviderID(providerID, provider)
		}

		outcome := r.registry.Dispatch(ctx, inv.Name, params)
		outcomes = append(outcomes, outcome)

		logger.Info("tool dispatched",
			zap.String("tool", inv.Name),
			zap.Bool("success", outcome.Success),
		)
	}

	return outcomes
}

// complete issues a single chat completion and returns the assistant text.
func (r *Runner) complete(ctx context.Context, messages []llm.Message, system string, temperature float64) (string, error) {
	maxTokens := r.cfg.MaxTokens
	topP := r.cfg.TopP

	req := &llm.ChatRequest{
		Model:       r.cfg.Model,
		Messages:    messages,
		System:      system,
		Temperature: &temperature,
	}
	if maxTokens > 0 {
		req.MaxTokens = &maxTokens
	}
	if topP > 0 {
		req.TopP = &topP
	}

	resp, err := r.client.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	return resp.Message.Content, nil
}

// synthesize asks the model to turn the raw tool outcomes into a final
// user-facing reply.
func (r *Runner) synthesize(ctx context.Context, messages []llm.Message, firstPassText string, outcomes []tools.Outcome) (string, error) {
	dump, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling tool outcomes: %w", err)
	}

	followUp := append(append([]llm.Message{}, messages...),
		llm.NewTextMessage(llm.RoleAssistant, firstPassText),
		llm.NewTextMessage(llm.RoleUser, "Tool execution results:\n"+string(dump)),
	)

	return r.complete(ctx, followUp, SystemPrompt(), r.cfg.Temperature)
}

// isTimeout reports whether the failure was the per-run deadline expiring.
func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}
