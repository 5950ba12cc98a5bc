package agent

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/tools"
)

// Markers the model is instructed to wrap its tool-call JSON in.
const (
	toolCallsOpen  = "<TOOL_CALLS>"
	toolCallsClose = "</TOOL_CALLS>"
)

// ParseResult is what falls out of a raw model response: the extracted tool
// invocations (possibly none) and the natural-language prose preceding them.
type ParseResult struct {
	Tools []tools.Invocation
	Prose string
}

// Parser extracts structured tool invocations from free-text model output.
// This boundary is best-effort by contract: the model formatting its answer
// unexpectedly must never crash the turn, so malformed blocks degrade to
// zero tools rather than surfacing an error.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a parser.
func NewParser(logger *zap.Logger) *Parser {
	return &Parser{logger: logger}
}

type toolCallsPayload struct {
	Tools []tools.Invocation `json:"tools"`
}

// Parse splits raw model text into prose and tool invocations.
// Marker matching is case-insensitive and tolerates either casing appearing
// first. Prose is everything strictly before the first opening marker,
// trimmed; with no marker, prose is the whole text and tools are empty.
func (p *Parser) Parse(raw string) ParseResult {
	lowered := strings.ToLower(raw)

	start := strings.Index(lowered, strings.ToLower(toolCallsOpen))
	if start < 0 {
		return ParseResult{Prose: strings.TrimSpace(raw)}
	}

	prose := strings.TrimSpace(raw[:start])

	bodyStart := start + len(toolCallsOpen)
	end := strings.Index(lowered[bodyStart:], strings.ToLower(toolCallsClose))
	if end < 0 {
		p.logger.Warn("tool call block missing closing marker")
		return ParseResult{Prose: prose}
	}

	jsonStr := strings.TrimSpace(raw[bodyStart : bodyStart+end])
	if jsonStr == "" {
		return ParseResult{Prose: prose}
	}

	var payload toolCallsPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		// Silent tool loss is the accepted trade-off here; guessing at the
		// model's intent is not.
		p.logger.Warn("failed to parse tool call block", zap.Error(err))
		return ParseResult{Prose: prose}
	}

	p.logger.Debug("tool calls extracted", zap.Int("count", len(payload.Tools)))

	return ParseResult{Tools: payload.Tools, Prose: prose}
}
