package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/agent"
	"github.com/papercomputeco/tasktape/pkg/llm"
	"github.com/papercomputeco/tasktape/pkg/tools"
)

// maxMessageLen bounds a single chat message. Longer input is rejected, not
// truncated.
const maxMessageLen = 4096

// ChatRequest is the body of POST /api/:userID/chat.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID int64  `json:"conversation_id,omitempty"`
	HistoryLimit   int    `json:"history_limit,omitempty"`
}

// ChatResponse is the reply to a chat turn.
type ChatResponse struct {
	ConversationID int64           `json:"conversation_id"`
	Response       string          `json:"response"`
	ToolCalls      []tools.Outcome `json:"tool_calls"`
	ErrorKind      string          `json:"error,omitempty"`
}

// handleChat runs one conversational turn: reconstruct context, persist the
// user turn, run the agent, persist the reply.
func (s *Server) handleChat(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "user id required"})
	}

	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "message is required"})
	}
	if len(req.Message) > maxMessageLen {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "message too long"})
	}
	if req.HistoryLimit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "history_limit must be non-negative"})
	}

	ctx := c.Context()

	convCtx, err := s.builder.BuildContext(ctx, uid, req.ConversationID, req.HistoryLimit)
	if err != nil {
		if errors.Is(err, agent.ErrConversationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "conversation not found"})
		}
		s.logger.Error("failed to build conversation context", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load conversation"})
	}

	if _, err := s.store.CreateMessage(ctx, uid, convCtx.ConversationID, llm.RoleUser, req.Message); err != nil {
		s.logger.Error("failed to persist user message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to save message"})
	}

	resp := s.runner.Run(ctx, convCtx, req.Message)

	if !resp.Success() {
		// The apology still goes to the user, with the conversation intact
		// for a retry.
		return c.Status(fiber.StatusInternalServerError).JSON(ChatResponse{
			ConversationID: convCtx.ConversationID,
			Response:       resp.Text,
			ToolCalls:      resp.Outcomes,
			ErrorKind:      resp.ErrKind,
		})
	}

	if _, err := s.store.CreateMessage(ctx, uid, convCtx.ConversationID, llm.RoleAssistant, resp.Text); err != nil {
		// The turn already happened; losing the stored copy is not worth a 500.
		s.logger.Error("failed to persist assistant message", zap.Error(err))
	}

	return c.JSON(ChatResponse{
		ConversationID: convCtx.ConversationID,
		Response:       resp.Text,
		ToolCalls:      resp.Outcomes,
	})
}
