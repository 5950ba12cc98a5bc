package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/store"
)

// handleListConversations returns the user's conversations, oldest first.
func (s *Server) handleListConversations(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "user id required"})
	}

	conversations, err := s.store.ListConversations(c.Context(), uid)
	if err != nil {
		s.logger.Error("failed to list conversations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list conversations"})
	}

	if conversations == nil {
		conversations = []*store.Conversation{}
	}

	return c.JSON(map[string]any{
		"conversations": conversations,
		"count":         len(conversations),
	})
}

// handleListMessages returns the full message history of one conversation,
// oldest first. Foreign conversations report not found.
func (s *Server) handleListMessages(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "user id required"})
	}

	conversationID, err := strconv.ParseInt(c.Params("conversationID"), 10, 64)
	if err != nil || conversationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid conversation id"})
	}

	ctx := c.Context()

	if _, err := s.store.GetConversation(ctx, uid, conversationID); err != nil {
		if store.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "conversation not found"})
		}
		s.logger.Error("failed to load conversation", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load conversation"})
	}

	messages, err := s.store.ListMessages(ctx, uid, conversationID)
	if err != nil {
		s.logger.Error("failed to list messages", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list messages"})
	}

	if messages == nil {
		messages = []*store.Message{}
	}

	return c.JSON(map[string]any{
		"conversation_id": conversationID,
		"messages":        messages,
		"count":           len(messages),
	})
}
