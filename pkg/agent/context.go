package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/llm"
	"github.com/papercomputeco/tasktape/pkg/store"
)

// Pagination policy for long conversations: with no explicit limit, a
// conversation past maxHistoryTurns is truncated to the most recent
// defaultHistoryWindow turns. Truncation always keeps a suffix; the newest
// turns are never dropped.
const (
	maxHistoryTurns      = 100
	defaultHistoryWindow = 30
)

// ErrConversationNotFound is returned when the requested conversation does
// not exist for this user. A conversation owned by someone else reports the
// same error; it is never silently created in its place.
var ErrConversationNotFound = errors.New("conversation not found")

// Context is the reconstructed state for one conversation turn. It is
// rebuilt from storage on every request; nothing is cached across runs.
type Context struct {
	ConversationID int64
	UserID         string
	History        []llm.Message // chronological, oldest first
	TurnCount      int           // total stored turns before truncation
}

// ContextBuilder reconstructs conversation context from durable storage for
// stateless agent execution.
type ContextBuilder struct {
	store  *store.Store
	logger *zap.Logger
}

// NewContextBuilder creates a context builder over the given store.
func NewContextBuilder(st *store.Store, logger *zap.Logger) *ContextBuilder {
	return &ContextBuilder{store: st, logger: logger}
}

// BuildContext loads (or, when conversationID is zero, creates) the user's
// conversation and returns its ordered history. messageLimit of zero applies
// the default pagination policy; a positive value keeps the most recent N
// turns.
func (b *ContextBuilder) BuildContext(ctx context.Context, userID string, conversationID int64, messageLimit int) (*Context, error) {
	var conv *store.Conversation
	var err error

	if conversationID != 0 {
		conv, err = b.store.GetConversation(ctx, userID, conversationID)
		if err != nil {
			if store.IsNotFound(err) {
				b.logger.Warn("conversation not found",
					zap.String("user_id", userID),
					zap.Int64("conversation_id", conversationID),
				)
				return nil, ErrConversationNotFound
			}
			return nil, fmt.Errorf("loading conversation: %w", err)
		}
	} else {
		conv, err = b.store.CreateConversation(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("creating conversation: %w", err)
		}
		b.logger.Info("new conversation created",
			zap.String("user_id", userID),
			zap.Int64("conversation_id", conv.ID),
		)
	}

	messages, err := b.store.ListMessages(ctx, userID, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}

	total := len(messages)
	messages = truncateHistory(messages, messageLimit)

	history := make([]llm.Message, 0, len(messages))
	for _, msg := range messages {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	b.logger.Debug("conversation context built",
		zap.String("user_id", userID),
		zap.Int64("conversation_id", conv.ID),
		zap.Int("total_turns", total),
		zap.Int("context_turns", len(history)),
	)

	return &Context{
		ConversationID: conv.ID,
		UserID:         userID,
		History:        history,
		TurnCount:      total,
	}, nil
}

// truncateHistory keeps the most recent window of turns, preserving
// chronological order within it.
func truncateHistory(messages []*store.Message, limit int) []*store.Message {
	switch {
	case limit > 0:
		if len(messages) > limit {
			return messages[len(messages)-limit:]
		}
	case limit == 0:
		if len(messages) > maxHistoryTurns {
			return messages[len(messages)-defaultHistoryWindow:]
		}
	}
	return messages
}
