package store

import (
	"context"
	"fmt"
	"time"
)

// Message is one stored turn (user or assistant) in a conversation.
// Immutable once created.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role"` // "user" or "assistant"
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateMessage appends a message to a conversation.
func (s *Store) CreateMessage(ctx context.Context, userID string, conversationID int64, role, content string) (*Message, error) {
	now := time.Now().UTC()

	query := s.rebind(`INSERT INTO messages (conversation_id, user_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`)

	var id int64
	if err := s.db.QueryRowContext(ctx, query, conversationID, userID, role, content, now).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	return &Message{
		ID:             id,
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}, nil
}

// ListMessages returns a conversation's messages in chronological order
// (oldest first). The user_id filter is defense in depth: the conversation
// is already user-scoped, but a cross-user message must never leak.
func (s *Store) ListMessages(ctx context.Context, userID string, conversationID int64) ([]*Message, error) {
	query := s.rebind(`SELECT id, conversation_id, user_id, role, content, created_at
		FROM messages WHERE conversation_id = ? AND user_id = ?
		ORDER BY created_at ASC, id ASC`)

	rows, err := s.db.QueryContext(ctx, query, conversationID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.UserID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}
