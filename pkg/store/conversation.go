package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Conversation groups an ordered sequence of messages for one user.
type Conversation struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateConversation inserts a new conversation owned by the user.
func (s *Store) CreateConversation(ctx context.Context, userID string) (*Conversation, error) {
	now := time.Now().UTC()

	query := s.rebind(`INSERT INTO conversations (user_id, created_at) VALUES (?, ?) RETURNING id`)

	var id int64
	if err := s.db.QueryRowContext(ctx, query, userID, now).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to insert conversation: %w", err)
	}

	return &Conversation{ID: id, UserID: userID, CreatedAt: now}, nil
}

// GetConversation retrieves a conversation by id, scoped to the user.
func (s *Store) GetConversation(ctx context.Context, userID string, conversationID int64) (*Conversation, error) {
	query := s.rebind(`SELECT id, user_id, created_at FROM conversations WHERE id = ? AND user_id = ?`)

	var conv Conversation
	err := s.db.QueryRowContext(ctx, query, conversationID, userID).Scan(&conv.ID, &conv.UserID, &conv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound{Kind: "conversation", ID: conversationID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan conversation: %w", err)
	}

	return &conv, nil
}

// ListConversations returns the user's conversations, oldest first.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]*Conversation, error) {
	query := s.rebind(`SELECT id, user_id, created_at FROM conversations
		WHERE user_id = ? ORDER BY created_at ASC, id ASC`)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*Conversation
	for rows.Next() {
		var conv Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, &conv)
	}

	return conversations, rows.Err()
}
