package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Task statuses accepted by ListTasks.
const (
	StatusAll       = "all"
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Task is a single todo item owned by a user.
type Task struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskUpdate describes a partial update; nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// CreateTask inserts a new task for the user and returns it.
func (s *Store) CreateTask(ctx context.Context, userID, title string, description *string) (*Task, error) {
	now := time.Now().UTC()

	query := s.rebind(`INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`)

	var id int64
	err := s.db.QueryRowContext(ctx, query, userID, title, description, false, now, now).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	return &Task{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetTask retrieves a task by id, scoped to the user.
func (s *Store) GetTask(ctx context.Context, userID string, taskID int64) (*Task, error) {
	query := s.rebind(`SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks WHERE id = ? AND user_id = ?`)

	return s.scanTask(s.db.QueryRowContext(ctx, query, taskID, userID), taskID)
}

// GetTaskByTitle resolves a task by title, scoped to the user.
// Resolution is deterministic: exact match first, then case-insensitive;
// anything looser returns ErrNotFound.
func (s *Store) GetTaskByTitle(ctx context.Context, userID, title string) (*Task, error) {
	query := s.rebind(`SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks WHERE user_id = ? AND title = ? ORDER BY id LIMIT 1`)

	task, err := s.scanTask(s.db.QueryRowContext(ctx, query, userID, title), 0)
	if err == nil {
		return task, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	query = s.rebind(`SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks WHERE user_id = ? AND LOWER(title) = ? ORDER BY id LIMIT 1`)

	return s.scanTask(s.db.QueryRowContext(ctx, query, userID, strings.ToLower(title)), 0)
}

// ListTasks returns the user's tasks, oldest first, optionally filtered by status.
func (s *Store) ListTasks(ctx context.Context, userID, status string) ([]*Task, error) {
	query := `SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks WHERE user_id = ?`
	args := []any{userID}

	switch status {
	case StatusPending:
		query += ` AND completed = ?`
		args = append(args, false)
	case StatusCompleted:
		query += ` AND completed = ?`
		args = append(args, true)
	case StatusAll, "":
	default:
		return nil, fmt.Errorf("invalid status filter: %q", status)
	}

	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// UpdateTask applies a partial update to a task, scoped to the user.
// Returns ErrNotFound when the task is absent or owned by someone else.
func (s *Store) UpdateTask(ctx context.Context, userID string, taskID int64, update TaskUpdate) (*Task, error) {
	// Ownership check doubles as existence check.
	if _, err := s.GetTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *update.Completed)
	}

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = ? AND user_id = ?`, strings.Join(sets, ", "))
	args = append(args, taskID, userID)

	if _, err := s.db.ExecContext(ctx, s.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(ctx, userID, taskID)
}

// DeleteTask removes a task, scoped to the user.
// Returns ErrNotFound when the task is absent or owned by someone else.
func (s *Store) DeleteTask(ctx context.Context, userID string, taskID int64) error {
	query := s.rebind(`DELETE FROM tasks WHERE id = ? AND user_id = ?`)

	res, err := s.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound{Kind: "task", ID: taskID}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanTask(row rowScanner, taskID int64) (*Task, error) {
	task, err := scanTaskRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound{Kind: "task", ID: taskID}
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func scanTaskRow(row rowScanner) (*Task, error) {
	var task Task
	var description sql.NullString

	err := row.Scan(&task.ID, &task.UserID, &task.Title, &description, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	if description.Valid {
		task.Description = &description.String
	}

	return &task, nil
}
