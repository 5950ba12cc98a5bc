package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/store"
)

// listTasksTool retrieves the user's tasks, optionally filtered by status.
type listTasksTool struct {
	store  *store.Store
	logger *zap.Logger
}

func (t *listTasksTool) Kind() Kind { return KindListTasks }

func (t *listTasksTool) Execute(ctx context.Context, params map[string]any) Result {
	userID, ok := userIDParam(params)
	if !ok {
		return errResult(ErrInvalidUserID, "User ID is required and must be a string")
	}

	status := store.StatusAll
	if raw, present := params["status"]; present && raw != nil {
		s, ok := stringParam(params, "status")
		if !ok {
			return errResult(ErrInvalidStatus, "Status must be one of: all, pending, completed")
		}
		status = s
	}

	switch status {
	case store.StatusAll, store.StatusPending, store.StatusCompleted:
	default:
		return errResult(ErrInvalidStatus, "Status must be one of: all, pending, completed")
	}

	tasks, err := t.store.ListTasks(ctx, userID, status)
	if err != nil {
		t.logger.Error("list_tasks failed",
			zap.String("user_id", userID),
			zap.String("status", status),
			zap.Error(err),
		)
		return errResult(ErrTaskRetrievalFailed, "Failed to retrieve tasks")
	}

	taskList := make([]map[string]any, 0, len(tasks))
	for _, task := range tasks {
		entry := map[string]any{
			"id":         task.ID,
			"title":      task.Title,
			"completed":  task.Completed,
			"created_at": task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if task.Description != nil {
			entry["description"] = *task.Description
		}
		taskList = append(taskList, entry)
	}

	return okResult(map[string]any{
		"tasks":  taskList,
		"count":  len(taskList),
		"status": status,
	})
}
