package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/store"
)

// deleteTaskTool removes a task, addressed by id or by name.
type deleteTaskTool struct {
	store  *store.Store
	logger *zap.Logger
}

func (t *deleteTaskTool) Kind() Kind { return KindDeleteTask }

func (t *deleteTaskTool) Execute(ctx context.Context, params map[string]any) Result {
	userID, ok := userIDParam(params)
	if !ok {
		return errResult(ErrInvalidUserID, "User ID is required and must be a string")
	}

	_, hasID := params["task_id"]
	_, hasName := params["task_name"]
	if !hasID && !hasName {
		return errResult(ErrMissingParams, "Either task_id or task_name must be provided")
	}

	var task *store.Task
	var err error

	if hasID {
		taskID, ok := int64Param(params, "task_id")
		if !ok || taskID <= 0 {
			return errResult(ErrInvalidTaskID, "Task ID must be a positive integer")
		}
		task, err = t.store.GetTask(ctx, userID, taskID)
	} else {
		taskName, ok := stringParam(params, "task_name")
		if !ok || taskName == "" {
			return errResult(ErrInvalidTaskName, "Task name must be a string")
		}
		// Exact title match first, then case-insensitive; never fuzzy.
		task, err = t.store.GetTaskByTitle(ctx, userID, taskName)
	}

	if err != nil {
		if store.IsNotFound(err) {
			return errResult(ErrTaskNotFound, "Task not found")
		}
		t.logger.Error("delete_task lookup failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return errResult(ErrTaskDeletionFailed, "Failed to delete task")
	}

	if err := t.store.DeleteTask(ctx, userID, task.ID); err != nil {
		if store.IsNotFound(err) {
			return errResult(ErrTaskNotFound, "Task not found")
		}
		t.logger.Error("delete_task failed",
			zap.String("user_id", userID),
			zap.Int64("task_id", task.ID),
			zap.Error(err),
		)
		return errResult(ErrTaskDeletionFailed, "Failed to delete task")
	}

	t.logger.Info("task deleted",
		zap.String("user_id", userID),
		zap.Int64("task_id", task.ID),
	)

	return okResult(map[string]any{
		"task_id": task.ID,
		"status":  "deleted",
		"title":   task.Title,
	})
}
