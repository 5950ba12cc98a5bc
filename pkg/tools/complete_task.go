package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/store"
)

// completeTaskTool marks a task as completed.
type completeTaskTool struct {
	store  *store.Store
	logger *zap.Logger
}

func (t *completeTaskTool) Kind() Kind { return KindCompleteTask }

func (t *completeTaskTool) Execute(ctx context.Context, params map[string]any) Result {
	userID, ok := userIDParam(params)
	if !ok {
		return errResult(ErrInvalidUserID, "User ID is required and must be a string")
	}

	taskID, ok := int64Param(params, "task_id")
	if !ok || taskID <= 0 {
		return errResult(ErrInvalidTaskID, "Task ID must be a positive integer")
	}

	completed := true
	task, err := t.store.UpdateTask(ctx, userID, taskID, store.TaskUpdate{Completed: &completed})
	if err != nil {
		if store.IsNotFound(err) {
			return errResult(ErrTaskNotFound, "Task not found")
		}
		t.logger.Error("complete_task failed",
			zap.String("user_id", userID),
			zap.Int64("task_id", taskID),
			zap.Error(err),
		)
		return errResult(ErrTaskUpdateFailed, "Failed to complete task")
	}

	t.logger.Info("task completed",
		zap.String("user_id", userID),
		zap.Int64("task_id", task.ID),
	)

	return okResult(map[string]any{
		"task_id": task.ID,
		"status":  "completed",
		"title":   task.Title,
	})
}
