package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/store"
)

// updateTaskTool modifies a task's title or description.
type updateTaskTool struct {
	store  *store.Store
	logger *zap.Logger
}

func (t *updateTaskTool) Kind() Kind { return KindUpdateTask }

func (t *updateTaskTool) Execute(ctx context.Context, params map[string]any) Result {
	userID, ok := userIDParam(params)
	if !ok {
		return errResult(ErrInvalidUserID, "User ID is required and must be a string")
	}

	taskID, ok := int64Param(params, "task_id")
	if !ok || taskID <= 0 {
		return errResult(ErrInvalidTaskID, "Task ID must be a positive integer")
	}

	var update store.TaskUpdate

	if raw, present := params["title"]; present && raw != nil {
		title, ok := stringParam(params, "title")
		if !ok {
			return errResult(ErrInvalidTitle, "Title must be a string")
		}
		if len(title) > maxFieldLen {
			return errResult(ErrTitleTooLong, "Title must be 1000 characters or less")
		}
		update.Title = &title
	}

	if raw, present := params["description"]; present && raw != nil {
		desc, ok := stringParam(params, "description")
		if !ok {
			return errResult(ErrInvalidDescription, "Description must be a string")
		}
		if len(desc) > maxFieldLen {
			return errResult(ErrDescriptionTooLong, "Description must be 1000 characters or less")
		}
		update.Description = &desc
	}

	if update.Title == nil && update.Description == nil {
		return errResult(ErrNoUpdatesProvided, "At least one of title or description must be provided")
	}

	task, err := t.store.UpdateTask(ctx, userID, taskID, update)
	if err != nil {
		if store.IsNotFound(err) {
			return errResult(ErrTaskNotFound, "Task not found")
		}
		t.logger.Error("update_task failed",
			zap.String("user_id", userID),
			zap.Int64("task_id", taskID),
			zap.Error(err),
		)
		return errResult(ErrTaskUpdateFailed, "Failed to update task")
	}

	t.logger.Info("task updated",
		zap.String("user_id", userID),
		zap.Int64("task_id", task.ID),
	)

	return okResult(map[string]any{
		"task_id": task.ID,
		"status":  "updated",
		"title":   task.Title,
	})
}
