package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/store"
)

// addTaskTool creates a new task for the user.
type addTaskTool struct {
	store  *store.Store
	logger *zap.Logger
}

func (t *addTaskTool) Kind() Kind { return KindAddTask }

func (t *addTaskTool) Execute(ctx context.Context, params map[string]any) Result {
	userID, ok := userIDParam(params)
	if !ok {
		return errResult(ErrInvalidUserID, "User ID is required and must be a string")
	}

	title, ok := stringParam(params, "title")
	if !ok || title == "" {
		return errResult(ErrInvalidTitle, "Title is required and must be a string")
	}
	if len(title) > maxFieldLen {
		return errResult(ErrTitleTooLong, "Title must be 1000 characters or less")
	}

	var description *string
	if raw, present := params["description"]; present && raw != nil {
		desc, ok := stringParam(params, "description")
		if !ok {
			return errResult(ErrInvalidDescription, "Description must be a string")
		}
		if len(desc) > maxFieldLen {
			return errResult(ErrDescriptionTooLong, "Description must be 1000 characters or less")
		}
		description = &desc
	}

	task, err := t.store.CreateTask(ctx, userID, title, description)
	if err != nil {
		t.logger.Error("add_task failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return errResult(ErrTaskCreationFailed, "Failed to create task")
	}

	t.logger.Info("task created",
		zap.String("user_id", userID),
		zap.Int64("task_id", task.ID),
	)

	return okResult(map[string]any{
		"task_id": task.ID,
		"status":  "created",
		"title":   task.Title,
	})
}
