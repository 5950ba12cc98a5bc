package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/store"
)

// maxTaskFieldLen bounds task titles and descriptions at the REST surface,
// matching the agent tool layer.
const maxTaskFieldLen = 1000

// CreateTaskRequest is the body of POST /api/:userID/tasks.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateTaskRequest is the body of PATCH /api/:userID/tasks/:taskID.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// handleListTasks returns the user's tasks, optionally filtered by
// ?status=all|pending|completed.
func (s *Server) handleListTasks(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "user id required"})
	}

	status := c.Query("status", store.StatusAll)
	switch status {
	case store.StatusAll, store.StatusPending, store.StatusCompleted:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid status filter"})
	}

	tasks, err := s.store.ListTasks(c.Context(), uid, status)
	if err != nil {
		s.logger.Error("failed to list tasks", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list tasks"})
	}

	if tasks == nil {
		tasks = []*store.Task{}
	}

	return c.JSON(map[string]any{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// handleCreateTask creates a task directly, bypassing the agent.
func (s *Server) handleCreateTask(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "user id required"})
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "title is required"})
	}
	if len(req.Title) > maxTaskFieldLen {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "title too long"})
	}
	if req.Description != nil && len(*req.Description) > maxTaskFieldLen {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "description too long"})
	}

	task, err := s.store.CreateTask(c.Context(), uid, req.Title, req.Description)
	if err != nil {
		s.logger.Error("failed to create task", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to create task"})
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

// handleGetTask returns a single task.
func (s *Server) handleGetTask(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "user id required"})
	}

	taskID, err := strconv.ParseInt(c.Params("taskID"), 10, 64)
	if err != nil || taskID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid task id"})
	}

	task, err := s.store.GetTask(c.Context(), uid, taskID)
	if err != nil {
		if store.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "task not found"})
		}
		s.logger.Error("failed to load task", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load task"})
	}

	return c.JSON(task)
}

// handleUpdateTask applies a partial update to one of the user's tasks.
func (s *Server) handleUpdateTask(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "user id required"})
	}

	taskID, err := strconv.ParseInt(c.Params("taskID"), 10, 64)
	if err != nil || taskID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid task id"})
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if req.Title == nil && req.Description == nil && req.Completed == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "no updates provided"})
	}
	if req.Title != nil && (*req.Title == "" || len(*req.Title) > maxTaskFieldLen) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid title"})
	}
	if req.Description != nil && len(*req.Description) > maxTaskFieldLen {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "description too long"})
	}

	task, err := s.store.UpdateTask(c.Context(), uid, taskID, store.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		if store.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "task not found"})
		}
		s.logger.Error("failed to update task", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to update task"})
	}

	return c.JSON(task)
}

// handleDeleteTask removes one of the user's tasks.
func (s *Server) handleDeleteTask(c *fiber.Ctx) error {
	uid, ok := userID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "user id required"})
	}

	taskID, err := strconv.ParseInt(c.Params("taskID"), 10, 64)
	if err != nil || taskID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid task id"})
	}

	if err := s.store.DeleteTask(c.Context(), uid, taskID); err != nil {
		if store.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "task not found"})
		}
		s.logger.Error("failed to delete task", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to delete task"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
