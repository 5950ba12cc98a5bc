// Package tools implements the task-mutation commands the agent can dispatch,
// registered in a closed, compile-time-checked table keyed by Kind.
package tools

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// Kind identifies one of the registered tool commands.
type Kind string

const (
	KindAddTask      Kind = "add_task"
	KindListTasks    Kind = "list_tasks"
	KindCompleteTask Kind = "complete_task"
	KindDeleteTask   Kind = "delete_task"
	KindUpdateTask   Kind = "update_task"
)

// Structured error codes surfaced in tool outcomes. Expected validation
// failures are values, never Go errors; the conversation continues.
const (
	ErrToolNotFound        = "tool_not_found"
	ErrToolExecutionFailed = "tool_execution_failed"
	ErrInvalidUserID       = "invalid_user_id"
	ErrInvalidTitle        = "invalid_title"
	ErrTitleTooLong        = "title_too_long"
	ErrInvalidDescription  = "invalid_description"
	ErrDescriptionTooLong  = "description_too_long"
	ErrInvalidTaskID       = "invalid_task_id"
	ErrInvalidTaskName     = "invalid_task_name"
	ErrMissingParams       = "missing_params"
	ErrNoUpdatesProvided   = "no_updates_provided"
	ErrInvalidStatus       = "invalid_status"
	ErrTaskNotFound        = "task_not_found"
	ErrTaskCreationFailed  = "task_creation_failed"
	ErrTaskUpdateFailed    = "task_update_failed"
	ErrTaskDeletionFailed  = "task_deletion_failed"
	ErrTaskRetrievalFailed = "task_retrieval_failed"
)

// maxFieldLen caps task title and description sizes.
const maxFieldLen = 1000

// Invocation is a parsed, not-yet-executed command extracted from model output.
type Invocation struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

// Result is what a tool execution produces: a data payload on success, or a
// structured error code plus human-readable message.
type Result struct {
	Data      map[string]any
	ErrorCode string
	Message   string
}

// OK reports whether the execution succeeded.
func (r Result) OK() bool { return r.ErrorCode == "" }

func okResult(data map[string]any) Result {
	return Result{Data: data}
}

func errResult(code, message string) Result {
	return Result{ErrorCode: code, Message: message}
}

// Outcome is the dispatch-level record of one tool invocation: what ran,
// with which parameters, and what came back. Aggregated into the synthesis
// prompt and the response's audit trail.
type Outcome struct {
	Tool    string         `json:"tool"`
	Params  map[string]any `json:"params"`
	Result  map[string]any `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
	Success bool           `json:"success"`
}

// Tool is a single validated task-mutation command.
type Tool interface {
	Kind() Kind
	Execute(ctx context.Context, params map[string]any) Result
}

// --- parameter extraction helpers ---
//
// Params arrive from JSON, so numbers are float64 and the model may quote
// integers. These helpers normalize without guessing beyond that.

func stringParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func int64Param(params map[string]any, key string) (int64, bool) {
	v, ok := params[key]
	if !ok || v == nil {
		return 0, false
	}

	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func userIDParam(params map[string]any) (string, bool) {
	userID, ok := stringParam(params, "user_id")
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
