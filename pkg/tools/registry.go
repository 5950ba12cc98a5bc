package tools

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/pkg/store"
)

// Registry holds the closed set of tool commands and dispatches invocations
// to them. Lookup failures and panics become structured outcomes, never
// errors raised to the caller.
type Registry struct {
	tools  map[Kind]Tool
	logger *zap.Logger
}

// NewRegistry builds the registry with all five task tools wired to the store.
func NewRegistry(st *store.Store, logger *zap.Logger) *Registry {
	r := &Registry{
		tools:  make(map[Kind]Tool),
		logger: logger,
	}

	for _, t := range []Tool{
		&addTaskTool{store: st, logger: logger},
		&listTasksTool{store: st, logger: logger},
		&completeTaskTool{store: st, logger: logger},
		&deleteTaskTool{store: st, logger: logger},
		&updateTaskTool{store: st, logger: logger},
	} {
		r.tools[t.Kind()] = t
	}

	return r
}

// Kinds returns the registered tool kinds.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.tools))
	for k := range r.tools {
		kinds = append(kinds, k)
	}
	return kinds
}

// Dispatch executes a single invocation and records the outcome. An unknown
// tool name yields a tool_not_found outcome; a panicking tool yields
// tool_execution_failed. Params are passed through to the outcome verbatim
// for the audit trail.
func (r *Registry) Dispatch(ctx context.Context, name string, params map[string]any) (outcome Outcome) {
	outcome = Outcome{Tool: name, Params: params}

	// Panic isolation: one misbehaving tool must not abort the turn.
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool execution panicked",
				zap.String("tool", name),
				zap.Any("panic", rec),
			)
			outcome.Error = ErrToolExecutionFailed
			outcome.Message = fmt.Sprintf("Failed to execute tool '%s'", name)
			outcome.Success = false
		}
	}()

	tool, ok := r.tools[Kind(name)]
	if !ok {
		r.logger.Warn("tool not found", zap.String("tool", name))
		outcome.Error = ErrToolNotFound
		outcome.Message = fmt.Sprintf("Tool '%s' not found", name)
		return outcome
	}

	result := tool.Execute(ctx, params)

	outcome.Result = result.Data
	outcome.Error = result.ErrorCode
	outcome.Message = result.Message
	outcome.Success = result.OK()

	r.logger.Info("tool executed",
		zap.String("tool", name),
		zap.Bool("success", outcome.Success),
	)

	return outcome
}
