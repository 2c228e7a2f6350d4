package tool

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/logging"
)

// FunctionToolOptions configure a FunctionTool.
type FunctionToolOptions struct {
	Logger logging.Logger
}

// FunctionTool exposes a typed Go function as a FunctionalTool.
//
// Arguments of each call are decoded into T before fn runs; the parameter
// schema advertised to the model is reflected from T. The returned string
// becomes the result of a ToolMessage answering the call.
//
// Error semantics:
//
//	decode failure                  -> *core.ArgsError (forwarded unchanged)
//	*ToolError returned by fn       -> forwarded unchanged
//	other error                     -> *ToolError{Code: "EXECUTION_ERROR"}
//
// A FunctionTool has no mutable state after construction and is safe for
// concurrent use.
type FunctionTool[T any] struct {
	name        string
	description string
	fn          func(ctx context.Context, args T) (string, error)
	logger      logging.Logger
}

// NewFunctionTool constructs a FunctionTool.
//
// Example:
//
//	type DoubleArgs struct {
//	  N int `json:"n" jsonschema_description:"number to double"`
//	}
//
//	double := NewFunctionTool("double", "double a number",
//	  func(ctx context.Context, args DoubleArgs) (string, error) {
//	    return fmt.Sprintf("2 * %d = %d", args.N, 2*args.N), nil
//	  },
//	)
func NewFunctionTool[T any](
	name, description string,
	fn func(ctx context.Context, args T) (string, error),
	optFns ...func(o *FunctionToolOptions),
) *FunctionTool[T] {
	opts := FunctionToolOptions{}
	for _, apply := range optFns {
		apply(&opts)
	}

	return &FunctionTool[T]{
		name:        name,
		description: description,
		fn:          fn,
		logger:      logging.OrNoOp(opts.Logger),
	}
}

// Name returns the unique tool name.
func (t *FunctionTool[T]) Name() string { return t.name }

// Definition implements core.FunctionalTool.
func (t *FunctionTool[T]) Definition() (core.ToolDefinition, error) {
	return NewDefinition[T](t.name, t.description)
}

// Call implements core.FunctionalTool.
func (t *FunctionTool[T]) Call(ctx context.Context, call core.ToolCall) (core.Message, error) {
	start := time.Now()

	var args T
	if err := call.Decode(&args); err != nil {
		t.logger.Error("tool.call.error", "tool", t.name, "fc_id", call.ID, "error", err.Error())
		return nil, err
	}

	result, err := t.fn(ctx, args)
	if err != nil {
		t.logger.Error("tool.call.error", "tool", t.name, "fc_id", call.ID, "error", err.Error())

		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return nil, err
		}

		return nil, &ToolError{
			Tool:    t.name,
			Message: err.Error(),
			Code:    "EXECUTION_ERROR",
			Err:     err,
		}
	}

	t.logger.Debug("tool.call.success", "tool", t.name, "fc_id", call.ID, "duration_ms", time.Since(start).Milliseconds())

	return core.ToolMessage{CallID: call.ID, Name: t.name, Result: result}, nil
}
