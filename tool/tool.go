// Package tool implements the tool calling subsystem that lets agents invoke
// structured capabilities. It provides the adapter that turns a
// core.FunctionalTool into a core.Tool, a generic typed function tool with
// reflected argument schemas, and the built-in complete_task and
// summarize_history tools.
package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/internal/util"
)

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`    // Name of the tool that failed
	Message string `json:"message"` // Error message
	Code    string `json:"code"`    // Error code for categorization
	Err     error  `json:"-"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *ToolError) Unwrap() error { return e.Err }

// NoArgs is the argument type of tools that take no parameters.
type NoArgs struct{}

// NewDefinition builds a tool advertisement whose parameter schema is
// reflected from the argument struct T.
func NewDefinition[T any](name, description string) (core.ToolDefinition, error) {
	schema, err := util.SchemaFor[T]()
	if err != nil {
		return core.ToolDefinition{}, fmt.Errorf("schema for tool %s: %w", name, err)
	}

	return core.ToolDefinition{
		Name:        name,
		Description: description,
		Parameters:  schema,
	}, nil
}

// FromFunctional adapts a FunctionalTool to the Tool interface. The adapted
// tool appends exactly the message the functional tool returns and leaves
// the rest of the transcript untouched.
func FromFunctional(ft core.FunctionalTool) core.Tool {
	return &functional{inner: ft}
}

// FromFunctionals adapts every FunctionalTool in fts.
func FromFunctionals(fts ...core.FunctionalTool) []core.Tool {
	out := make([]core.Tool, len(fts))
	for i, ft := range fts {
		out[i] = FromFunctional(ft)
	}
	return out
}

type functional struct {
	inner core.FunctionalTool
}

func (f *functional) Definition() (core.ToolDefinition, error) {
	return f.inner.Definition()
}

func (f *functional) Invoke(ctx context.Context, call core.ToolCall, t core.Transcript) (core.Transcript, error) {
	msg, err := f.inner.Call(ctx, call)
	if err != nil {
		return nil, err
	}
	return append(t, msg), nil
}
