package core

import "context"

// ToolDefinition advertises a tool to the model: a unique name, a
// description and a JSON schema describing the expected arguments.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Tool has full control over the transcript. Invoke receives the transcript
// (ownership moves to the tool) and returns the transcript the loop continues
// with. Implementations may append, drop or rewrite messages and may have
// side effects outside the transcript.
type Tool interface {
	Definition() (ToolDefinition, error)
	Invoke(ctx context.Context, call ToolCall, t Transcript) (Transcript, error)
}

// FunctionalTool answers a call with exactly one message and never touches
// the transcript. Wrap it with tool.FromFunctional to register it.
type FunctionalTool interface {
	Definition() (ToolDefinition, error)
	Call(ctx context.Context, call ToolCall) (Message, error)
}

// Callback post-processes the transcript once per loop iteration, after tool
// dispatch. The returned transcript replaces the input.
type Callback interface {
	Call(ctx context.Context, t Transcript) (Transcript, error)
}

// StopCondition decides when an agent loop terminates. It is evaluated at
// the top of every iteration.
type StopCondition interface {
	Done(t Transcript) bool
}

// StopFunc adapts a plain predicate to StopCondition.
type StopFunc func(t Transcript) bool

// Done implements StopCondition.
func (f StopFunc) Done(t Transcript) bool { return f(t) }
