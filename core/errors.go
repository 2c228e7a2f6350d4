package core

import (
	"errors"
	"fmt"
)

// ToolDoesNotExistError is returned when the model requests a tool that was
// never registered. It aborts the run.
type ToolDoesNotExistError struct {
	Name string
}

func (e *ToolDoesNotExistError) Error() string {
	return fmt.Sprintf("tool %s does not exist", e.Name)
}

// MissingArgError reports an agent construction invariant violation.
type MissingArgError struct {
	Field string
}

func (e *MissingArgError) Error() string {
	return fmt.Sprintf("missing arg: %s", e.Field)
}

// DuplicateToolError is returned at build time when two tools share a name.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %s registered more than once", e.Name)
}

// LLMResponseError reports a model backend that violated the completion
// contract (no choices, wrong role, empty reply).
type LLMResponseError struct {
	Reason string
}

func (e *LLMResponseError) Error() string {
	return fmt.Sprintf("no response from llm: %s", e.Reason)
}

// AgentWorkflowError reports a violated expectation about message
// sequencing, e.g. a sub-agent that stopped without its completion call.
type AgentWorkflowError struct {
	Reason string
}

func (e *AgentWorkflowError) Error() string {
	return fmt.Sprintf("agent workflow error: %s", e.Reason)
}

// ArgsError wraps a failure to decode the arguments of a tool call.
type ArgsError struct {
	Tool string
	Err  error
}

func (e *ArgsError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %s: %v", e.Tool, e.Err)
}

func (e *ArgsError) Unwrap() error { return e.Err }

// Kind names the taxonomy class of err for user-facing reporting. Errors
// from collaborators (I/O, SDKs, context) report "error".
func Kind(err error) string {
	var (
		notExist  *ToolDoesNotExistError
		missing   *MissingArgError
		duplicate *DuplicateToolError
		llm       *LLMResponseError
		workflow  *AgentWorkflowError
		args      *ArgsError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &notExist):
		return "tool_does_not_exist"
	case errors.As(err, &missing):
		return "missing_arg"
	case errors.As(err, &duplicate):
		return "duplicate_tool"
	case errors.As(err, &llm):
		return "llm_response_error"
	case errors.As(err, &workflow):
		return "agent_workflow_error"
	case errors.As(err, &args):
		return "invalid_args"
	default:
		return "error"
	}
}
