package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "tool search does not exist", (&ToolDoesNotExistError{Name: "search"}).Error())
	assert.Equal(t, "missing arg: model", (&MissingArgError{Field: "model"}).Error())
	assert.Equal(t, "no response from llm: choices is empty", (&LLMResponseError{Reason: "choices is empty"}).Error())
	assert.Equal(t,
		"agent workflow error: sub agent terminated without correct tool call",
		(&AgentWorkflowError{Reason: "sub agent terminated without correct tool call"}).Error(),
	)
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not exist", &ToolDoesNotExistError{Name: "x"}, "tool_does_not_exist"},
		{"missing", &MissingArgError{Field: "model"}, "missing_arg"},
		{"duplicate", &DuplicateToolError{Name: "x"}, "duplicate_tool"},
		{"llm", &LLMResponseError{Reason: "r"}, "llm_response_error"},
		{"workflow", &AgentWorkflowError{Reason: "r"}, "agent_workflow_error"},
		{"args", &ArgsError{Tool: "x", Err: errors.New("bad")}, "invalid_args"},
		{"wrapped", fmt.Errorf("run orchestrator: %w", &ToolDoesNotExistError{Name: "x"}), "tool_does_not_exist"},
		{"collaborator", context.Canceled, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
