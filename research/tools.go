package research

import (
	"context"
	"fmt"

	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/tool"
)

// Tool names of the orchestration tools.
const (
	StartSubagentToolName   = "start_subagent"
	WaitForSubagentToolName = "wait_for_subagent"
)

const noSubagentsMessage = "no sub-agents are currently active, create a new sub-agent to wait for a task"

// StartSubagentArgs are the arguments of start_subagent.
type StartSubagentArgs struct {
	Task string `json:"task" jsonschema_description:"a self-contained description of the research task"`
}

// startSubagent builds a sub-agent with its own log and memory and starts it
// in the background. The call is answered right away with an
// acknowledgement; the result is collected by wait_for_subagent.
type startSubagent struct {
	o *Orchestrator
}

func (s *startSubagent) Definition() (core.ToolDefinition, error) {
	return tool.NewDefinition[StartSubagentArgs](
		StartSubagentToolName,
		"create a research sub-agent to investigate a specific research task",
	)
}

func (s *startSubagent) Invoke(_ context.Context, call core.ToolCall, t core.Transcript) (core.Transcript, error) {
	var args StartSubagentArgs
	if err := call.Decode(&args); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("subagent_%d", s.o.counter.Add(1)-1)

	child, err := s.o.newAgent(name, subagentPrompt, args.Task)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	if err := s.o.group.Spawn(name, child.Run); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	return append(t, core.ToolMessage{
		CallID: call.ID,
		Name:   StartSubagentToolName,
		Result: fmt.Sprintf("Research sub-agent started for task: %s", args.Task),
	}), nil
}

// waitForSubagent blocks until the next sub-agent finishes and answers with
// the text it handed to complete_task.
func (o *Orchestrator) waitForSubagent() core.FunctionalTool {
	return tool.NewFunctionTool(
		WaitForSubagentToolName,
		"wait for a research sub-agent to complete its task and obtain the result",
		func(ctx context.Context, _ tool.NoArgs) (string, error) {
			r, ok, err := o.group.Next(ctx)
			if err != nil {
				return "", err
			}

			if !ok {
				return noSubagentsMessage, nil
			}

			if r.Err != nil {
				return "", fmt.Errorf("%s failed: %w", r.Name, r.Err)
			}

			result, ok := Result(r.Transcript)
			if !ok {
				return "", &core.AgentWorkflowError{Reason: "sub agent terminated without correct tool call"}
			}

			return result, nil
		},
		func(fo *tool.FunctionToolOptions) { fo.Logger = o.opts.Logger },
	)
}
