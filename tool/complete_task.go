package tool

import (
	"context"
)

// CompleteTaskName is the name of the terminal tool agents call to hand in
// their result.
const CompleteTaskName = "complete_task"

// CompleteTaskArgs are the arguments of complete_task.
type CompleteTaskArgs struct {
	Result string `json:"result" jsonschema_description:"the final result of your task"`
}

// NewCompleteTask returns the complete_task tool. It answers with the
// result text unchanged, which makes it the natural target of a
// ToolCalled("complete_task") stop condition.
func NewCompleteTask() *FunctionTool[CompleteTaskArgs] {
	return NewFunctionTool(
		CompleteTaskName,
		"finish your task and return the result to the lead researcher",
		func(_ context.Context, args CompleteTaskArgs) (string, error) {
			return args.Result, nil
		},
	)
}
