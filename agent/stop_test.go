package agent

import (
	"testing"

	"github.com/hupe1980/researchmesh/core"
	"github.com/stretchr/testify/assert"
)

func TestToolCalled(t *testing.T) {
	stop := ToolCalled("complete_task")

	assert.False(t, stop.Done(nil))
	assert.False(t, stop.Done(core.Transcript{core.UserMessage{Text: "complete_task"}}))
	assert.False(t, stop.Done(core.Transcript{core.ToolMessage{Name: "memory_get_key"}}))
	assert.True(t, stop.Done(core.Transcript{core.ToolMessage{Name: "complete_task", Result: "r"}}))
	assert.False(t, stop.Done(core.Transcript{
		core.ToolMessage{Name: "complete_task"},
		core.AssistantMessage{Text: "more"},
	}))
}

func TestAssistantSaid(t *testing.T) {
	stop := AssistantSaid("completed")

	assert.True(t, stop.Done(core.Transcript{core.AssistantMessage{Text: "completed"}}))
	assert.False(t, stop.Done(core.Transcript{core.AssistantMessage{Text: "completed!"}}))
	assert.False(t, stop.Done(core.Transcript{core.UserMessage{Text: "completed"}}))
}

func TestAnyAndMaxTurns(t *testing.T) {
	tr := core.Transcript{
		core.UserMessage{Text: "go"},
		core.AssistantMessage{Text: "a"},
		core.AssistantMessage{Text: "b"},
	}

	assert.True(t, MaxTurns(2).Done(tr))
	assert.False(t, MaxTurns(3).Done(tr))
	assert.True(t, Any(ToolCalled("complete_task"), MaxTurns(2)).Done(tr))
	assert.False(t, Any().Done(tr))
}
