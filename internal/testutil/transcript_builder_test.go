package testutil

import (
	"encoding/json"
	"testing"

	"github.com/hupe1980/researchmesh/core"
	"github.com/stretchr/testify/assert"
)

func TestTranscriptBuilder(t *testing.T) {
	tr := NewTranscriptBuilder().
		System("sys").
		User("do stuff").
		Call("double", `123`).
		Result("2 * 123 = 246").
		Assistant("done").
		Build()

	assert.Equal(t, core.Transcript{
		core.SystemMessage{Text: "sys"},
		core.UserMessage{Text: "do stuff"},
		core.AssistantMessage{ToolCalls: []core.ToolCall{{ID: "call_1", Name: "double", Args: json.RawMessage(`123`)}}},
		core.ToolMessage{CallID: "call_1", Name: "double", Result: "2 * 123 = 246"},
		core.AssistantMessage{Text: "done"},
	}, tr)
}

func TestTranscriptBuilder_OrphanAndWords(t *testing.T) {
	tr := NewTranscriptBuilder().Result("orphan").Words(3).Build()

	assert.Len(t, tr, 4)
	assert.Equal(t, core.ToolMessage{Result: "orphan"}, tr[0])
	assert.Equal(t, 4, tr.Tokens())
}
