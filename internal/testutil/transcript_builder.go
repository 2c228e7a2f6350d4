package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/researchmesh/core"
)

// TranscriptBuilder provides a fluent helper for constructing transcripts in
// tests.
// Example:
//
//	t := NewTranscriptBuilder().System("sys").User("do stuff").Call("double", `123`).Result("2 * 123 = 246").Build()
//
// Call assigns sequential IDs (call_1, call_2, ...) and Result answers the
// oldest unanswered call.
type TranscriptBuilder struct {
	msgs    core.Transcript
	nextID  int
	pending []core.ToolCall
}

// NewTranscriptBuilder creates an empty builder.
func NewTranscriptBuilder() *TranscriptBuilder { return &TranscriptBuilder{} }

// System appends a system message (chainable).
func (b *TranscriptBuilder) System(text string) *TranscriptBuilder {
	b.msgs = append(b.msgs, core.SystemMessage{Text: text})
	return b
}

// User appends a user message (chainable).
func (b *TranscriptBuilder) User(text string) *TranscriptBuilder {
	b.msgs = append(b.msgs, core.UserMessage{Text: text})
	return b
}

// Assistant appends a plain assistant reply (chainable).
func (b *TranscriptBuilder) Assistant(text string) *TranscriptBuilder {
	b.msgs = append(b.msgs, core.AssistantMessage{Text: text})
	return b
}

// Call appends an assistant message requesting one tool call (chainable).
func (b *TranscriptBuilder) Call(name, args string) *TranscriptBuilder {
	b.nextID++
	call := core.ToolCall{ID: fmt.Sprintf("call_%d", b.nextID), Name: name}
	if args != "" {
		call.Args = json.RawMessage(args)
	}
	b.pending = append(b.pending, call)
	b.msgs = append(b.msgs, core.AssistantMessage{ToolCalls: []core.ToolCall{call}})
	return b
}

// Result answers the oldest pending call (chainable). Without a pending
// call it appends an orphan result for an unnamed tool.
func (b *TranscriptBuilder) Result(result string) *TranscriptBuilder {
	msg := core.ToolMessage{Result: result}
	if len(b.pending) > 0 {
		msg.CallID, msg.Name = b.pending[0].ID, b.pending[0].Name
		b.pending = b.pending[1:]
	}
	b.msgs = append(b.msgs, msg)
	return b
}

// Words appends n assistant replies of one word each (chainable).
func (b *TranscriptBuilder) Words(n int) *TranscriptBuilder {
	for i := 0; i < n; i++ {
		b.Assistant(fmt.Sprintf("w%d", i))
	}
	return b
}

// Build returns a copy of the transcript built so far.
func (b *TranscriptBuilder) Build() core.Transcript { return b.msgs.Clone() }
