package core

import (
	"encoding/json"
	"strings"
)

// Role names the conversational author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of a transcript. The concrete variants form a closed
// set (SystemMessage, UserMessage, AssistantMessage, ToolMessage); switch on
// the dynamic type to inspect content.
type Message interface {
	// Role reports which variant the message is.
	Role() Role

	// Tokens returns the whitespace-delimited word count of the message text,
	// used as a cheap token estimate.
	Tokens() int

	isMessage()
}

// SystemMessage carries system instructions.
type SystemMessage struct {
	Text string
}

// Role implements Message.
func (SystemMessage) Role() Role { return RoleSystem }

// Tokens implements Message.
func (m SystemMessage) Tokens() int { return countWords(m.Text) }

func (SystemMessage) isMessage() {}

// UserMessage carries user (or framework-injected) input.
type UserMessage struct {
	Text string
}

// Role implements Message.
func (UserMessage) Role() Role { return RoleUser }

// Tokens implements Message.
func (m UserMessage) Tokens() int { return countWords(m.Text) }

func (UserMessage) isMessage() {}

// AssistantMessage is a model reply: free text plus the ordered tool calls
// the model requested in that turn.
type AssistantMessage struct {
	Text      string
	ToolCalls []ToolCall
}

// Role implements Message.
func (AssistantMessage) Role() Role { return RoleAssistant }

// Tokens implements Message. Tool call arguments are not counted.
func (m AssistantMessage) Tokens() int { return countWords(m.Text) }

func (AssistantMessage) isMessage() {}

// ToolMessage answers the tool call identified by CallID.
type ToolMessage struct {
	CallID string
	Name   string
	Result string
}

// Role implements Message.
func (ToolMessage) Role() Role { return RoleTool }

// Tokens implements Message.
func (m ToolMessage) Tokens() int { return countWords(m.Result) }

func (ToolMessage) isMessage() {}

// ToolCall is a model-requested invocation of a named tool. Args holds the
// raw serialized arguments; each tool decodes them into its own shape.
type ToolCall struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Decode unmarshals the call arguments into v. Empty or null arguments leave
// v untouched so argument-less tools accept them.
func (c ToolCall) Decode(v any) error {
	raw := strings.TrimSpace(string(c.Args))
	if raw == "" || raw == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &ArgsError{Tool: c.Name, Err: err}
	}
	return nil
}

// Transcript is the ordered message history of one agent conversation.
type Transcript []Message

// Last returns the final message, or nil for an empty transcript.
func (t Transcript) Last() Message {
	if len(t) == 0 {
		return nil
	}
	return t[len(t)-1]
}

// Tokens sums the word counts of all messages.
func (t Transcript) Tokens() int {
	n := 0
	for _, m := range t {
		n += m.Tokens()
	}
	return n
}

// Clone returns a copy with its own backing array.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
