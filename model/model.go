package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/researchmesh/core"
)

// Request captures one completion request: the full transcript, the tool
// advertisements and whether the backend's native web search is enabled.
type Request struct {
	Messages  core.Transcript       `json:"messages"`
	Tools     []core.ToolDefinition `json:"tools,omitempty"`
	WebSearch bool                  `json:"web_search,omitempty"`
}

// Response is the assistant's reply: text plus zero or more tool calls in
// the order the model emitted them.
type Response struct {
	Content   string          `json:"content"`
	ToolCalls []core.ToolCall `json:"tool_calls,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock"
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by agents to drive generation.
// Contract violations by the backend (no choices, wrong role, empty reply)
// are reported as *core.LLMResponseError.
type Model interface {
	Complete(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// Validate checks the backend independent part of the response contract:
// a reply must carry text or at least one tool call.
func Validate(resp *Response) error {
	if resp == nil {
		return &core.LLMResponseError{Reason: "response is nil"}
	}
	if resp.Content == "" && len(resp.ToolCalls) == 0 {
		return &core.LLMResponseError{Reason: "content is empty"}
	}
	return nil
}

// MockModel is a lightweight in‑memory Model useful for tests & examples.
// Responses are served from a script in order; once the script is exhausted
// the fallback (if any) answers. Every request is recorded.
type MockModel struct {
	info     Info
	mu       sync.Mutex
	script   []Response
	fallback func(req Request) (*Response, error)
	requests []Request
}

// NewMockModel constructs a MockModel serving the given responses in order.
func NewMockModel(responses ...Response) *MockModel {
	return &MockModel{
		info:   Info{Name: "mock", Provider: "mock", SupportsTools: true},
		script: responses,
	}
}

// AddResponse appends a scripted response.
func (m *MockModel) AddResponse(resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, resp)
}

// SetFallback installs a function answering requests after the script runs
// out.
func (m *MockModel) SetFallback(fn func(req Request) (*Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = fn
}

// Requests returns a copy of all recorded requests.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Complete implements Model. Tool calls without an ID get a generated one.
func (m *MockModel) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	req.Messages = req.Messages.Clone()
	m.requests = append(m.requests, req)

	var (
		resp     *Response
		fallback = m.fallback
	)
	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		resp = &next
	}
	m.mu.Unlock()

	if resp == nil {
		if fallback == nil {
			return nil, fmt.Errorf("mock model: script exhausted after %d requests", len(m.Requests()))
		}
		var err error
		if resp, err = fallback(req); err != nil {
			return nil, err
		}
	}

	if err := Validate(resp); err != nil {
		return nil, err
	}

	var calls []core.ToolCall
	for _, c := range resp.ToolCalls {
		if c.ID == "" {
			c.ID = "call_" + uuid.NewString()
		}
		calls = append(calls, c)
	}

	return &Response{Content: resp.Content, ToolCalls: calls}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
