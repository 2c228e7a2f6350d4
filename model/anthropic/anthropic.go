// Package anthropic provides a model wrapper for the Anthropic Claude API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/model"
)

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
	BaseURL     string
	// MaxSearches caps server-side web searches per request; 0 leaves it to the API.
	MaxSearches int64
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.Model("claude-sonnet-4-20250514"),
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// NewModel creates a new Anthropic model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new Anthropic model from an existing client
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Complete implements model.Model with one Messages API call.
func (m *Model) Complete(ctx context.Context, req model.Request) (*model.Response, error) {
	resp, err := m.client.Messages.New(ctx, m.buildParams(req))
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	return parseMessage(resp)
}

func (m *Model) buildParams(req model.Request) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    buildMessages(req.Messages),
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}

	if system := extractSystem(req.Messages); len(system) > 0 {
		params.System = system
	}

	tools := buildTools(req.Tools)
	if req.WebSearch {
		search := &anthropic.WebSearchTool20250305Param{}
		if m.opts.MaxSearches > 0 {
			search.MaxUses = anthropic.Int(m.opts.MaxSearches)
		}
		tools = append(tools, anthropic.ToolUnionParam{OfWebSearchTool20250305: search})
	}
	if len(tools) > 0 {
		params.Tools = tools
	}

	return params
}

// parseMessage flattens text blocks into the reply content and collects
// client tool calls. Server tool blocks (web search) are skipped; their
// findings arrive as text.
func parseMessage(resp *anthropic.Message) (*model.Response, error) {
	if resp == nil {
		return nil, &core.LLMResponseError{Reason: "response is nil"}
	}

	if role := string(resp.Role); role != "" && role != string(core.RoleAssistant) {
		return nil, &core.LLMResponseError{Reason: fmt.Sprintf("expected role to be assistant, got %s", role)}
	}

	var (
		text strings.Builder
		out  = &model.Response{}
	)

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.AsText().Text)
		case "tool_use":
			use := block.AsToolUse()
			args, err := json.Marshal(use.Input)
			if err != nil {
				return nil, fmt.Errorf("marshal tool input: %w", err)
			}
			out.ToolCalls = append(out.ToolCalls, core.ToolCall{ID: use.ID, Name: use.Name, Args: args})
		}
	}

	out.Content = text.String()

	if err := model.Validate(out); err != nil {
		return nil, err
	}

	return out, nil
}

// extractSystem lifts system messages into the request's system blocks.
func extractSystem(t core.Transcript) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, msg := range t {
		if sm, ok := msg.(core.SystemMessage); ok && sm.Text != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: sm.Text})
		}
	}
	return blocks
}

// buildMessages converts the non-system part of a transcript. Consecutive
// tool results are grouped into one user turn of tool_result blocks right
// after the assistant turn that requested them; results without a pending
// tool_use become plain text and unanswered tool_use blocks are dropped.
func buildMessages(t core.Transcript) []anthropic.MessageParam {
	answered := map[string]bool{}
	for _, msg := range t {
		if tm, ok := msg.(core.ToolMessage); ok {
			answered[tm.CallID] = true
		}
	}

	var (
		messages []anthropic.MessageParam
		results  []anthropic.ContentBlockParamUnion
		pending  = map[string]bool{}
	)

	flush := func() {
		if len(results) > 0 {
			messages = append(messages, anthropic.NewUserMessage(results...))
			results = nil
		}
	}

	for _, msg := range t {
		switch v := msg.(type) {
		case core.SystemMessage:
			continue
		case core.UserMessage:
			flush()
			if v.Text != "" {
				messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(v.Text)))
			}
		case core.AssistantMessage:
			flush()
			var blocks []anthropic.ContentBlockParamUnion
			if v.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(v.Text))
			}
			for _, c := range v.ToolCalls {
				if !answered[c.ID] {
					continue
				}
				pending[c.ID] = true
				blocks = append(blocks, anthropic.NewToolUseBlock(c.ID, toolInput(c.Args), c.Name))
			}
			if len(blocks) > 0 {
				messages = append(messages, anthropic.NewAssistantMessage(blocks...))
			}
		case core.ToolMessage:
			if pending[v.CallID] {
				delete(pending, v.CallID)
				results = append(results, anthropic.NewToolResultBlock(v.CallID, v.Result, false))
				continue
			}
			flush()
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(fmt.Sprintf("[result of %s]\n%s", v.Name, v.Result)),
			))
		}
	}
	flush()

	return messages
}

// toolInput decodes raw call arguments; the API requires an object, so
// empty or non-object arguments are wrapped.
func toolInput(args json.RawMessage) any {
	if len(strings.TrimSpace(string(args))) == 0 {
		return map[string]any{}
	}

	var input any
	if err := json.Unmarshal(args, &input); err != nil {
		return map[string]any{"input": string(args)}
	}

	if obj, ok := input.(map[string]any); ok {
		return obj
	}

	return map[string]any{"input": input}
}

// buildTools converts tool advertisements to Anthropic client tools.
func buildTools(defs []core.ToolDefinition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, 0, len(defs))

	for _, def := range defs {
		schema := anthropic.ToolInputSchemaParam{}
		if def.Parameters != nil {
			if props, ok := def.Parameters["properties"]; ok {
				schema.Properties = props
			}
			schema.Required = requiredFields(def.Parameters["required"])
		}

		tools = append(tools, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        def.Name,
			Description: anthropic.String(def.Description),
			InputSchema: schema,
		}})
	}

	return tools
}

func requiredFields(v any) []string {
	switch req := v.(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          string(m.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}
