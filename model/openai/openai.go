// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API (function/tool calling and native web search). It
// adapts researchmesh transcripts into the SDK's message format and back.
package openai

import (
	"context"
	"fmt"

	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configure the OpenAI model adapter.
// Fields mirror a subset of Chat Completion parameters intentionally kept
// minimal; extend via functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	APIKey              string
	BaseURL             string
	// SearchContextSize is sent with web search requests ("low", "medium", "high").
	SearchContextSize string
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:               openai.ChatModelGPT4o,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
		SearchContextSize:   "medium",
	}
}

// NewModel creates a new OpenAI model using the official client. The API key
// falls back to OPENAI_API_KEY when Options.APIKey is empty.
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

	client := openai.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new OpenAI model from an existing client
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Complete implements model.Model with one non-streaming chat completion.
func (m *Model) Complete(ctx context.Context, req model.Request) (*model.Response, error) {
	params := m.buildParams(req)

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	return parseCompletion(resp)
}

// parseCompletion maps the first choice onto model.Response, enforcing the
// completion contract.
func parseCompletion(resp *openai.ChatCompletion) (*model.Response, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, &core.LLMResponseError{Reason: "choices is empty"}
	}

	msg := resp.Choices[0].Message
	if role := string(msg.Role); role != "" && role != string(core.RoleAssistant) {
		return nil, &core.LLMResponseError{Reason: fmt.Sprintf("expected role to be assistant, got %s", role)}
	}

	out := &model.Response{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, core.ToolCall{
			ID:   tc.ID,
			Name: tc.Function.Name,
			Args: []byte(tc.Function.Arguments),
		})
	}

	if err := model.Validate(out); err != nil {
		return nil, err
	}

	return out, nil
}

// buildParams assembles the OpenAI request parameters including tool definitions.
func (m *Model) buildParams(req model.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req.Messages),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	if req.WebSearch {
		params.WebSearchOptions = openai.ChatCompletionNewParamsWebSearchOptions{
			SearchContextSize: m.opts.SearchContextSize,
		}
	}

	if len(req.Tools) == 0 {
		return params
	}

	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, def := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  def.Parameters,
			},
		}
	}
	params.Tools = tools

	return params
}

// buildMessages converts a transcript into chat messages. Tool calls that are
// never answered are dropped from their assistant message and tool results
// whose call is not pending (e.g. after compaction cut the assistant turn)
// are sent as user text, since the API rejects both.
func buildMessages(t core.Transcript) []openai.ChatCompletionMessageParamUnion {
	answered := map[string]bool{}
	for _, msg := range t {
		if tm, ok := msg.(core.ToolMessage); ok {
			answered[tm.CallID] = true
		}
	}

	pending := map[string]bool{}
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(t))

	for _, msg := range t {
		switch v := msg.(type) {
		case core.SystemMessage:
			messages = append(messages, openai.SystemMessage(v.Text))
		case core.UserMessage:
			messages = append(messages, openai.UserMessage(v.Text))
		case core.AssistantMessage:
			var calls []openai.ChatCompletionMessageToolCallParam
			for _, c := range v.ToolCalls {
				if !answered[c.ID] {
					continue
				}
				pending[c.ID] = true
				calls = append(calls, openai.ChatCompletionMessageToolCallParam{
					ID:   c.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      c.Name,
						Arguments: string(c.Args),
					},
				})
			}
			if len(calls) == 0 {
				messages = append(messages, openai.AssistantMessage(v.Text))
				continue
			}
			param := openai.ChatCompletionAssistantMessageParam{
				Role:      "assistant",
				ToolCalls: calls,
			}
			if v.Text != "" {
				param.Content.OfString = openai.String(v.Text)
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{OfAssistant: &param})
		case core.ToolMessage:
			if pending[v.CallID] {
				delete(pending, v.CallID)
				messages = append(messages, openai.ToolMessage(v.Result, v.CallID))
				continue
			}
			messages = append(messages, openai.UserMessage(fmt.Sprintf("[result of %s]\n%s", v.Name, v.Result)))
		}
	}

	return messages
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "openai",
		SupportsTools: true,
	}
}
