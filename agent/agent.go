package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/logging"
	"github.com/hupe1980/researchmesh/model"
)

// Options configures an Agent instance.
//
// Use functional options with New to override defaults.
type Options struct {
	// Name labels log lines; defaults to "agent".
	Name  string
	Model model.Model

	// SystemPrompt and UserPrompt seed the transcript when set.
	SystemPrompt Instruction
	UserPrompt   Instruction

	// History is appended after the prompts.
	History core.Transcript

	Tools         []core.Tool
	Callbacks     []core.Callback
	StopCondition core.StopCondition

	// WebSearch enables the backend's native web search on every completion.
	WebSearch bool

	Logger logging.Logger
}

// Agent drives the model / tool / callback loop until its stop condition
// holds.
type Agent struct {
	name         string
	llm          model.Model
	systemPrompt Instruction
	userPrompt   Instruction
	history      core.Transcript
	tools        map[string]core.Tool
	defs         []core.ToolDefinition
	callbacks    []core.Callback
	stop         core.StopCondition
	webSearch    bool
	logger       logging.Logger
}

// New validates the options and builds an Agent. A model, a stop condition
// and at least one seed message are required (*core.MissingArgError). Each
// tool's definition is computed once; two tools with the same name fail
// with *core.DuplicateToolError.
func New(optFns ...func(o *Options)) (*Agent, error) {
	opts := Options{Name: "agent"}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Model == nil {
		return nil, &core.MissingArgError{Field: "model"}
	}

	if opts.StopCondition == nil {
		return nil, &core.MissingArgError{Field: "stop_condition"}
	}

	if opts.SystemPrompt.IsZero() && opts.UserPrompt.IsZero() && len(opts.History) == 0 {
		return nil, &core.MissingArgError{Field: "messages"}
	}

	a := &Agent{
		name:         opts.Name,
		llm:          opts.Model,
		systemPrompt: opts.SystemPrompt,
		userPrompt:   opts.UserPrompt,
		history:      opts.History.Clone(),
		tools:        make(map[string]core.Tool, len(opts.Tools)),
		defs:         make([]core.ToolDefinition, 0, len(opts.Tools)),
		callbacks:    append([]core.Callback(nil), opts.Callbacks...),
		stop:         opts.StopCondition,
		webSearch:    opts.WebSearch,
		logger:       logging.OrNoOp(opts.Logger),
	}

	for _, t := range opts.Tools {
		def, err := t.Definition()
		if err != nil {
			return nil, fmt.Errorf("tool definition: %w", err)
		}

		if _, exists := a.tools[def.Name]; exists {
			return nil, &core.DuplicateToolError{Name: def.Name}
		}

		a.tools[def.Name] = t
		a.defs = append(a.defs, def)
	}

	return a, nil
}

// Name returns the agent's display name.
func (a *Agent) Name() string { return a.name }

// Definitions returns the tool advertisements in registration order.
func (a *Agent) Definitions() []core.ToolDefinition {
	return append([]core.ToolDefinition(nil), a.defs...)
}

// HasTool checks if a tool is registered with the agent.
func (a *Agent) HasTool(name string) bool {
	_, exists := a.tools[name]
	return exists
}

// Transcript resolves the prompts and returns the seed transcript: system
// prompt, user prompt, then history. Prompts resolving to empty text are
// skipped.
func (a *Agent) Transcript(ctx context.Context) (core.Transcript, error) {
	t := make(core.Transcript, 0, 2+len(a.history))

	system, err := a.systemPrompt.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve system prompt: %w", err)
	}
	if system != "" {
		t = append(t, core.SystemMessage{Text: system})
	}

	user, err := a.userPrompt.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve user prompt: %w", err)
	}
	if user != "" {
		t = append(t, core.UserMessage{Text: user})
	}

	t = append(t, a.history...)
	if len(t) == 0 {
		return nil, &core.MissingArgError{Field: "messages"}
	}

	return t, nil
}

// Run executes the loop from the seed transcript and returns the final
// transcript.
func (a *Agent) Run(ctx context.Context) (core.Transcript, error) {
	t, err := a.Transcript(ctx)
	if err != nil {
		return nil, err
	}
	return a.RunFrom(ctx, t)
}

// RunFrom executes the loop from t. Ownership of t moves to the agent.
//
// The stop condition is checked before every iteration, so a transcript
// that already satisfies it is returned without a model call. The context
// is checked at the same point; cancellation ends the run with ctx.Err().
func (a *Agent) RunFrom(ctx context.Context, t core.Transcript) (core.Transcript, error) {
	logger := logging.With(a.logger, "agent", a.name, "run", uuid.NewString())

	logger.Info("agent.run.start", "messages", len(t), "tools", len(a.defs))

	turn := 0
	for !a.stop.Done(t) {
		if err := ctx.Err(); err != nil {
			logger.Error("agent.run.error", "turn", turn, "error", err.Error())
			return nil, err
		}

		next, err := a.step(ctx, logger, turn, t)
		if err != nil {
			logger.Error("agent.run.error", "turn", turn, "error", err.Error())
			return nil, err
		}

		t = next
		turn++
	}

	logger.Info("agent.run.done", "turns", turn, "messages", len(t))

	return t, nil
}

// step runs one iteration: completion, tool dispatch, callbacks.
func (a *Agent) step(ctx context.Context, logger logging.Logger, turn int, t core.Transcript) (core.Transcript, error) {
	resp, err := a.llm.Complete(ctx, model.Request{
		Messages:  t,
		Tools:     a.defs,
		WebSearch: a.webSearch,
	})
	if err != nil {
		return nil, fmt.Errorf("agent %s: completion: %w", a.name, err)
	}

	logger.Debug("agent.turn", "turn", turn, "tool_calls", len(resp.ToolCalls), "content_len", len(resp.Content))

	t = append(t, core.AssistantMessage{Text: resp.Content, ToolCalls: resp.ToolCalls})

	for _, call := range resp.ToolCalls {
		tl, ok := a.tools[call.Name]
		if !ok {
			return nil, fmt.Errorf("agent %s: %w", a.name, &core.ToolDoesNotExistError{Name: call.Name})
		}

		logger.Debug("agent.tool.dispatch", "turn", turn, "tool", call.Name, "fc_id", call.ID)

		if t, err = tl.Invoke(ctx, call, t); err != nil {
			return nil, fmt.Errorf("agent %s: tool %s: %w", a.name, call.Name, err)
		}
	}

	for i, cb := range a.callbacks {
		if t, err = cb.Call(ctx, t); err != nil {
			return nil, fmt.Errorf("agent %s: callback %d: %w", a.name, i, err)
		}
	}

	return t, nil
}
