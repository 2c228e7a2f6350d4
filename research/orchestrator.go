// Package research implements a lead-researcher agent that fans work out to
// concurrently running research sub-agents. The orchestrator starts
// sub-agents with start_subagent, collects their results one at a time with
// wait_for_subagent and finishes by calling complete_task. Every agent
// writes its conversation to its own markdown log in the log directory.
package research

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/researchmesh/agent"
	"github.com/hupe1980/researchmesh/callback"
	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/logging"
	"github.com/hupe1980/researchmesh/memory"
	"github.com/hupe1980/researchmesh/model"
	"github.com/hupe1980/researchmesh/subagent"
	"github.com/hupe1980/researchmesh/tool"
)

// OrchestratorName names the lead agent and its log file.
const OrchestratorName = "orchestrator"

// Options configure an Orchestrator.
type Options struct {
	// KeepLast is the number of trailing messages compaction keeps verbatim.
	KeepLast int

	// Threshold is the transcript word count above which compaction runs.
	Threshold int

	// WebSearch enables the backend's native web search for every agent.
	WebSearch bool

	Logger logging.Logger
}

// Orchestrator is the lead research agent plus the set of sub-agents it
// started.
type Orchestrator struct {
	llm     model.Model
	logDir  string
	opts    Options
	agent   *agent.Agent
	group   *subagent.Group
	counter atomic.Uint32

	mu     sync.Mutex
	files  []*os.File
	closed bool
}

// New creates the orchestrator for task. logDir is created if missing and
// receives orchestrator.md plus one subagent_<n>.md per started sub-agent.
func New(m model.Model, task, logDir string, optFns ...func(o *Options)) (*Orchestrator, error) {
	opts := Options{
		KeepLast:  2,
		Threshold: tool.DefaultSummarizeThreshold,
		WebSearch: true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	if m == nil {
		return nil, &core.MissingArgError{Field: "model"}
	}

	if strings.TrimSpace(task) == "" {
		return nil, &core.MissingArgError{Field: "task"}
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	o := &Orchestrator{
		llm:    m,
		logDir: logDir,
		opts:   opts,
		group:  subagent.NewGroup(func(so *subagent.Options) { so.Logger = opts.Logger }),
	}

	a, err := o.newAgent(OrchestratorName, orchestratorPrompt, task,
		&startSubagent{o: o},
		tool.FromFunctional(o.waitForSubagent()),
	)
	if err != nil {
		_ = o.Shutdown()
		return nil, err
	}

	o.agent = a

	return o, nil
}

// Run executes the lead agent until it calls complete_task and returns its
// final transcript. Sub-agents still running afterwards are cancelled and
// drained, and all log files are closed, whether or not the run succeeded.
func (o *Orchestrator) Run(ctx context.Context) (t core.Transcript, err error) {
	defer func() {
		if cerr := o.Shutdown(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	t, err = o.agent.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", OrchestratorName, err)
	}

	return t, nil
}

// Shutdown cancels and drains outstanding sub-agents and closes the log
// files. It is idempotent.
func (o *Orchestrator) Shutdown() error {
	o.group.Shutdown()

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true

	var errs []error
	for _, f := range o.files {
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", f.Name(), err))
		}
	}
	o.files = nil

	return errors.Join(errs...)
}

// Result returns the text handed to complete_task, if t ends with it.
func Result(t core.Transcript) (string, bool) {
	tm, ok := t.Last().(core.ToolMessage)
	if !ok || tm.Name != tool.CompleteTaskName {
		return "", false
	}
	return tm.Result, true
}

// createLog opens <logDir>/<name>.md and registers it for Shutdown.
func (o *Orchestrator) createLog(name string) (*os.File, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return nil, errors.New("orchestrator is shut down")
	}

	f, err := os.Create(filepath.Join(o.logDir, name+".md"))
	if err != nil {
		return nil, fmt.Errorf("create log for %s: %w", name, err)
	}

	o.files = append(o.files, f)

	return f, nil
}

// newAgent assembles one research agent: complete_task, summarize_history,
// extra, then its own memory tools; compaction then logging as callbacks.
func (o *Orchestrator) newAgent(name, systemPrompt, task string, extra ...core.Tool) (*agent.Agent, error) {
	f, err := o.createLog(name)
	if err != nil {
		return nil, err
	}

	msgLogger, err := callback.NewMessageLogger(name, f)
	if err != nil {
		return nil, err
	}

	logger := logging.With(o.opts.Logger, "component", name)

	summarize := tool.NewSummarizeHistory(o.llm, o.opts.KeepLast, func(so *tool.SummarizeHistoryOptions) {
		so.Threshold = o.opts.Threshold
		so.Logger = logger
	})

	tools := []core.Tool{
		tool.FromFunctional(tool.NewCompleteTask()),
		summarize,
	}
	tools = append(tools, extra...)
	tools = append(tools, memory.NewInMemoryStore().Tools()...)

	return agent.New(func(ao *agent.Options) {
		ao.Name = name
		ao.Model = o.llm
		ao.SystemPrompt = agent.NewInstructionFromText(systemPrompt)
		ao.UserPrompt = agent.NewInstructionFromText(task)
		ao.WebSearch = o.opts.WebSearch
		ao.Tools = tools
		ao.Callbacks = []core.Callback{summarize, msgLogger}
		ao.StopCondition = agent.ToolCalled(tool.CompleteTaskName)
		ao.Logger = logger
	})
}
