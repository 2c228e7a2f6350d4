// Package subagent manages a set of concurrently running child agents. A
// Group starts children without waiting for them, hands back their results
// one at a time in completion order and cancels and drains whatever is left
// on shutdown.
package subagent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/logging"
)

// ErrClosed is returned by Spawn after Shutdown.
var ErrClosed = errors.New("subagent group is shut down")

// RunFunc is the body of a child agent. It must honour ctx cancellation.
type RunFunc func(ctx context.Context) (core.Transcript, error)

// Result is the outcome of one finished child.
type Result struct {
	Name       string
	Transcript core.Transcript
	Err        error
	Duration   time.Duration
}

// Options configure a Group.
type Options struct {
	Logger logging.Logger
}

// Group is the handle set of running children. Spawn and Next are
// serialised by one mutex; the children themselves run concurrently.
type Group struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	results chan Result
	pending int
	closed  bool
	logger  logging.Logger
}

// NewGroup creates an empty Group with its own cancellable base context.
func NewGroup(optFns ...func(o *Options)) *Group {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Group{
		ctx:     ctx,
		cancel:  cancel,
		results: make(chan Result),
		logger:  logging.OrNoOp(opts.Logger),
	}
}

// Spawn starts fn in its own goroutine and returns immediately.
func (g *Group) Spawn(name string, fn RunFunc) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrClosed
	}

	g.pending++

	g.logger.Info("subagent.spawn", "name", name, "pending", g.pending)

	go func() {
		start := time.Now()
		t, err := run(g.ctx, name, fn)
		g.results <- Result{Name: name, Transcript: t, Err: err, Duration: time.Since(start)}
	}()

	return nil
}

func run(ctx context.Context, name string, fn RunFunc) (t core.Transcript, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subagent %s panicked: %v", name, r)
		}
	}()
	return fn(ctx)
}

// Next waits for the first child to finish. It reports false when no child
// is pending. While waiting it holds the group lock, so concurrent Spawn
// calls block until a result arrives or ctx is done.
func (g *Group) Next(ctx context.Context) (Result, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == 0 {
		return Result{}, false, nil
	}

	select {
	case r := <-g.results:
		g.pending--
		g.logger.Info("subagent.done", "name", r.Name, "duration_ms", r.Duration.Milliseconds(), "failed", r.Err != nil, "pending", g.pending)
		return r, true, nil
	case <-ctx.Done():
		return Result{}, false, ctx.Err()
	}
}

// Len returns the number of children not yet collected.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Shutdown cancels every running child and waits for all of them to
// return. Their results are discarded; errors are logged at warn level.
// Shutdown is idempotent and Spawn fails afterwards.
func (g *Group) Shutdown() {
	g.cancel()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	g.closed = true

	for ; g.pending > 0; g.pending-- {
		r := <-g.results
		if r.Err != nil {
			g.logger.Warn("subagent.discard", "name", r.Name, "error", r.Err.Error())
			continue
		}
		g.logger.Debug("subagent.discard", "name", r.Name, "messages", len(r.Transcript))
	}
}
