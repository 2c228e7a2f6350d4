package subagent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/researchmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures warn entries.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprint(append([]any{msg}, args...)...))
}
func (l *recordingLogger) Error(string, ...any) {}

func finishWith(text string) RunFunc {
	return func(context.Context) (core.Transcript, error) {
		return core.Transcript{core.ToolMessage{Name: "complete_task", Result: text}}, nil
	}
}

func TestGroup_NextEmpty(t *testing.T) {
	g := NewGroup()
	defer g.Shutdown()

	_, ok, err := g.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGroup_SpawnDoesNotBlock(t *testing.T) {
	g := NewGroup()
	defer g.Shutdown()

	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		err := g.Spawn("subagent_0", func(ctx context.Context) (core.Transcript, error) {
			<-release
			return nil, nil
		})
		assert.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("spawn blocked on the child")
	}

	assert.Equal(t, 1, g.Len())
	close(release)

	r, ok, err := g.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "subagent_0", r.Name)
	assert.Equal(t, 0, g.Len())
}

func TestGroup_CompletionOrder(t *testing.T) {
	g := NewGroup()
	defer g.Shutdown()

	slow := make(chan struct{})

	require.NoError(t, g.Spawn("slow", func(context.Context) (core.Transcript, error) {
		<-slow
		return nil, nil
	}))
	require.NoError(t, g.Spawn("fast", finishWith("quick")))

	r, ok, err := g.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fast", r.Name)
	assert.Equal(t, "quick", r.Transcript.Last().(core.ToolMessage).Result)

	close(slow)

	r, ok, err = g.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "slow", r.Name)

	_, ok, err = g.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGroup_ChildError(t *testing.T) {
	g := NewGroup()
	defer g.Shutdown()

	boom := errors.New("boom")
	require.NoError(t, g.Spawn("failing", func(context.Context) (core.Transcript, error) { return nil, boom }))

	r, ok, err := g.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.ErrorIs(t, r.Err, boom)
}

func TestGroup_ChildPanic(t *testing.T) {
	g := NewGroup()
	defer g.Shutdown()

	require.NoError(t, g.Spawn("panicky", func(context.Context) (core.Transcript, error) { panic("oops") }))

	r, ok, err := g.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.ErrorContains(t, r.Err, "panicked: oops")
}

func TestGroup_NextContextDone(t *testing.T) {
	g := NewGroup()
	defer g.Shutdown()

	require.NoError(t, g.Spawn("blocked", func(ctx context.Context) (core.Transcript, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok, err := g.Next(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, g.Len())
}

func TestGroup_ShutdownDrains(t *testing.T) {
	logger := &recordingLogger{}
	g := NewGroup(func(o *Options) { o.Logger = logger })

	for i := 0; i < 3; i++ {
		require.NoError(t, g.Spawn(fmt.Sprintf("subagent_%d", i), func(ctx context.Context) (core.Transcript, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}))
	}
	require.NoError(t, g.Spawn("finished", finishWith("ok")))

	g.Shutdown()

	assert.Equal(t, 0, g.Len())
	logger.mu.Lock()
	assert.Len(t, logger.warns, 3)
	logger.mu.Unlock()

	g.Shutdown()

	assert.ErrorIs(t, g.Spawn("late", finishWith("x")), ErrClosed)

	_, ok, err := g.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
