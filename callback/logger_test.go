package callback

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var (
	_ core.Callback = (*MessageLogger)(nil)
	_ core.Callback = Func(nil)
)

func seed() core.Transcript {
	return core.Transcript{
		core.SystemMessage{Text: "you are a researcher"},
		core.UserMessage{Text: "double 123"},
	}
}

func TestMessageLogger_Header(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewMessageLogger("orchestrator", &buf)
	require.NoError(t, err)
	assert.Equal(t, "## orchestrator\n\n", buf.String())
}

func TestMessageLogger_Incremental(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewMessageLogger("agent", &buf)
	require.NoError(t, err)

	b := testutil.NewTranscriptBuilder().System("you are a researcher").User("double 123")
	t1 := b.Build()
	t2 := b.Call("double", `123`).Build()
	t3 := b.Result("2 * 123 = 246").Build()

	for _, tr := range []core.Transcript{t1, t2, t3} {
		out, err := logger.Call(context.Background(), tr)
		require.NoError(t, err)
		assert.Equal(t, tr, out)
	}

	want := "## agent\n\n" +
		"### Step 0\n" +
		"#### System\nyou are a researcher\n\n" +
		"#### User\ndouble 123\n\n" +
		"---\n" +
		"### Step 1\n" +
		"#### Assistant\n\n- double (call_1)\n\t- `123`\n\n" +
		"---\n" +
		"### Step 2\n" +
		"#### Tool: double (call_1)\n2 * 123 = 246\n\n" +
		"---\n"

	assert.Equal(t, want, buf.String())
	assert.Equal(t, 3, logger.Steps())
	assert.NotContains(t, buf.String(), "HISTORY CLEARED")
}

func TestMessageLogger_UnchangedTranscriptWritesEmptyStep(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewMessageLogger("agent", &buf)
	require.NoError(t, err)

	_, err = logger.Call(context.Background(), seed())
	require.NoError(t, err)
	buf.Reset()

	_, err = logger.Call(context.Background(), seed())
	require.NoError(t, err)
	assert.Equal(t, "### Step 1\n---\n", buf.String())
}

func TestMessageLogger_Discontinuity(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewMessageLogger("agent", &buf)
	require.NoError(t, err)

	long := append(seed(),
		core.AssistantMessage{Text: "a"},
		core.AssistantMessage{Text: "b"},
		core.AssistantMessage{Text: "c"},
	)
	_, err = logger.Call(context.Background(), long)
	require.NoError(t, err)
	buf.Reset()

	compacted := append(seed(), core.AssistantMessage{Text: "summary"}, core.AssistantMessage{Text: "c"})
	_, err = logger.Call(context.Background(), compacted)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, historyCleared+"### Step 1\n"))
	assert.Contains(t, out, "#### System\nyou are a researcher\n\n")
	assert.Contains(t, out, "#### Assistant\nsummary\n")
}

func TestMessageLogger_PrefixChangeSameLength(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewMessageLogger("agent", &buf)
	require.NoError(t, err)

	_, err = logger.Call(context.Background(), append(seed(), core.UserMessage{Text: "x"}))
	require.NoError(t, err)
	buf.Reset()

	_, err = logger.Call(context.Background(), append(seed(), core.UserMessage{Text: "y"}, core.UserMessage{Text: "z"}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), historyCleared))
}

func TestMessageLogger_Flushes(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	logger, err := NewMessageLogger("agent", w)
	require.NoError(t, err)
	assert.Equal(t, "## agent\n\n", buf.String())

	_, err = logger.Call(context.Background(), seed())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "### Step 0\n")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestMessageLogger_WriteError(t *testing.T) {
	_, err := NewMessageLogger("agent", failingWriter{})
	assert.Error(t, err)
}

func TestHashMessage(t *testing.T) {
	assert.Equal(t, hashMessage(core.UserMessage{Text: "a"}), hashMessage(core.UserMessage{Text: "a"}))
	assert.NotEqual(t, hashMessage(core.UserMessage{Text: "a"}), hashMessage(core.SystemMessage{Text: "a"}))
	assert.NotEqual(t,
		hashMessage(core.ToolMessage{CallID: "1", Name: "ab", Result: "c"}),
		hashMessage(core.ToolMessage{CallID: "1", Name: "a", Result: "bc"}),
	)
}

func TestFunc(t *testing.T) {
	cb := Func(func(_ context.Context, t core.Transcript) (core.Transcript, error) {
		return append(t, core.UserMessage{Text: "added"}), nil
	})

	out, err := cb.Call(context.Background(), seed())
	require.NoError(t, err)
	assert.Len(t, out, 3)
}
