package callback

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"strings"
	"sync"

	"github.com/hupe1980/researchmesh/core"
)

const historyCleared = "## [HISTORY CLEARED]\n\n"

type flusher interface {
	Flush() error
}

// MessageLogger appends each iteration's new messages to w as a markdown
// step section. It remembers a fingerprint of every message it has seen; as
// long as the incoming transcript extends the previous one only the new
// suffix is written. When the transcript shrank or an earlier message
// changed (e.g. after compaction) a history-cleared marker is written
// followed by the full transcript.
//
// MessageLogger never modifies the transcript.
type MessageLogger struct {
	mu     sync.Mutex
	w      io.Writer
	hashes []uint64
	step   int
}

// NewMessageLogger writes the "## <name>" header to w and returns the
// logger.
func NewMessageLogger(name string, w io.Writer) (*MessageLogger, error) {
	if _, err := fmt.Fprintf(w, "## %s\n\n", name); err != nil {
		return nil, fmt.Errorf("write log header: %w", err)
	}

	if err := flush(w); err != nil {
		return nil, err
	}

	return &MessageLogger{w: w}, nil
}

// Call implements core.Callback.
func (l *MessageLogger) Call(_ context.Context, t core.Transcript) (core.Transcript, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	hashes := make([]uint64, len(t))
	for i, msg := range t {
		hashes[i] = hashMessage(msg)
	}

	var b strings.Builder
	if l.extends(hashes) {
		writeStep(&b, l.step, t[len(l.hashes):])
	} else {
		b.WriteString(historyCleared)
		writeStep(&b, l.step, t)
	}

	if _, err := io.WriteString(l.w, b.String()); err != nil {
		return nil, fmt.Errorf("write transcript log: %w", err)
	}

	if err := flush(l.w); err != nil {
		return nil, err
	}

	l.step++
	l.hashes = hashes

	return t, nil
}

// Steps returns the number of step sections written so far.
func (l *MessageLogger) Steps() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.step
}

func (l *MessageLogger) extends(hashes []uint64) bool {
	if len(hashes) < len(l.hashes) {
		return false
	}
	for i, h := range l.hashes {
		if hashes[i] != h {
			return false
		}
	}
	return true
}

func flush(w io.Writer) error {
	f, ok := w.(flusher)
	if !ok {
		return nil
	}
	if err := f.Flush(); err != nil {
		return fmt.Errorf("flush transcript log: %w", err)
	}
	return nil
}

// hashMessage fingerprints the role and every content field of msg.
func hashMessage(msg core.Message) uint64 {
	h := fnv.New64a()

	write := func(s string) {
		_, _ = io.WriteString(h, s)
		_, _ = h.Write([]byte{0})
	}

	write(string(msg.Role()))

	switch m := msg.(type) {
	case core.SystemMessage:
		write(m.Text)
	case core.UserMessage:
		write(m.Text)
	case core.AssistantMessage:
		write(m.Text)
		for _, c := range m.ToolCalls {
			write(c.ID)
			write(c.Name)
			write(string(c.Args))
		}
	case core.ToolMessage:
		write(m.CallID)
		write(m.Name)
		write(m.Result)
	}

	return h.Sum64()
}

func writeStep(b *strings.Builder, step int, msgs core.Transcript) {
	fmt.Fprintf(b, "### Step %d\n", step)
	for _, msg := range msgs {
		writeMessage(b, msg)
	}
	b.WriteString("---\n")
}

func writeMessage(b *strings.Builder, msg core.Message) {
	switch m := msg.(type) {
	case core.SystemMessage:
		fmt.Fprintf(b, "#### System\n%s\n\n", m.Text)
	case core.UserMessage:
		fmt.Fprintf(b, "#### User\n%s\n\n", m.Text)
	case core.AssistantMessage:
		fmt.Fprintf(b, "#### Assistant\n%s\n", m.Text)
		for _, c := range m.ToolCalls {
			fmt.Fprintf(b, "- %s (%s)\n\t- `%s`\n", c.Name, c.ID, c.Args)
		}
		b.WriteString("\n")
	case core.ToolMessage:
		fmt.Fprintf(b, "#### Tool: %s (%s)\n%s\n\n", m.Name, m.CallID, m.Result)
	}
}
