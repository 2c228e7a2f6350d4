package tool

import (
	"context"
	"fmt"

	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/internal/util"
	"github.com/hupe1980/researchmesh/logging"
	"github.com/hupe1980/researchmesh/model"
)

// SummarizeHistoryName is the tool name of the compaction tool.
const SummarizeHistoryName = "summarize_history"

// DefaultSummarizeThreshold is the transcript word count above which the
// callback form compacts.
const DefaultSummarizeThreshold = 5000

const summarizeAck = "conversation history summarized"

const summarizeDescription = "This tool will take in the chat history, and generate a concise summary that preserves the key components. " +
	"This prevents the conversational history from becoming too long, and makes it easier to find the relevant information in the history. " +
	"Note that the last {{.KeepLast}} messages will not be changed, only the preceding messages will be summarized. " +
	"Remember that you should also use the memory tool to store key information for retrieval later. " +
	"You must use this tool to prevent the history from becoming too long. " +
	"It will automatically be invoked if the chat history becomes too long."

const summarizePrompt = `In order to keep the conversational history from becoming too long, you must generate a summary of the current chat history.
Instructions:
- The summary must compress the information, try to be as succinct as possible. The final summary should not be more than 1000 words in length.
- Preserve key information from the conversational history. Remember that information stored using the memory tool can still be retrieved later.
- Remember that you are a researcher, make sure to preserve any key findings or information that you will need to complete the task.`

// SummarizeHistoryOptions configure SummarizeHistory.
type SummarizeHistoryOptions struct {
	// Threshold is the word count above which the callback form compacts.
	Threshold int
	Logger    logging.Logger
}

// SummarizeHistory compacts a transcript by replacing everything between
// the two seed messages and the last keepLast messages with a model written
// summary. It is usable both as a tool the model calls on demand and as a
// callback that triggers above a size threshold.
type SummarizeHistory struct {
	model    model.Model
	keepLast int
	opts     SummarizeHistoryOptions
}

// NewSummarizeHistory creates a SummarizeHistory that preserves the last
// keepLast messages verbatim.
func NewSummarizeHistory(m model.Model, keepLast int, optFns ...func(o *SummarizeHistoryOptions)) *SummarizeHistory {
	opts := SummarizeHistoryOptions{Threshold: DefaultSummarizeThreshold}
	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	if keepLast < 0 {
		keepLast = 0
	}

	return &SummarizeHistory{model: m, keepLast: keepLast, opts: opts}
}

// KeepLast returns how many trailing messages survive compaction unchanged.
func (s *SummarizeHistory) KeepLast() int { return s.keepLast }

// Summarize compacts t. The first two messages are assumed to be the system
// and user prompt carrying the task and are kept. Transcripts shorter than
// 2+keepLast are returned unchanged; otherwise the result has exactly
// 3+keepLast messages.
func (s *SummarizeHistory) Summarize(ctx context.Context, t core.Transcript) (core.Transcript, error) {
	if len(t) < 2+s.keepLast {
		return t, nil
	}

	split := len(t) - s.keepLast
	head := t[:split].Clone()
	tail := t[split:].Clone()

	resp, err := s.model.Complete(ctx, model.Request{
		Messages: append(head, core.UserMessage{Text: summarizePrompt}),
	})
	if err != nil {
		return nil, fmt.Errorf("summarize history: %w", err)
	}

	out := make(core.Transcript, 0, 3+s.keepLast)
	out = append(out, head[:2]...)
	out = append(out, core.AssistantMessage{Text: resp.Content})
	out = append(out, tail...)

	s.opts.Logger.Info("summarize.compact", "before", len(t), "after", len(out), "words_before", t.Tokens(), "words_after", out.Tokens())

	return out, nil
}

// Definition implements core.Tool.
func (s *SummarizeHistory) Definition() (core.ToolDefinition, error) {
	desc, err := util.RenderTemplate(summarizeDescription, map[string]any{"KeepLast": s.keepLast})
	if err != nil {
		return core.ToolDefinition{}, err
	}
	return NewDefinition[NoArgs](SummarizeHistoryName, desc)
}

// Invoke implements core.Tool. It compacts unconditionally and answers the
// triggering call so the transcript holds no unanswered tool calls.
func (s *SummarizeHistory) Invoke(ctx context.Context, call core.ToolCall, t core.Transcript) (core.Transcript, error) {
	out, err := s.Summarize(ctx, t)
	if err != nil {
		return nil, err
	}

	return append(out, core.ToolMessage{CallID: call.ID, Name: SummarizeHistoryName, Result: summarizeAck}), nil
}

// Call implements core.Callback. It compacts only when the transcript word
// count exceeds the threshold.
func (s *SummarizeHistory) Call(ctx context.Context, t core.Transcript) (core.Transcript, error) {
	if t.Tokens() <= s.opts.Threshold {
		return t, nil
	}
	return s.Summarize(ctx, t)
}
