package agent

import "github.com/hupe1980/researchmesh/core"

// ToolCalled holds once the last message is the result of the named tool.
func ToolCalled(name string) core.StopCondition {
	return core.StopFunc(func(t core.Transcript) bool {
		tm, ok := t.Last().(core.ToolMessage)
		return ok && tm.Name == name
	})
}

// AssistantSaid holds once the last message is an assistant reply whose
// text equals text.
func AssistantSaid(text string) core.StopCondition {
	return core.StopFunc(func(t core.Transcript) bool {
		am, ok := t.Last().(core.AssistantMessage)
		return ok && am.Text == text
	})
}

// Any holds when at least one of conds holds.
func Any(conds ...core.StopCondition) core.StopCondition {
	return core.StopFunc(func(t core.Transcript) bool {
		for _, c := range conds {
			if c.Done(t) {
				return true
			}
		}
		return false
	})
}

// MaxTurns holds once the transcript carries n assistant messages. Combine
// it with Any to bound a run. Compaction folds earlier replies into one
// summary, so the count refers to the current transcript.
func MaxTurns(n int) core.StopCondition {
	return core.StopFunc(func(t core.Transcript) bool {
		turns := 0
		for _, msg := range t {
			if _, ok := msg.(core.AssistantMessage); ok {
				turns++
			}
		}
		return turns >= n
	})
}
