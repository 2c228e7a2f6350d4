package research

import (
	_ "embed"
)

var (
	//go:embed prompts/orchestrator.md
	orchestratorPrompt string

	//go:embed prompts/subagent.md
	subagentPrompt string
)
