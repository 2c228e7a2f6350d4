// Package core provides the foundational domain types and capability
// interfaces used by researchmesh. It defines:
//
//   - Messages (a closed set of system, user, assistant and tool variants)
//   - Transcripts (ordered message history handed between loop, tools and callbacks)
//   - Tools and FunctionalTools (model-invocable capabilities)
//   - Callbacks and StopConditions (per-iteration transcript hooks and loop exit)
//   - The error taxonomy reported by agents and tools
//
// Implementation concerns (model backends, concrete tools, the agent loop)
// live in sibling packages and depend on these small interfaces.
package core
