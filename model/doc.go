// Package model defines the provider‑agnostic completion contract the agent
// loop drives.
//
// Core goals:
//   - One blocking Complete call per model turn (no streaming)
//   - Normalized tool advertisement and tool call shapes (core.ToolDefinition, core.ToolCall)
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (model/openai, model/anthropic) implement the Model interface so
// agents stay decoupled from vendor SDKs. Implementations must be safe for
// concurrent use: one client is shared by an orchestrator and all of its
// sub-agents.
package model
