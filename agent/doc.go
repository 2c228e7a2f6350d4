// Package agent implements the tool-augmented agent loop.
//
// An Agent owns a transcript seeded from a system prompt, a user prompt and
// optional history. Each iteration it:
//
//  1. Evaluates the stop condition and returns once it holds
//  2. Asks the model for the next step, advertising every registered tool
//  3. Appends the assistant reply and dispatches its tool calls in order
//  4. Runs the callback chain in registration order
//
// Tools and callbacks receive the transcript and return the one the loop
// continues with, so they may append, drop or rewrite messages. Any error
// aborts the run. There is no built-in iteration limit: bound a run with a
// stop condition (see MaxTurns) or by cancelling its context.
package agent
