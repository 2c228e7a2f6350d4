// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing transcripts and tool calls. They are not
// intended for production usage.
package testutil
