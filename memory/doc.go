// Package memory provides the shared key/value scratchpad agents use to park
// findings outside the transcript, so they survive history compaction. The
// store is exposed to the model through three tools: memory_list_keys,
// memory_get_key and memory_set_key.
package memory
