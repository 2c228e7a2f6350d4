package memory

import (
	"context"

	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/tool"
)

// Tool names exposed to the model.
const (
	ListKeysToolName = "memory_list_keys"
	GetKeyToolName   = "memory_get_key"
	SetKeyToolName   = "memory_set_key"
)

// GetKeyArgs are the arguments of memory_get_key.
type GetKeyArgs struct {
	Key string `json:"key" jsonschema_description:"the key to look up"`
}

// SetKeyArgs are the arguments of memory_set_key.
type SetKeyArgs struct {
	Key   string `json:"key" jsonschema_description:"the key to store the value under"`
	Value string `json:"value" jsonschema_description:"the value to store"`
}

// FunctionalTools returns the list, get and set tools bound to this store.
func (m *InMemoryStore) FunctionalTools() []core.FunctionalTool {
	return []core.FunctionalTool{
		tool.NewFunctionTool(ListKeysToolName, "list the keys that are available in memory",
			func(context.Context, tool.NoArgs) (string, error) {
				return m.List(), nil
			},
		),
		tool.NewFunctionTool(GetKeyToolName, "get the value associated with the given key in memory",
			func(_ context.Context, args GetKeyArgs) (string, error) {
				return m.Describe(args.Key), nil
			},
		),
		tool.NewFunctionTool(SetKeyToolName, "set the value associated with the given key in memory",
			func(_ context.Context, args SetKeyArgs) (string, error) {
				return m.Insert(args.Key, args.Value), nil
			},
		),
	}
}

// Tools returns the memory tools adapted for agent registration.
func (m *InMemoryStore) Tools() []core.Tool {
	return tool.FromFunctionals(m.FunctionalTools()...)
}
