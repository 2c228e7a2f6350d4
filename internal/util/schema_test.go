package util

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleArgs struct {
	Key   string `json:"key" jsonschema_description:"memory key"`
	Value string `json:"value,omitempty"`
}

func TestCreateSchema(t *testing.T) {
	schema, err := SchemaFor[sampleArgs]()
	require.NoError(t, err)

	assert.Equal(t, "object", schema["type"])
	assert.NotContains(t, schema, "$schema")
	assert.NotContains(t, schema, "$id")

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "key")
	assert.Contains(t, props, "value")

	key := props["key"].(map[string]any)
	assert.Equal(t, "string", key["type"])
	assert.Equal(t, "memory key", key["description"])

	assert.ElementsMatch(t, []any{"key"}, schema["required"])
}

func TestCreateSchema_EmptyStruct(t *testing.T) {
	schema, err := SchemaFor[struct{}]()
	require.NoError(t, err)

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, map[string]any{}, schema["properties"])
}

func TestCreateSchema_AnonymousStruct(t *testing.T) {
	schema, err := SchemaFor[struct {
		Task string `json:"task"`
	}]()
	require.NoError(t, err)

	assert.NotContains(t, schema, "$defs")
	assert.Contains(t, schema["properties"], "task")
	assert.ElementsMatch(t, []any{"task"}, schema["required"])
}

func TestCreateSchema_Pointer(t *testing.T) {
	schema, err := CreateSchema(reflect.TypeOf(&sampleArgs{}))
	require.NoError(t, err)
	assert.Contains(t, schema["properties"], "key")
}

func TestCreateSchema_NonStruct(t *testing.T) {
	_, err := SchemaFor[string]()
	assert.Error(t, err)
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("keep the last {{.KeepLast}} messages", map[string]any{"KeepLast": 2})
	require.NoError(t, err)
	assert.Equal(t, "keep the last 2 messages", out)

	out, err = RenderTemplate("plain <text> & more", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain <text> & more", out)

	_, err = RenderTemplate("{{.Missing}}", map[string]any{})
	assert.Error(t, err)
}
