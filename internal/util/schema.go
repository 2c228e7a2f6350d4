package util

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// CreateSchema reflects a JSON schema for the argument type t and returns it
// as a plain map suitable for tool advertisements. The result is always an
// inline object schema with a "properties" entry; meta keys ($schema, $id)
// are stripped because model backends reject them.
func CreateSchema(t reflect.Type) (map[string]any, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tool arguments must be a struct, got %s", t.Kind())
	}

	r := &jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}

	raw, err := json.Marshal(r.ReflectFromType(t))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	schema := map[string]any{}
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	delete(schema, "$schema")
	delete(schema, "$id")
	delete(schema, "$defs")

	schema["type"] = "object"
	if _, ok := schema["properties"]; !ok {
		schema["properties"] = map[string]any{}
	}

	return schema, nil
}

// SchemaFor is the generic form of CreateSchema.
func SchemaFor[T any]() (map[string]any, error) {
	return CreateSchema(reflect.TypeOf((*T)(nil)).Elem())
}
