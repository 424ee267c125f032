// Package schema generates JSON schemas for the host's documents.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
)

// Document kinds with a generated schema.
const (
	KindCatalogue = "catalogue"
	KindManifest  = "manifest"
	KindConfig    = "config"
	KindSnapshot  = "snapshot"
)

var documents = map[string]any{
	KindCatalogue: &entities.StubCatalogue{},
	KindManifest:  &entities.PluginManifest{},
	KindConfig:    &entities.Config{},
	KindSnapshot:  &entities.BindingSnapshot{},
}

// Kinds returns the document kinds that have a schema, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(documents))
	for k := range documents {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// mapTextTypes describes types that travel as strings in documents.
func mapTextTypes(t reflect.Type) *jsonschema.Schema {
	switch t {
	case reflect.TypeOf(entities.ProcessAffinity{}):
		return &jsonschema.Schema{
			Type:        "string",
			Pattern:     `^(|auto(:p[0-9]+)?|ui|persistent|named:.+)$`,
			Description: "Process affinity: auto, auto:pN, ui, persistent or named:<process>",
		}
	case reflect.TypeOf(entities.LaunchModeClass{}):
		return &jsonschema.Schema{
			Type:        "string",
			Pattern:     `^(|(standard|singleTop|singleTask|singleInstance)(\+(translucent|notitle))?)$`,
			Description: "Launch mode with optional theme, e.g. singleTask+translucent",
		}
	case reflect.TypeOf(entities.ComponentKind("")):
		enum := make([]any, 0, len(entities.ComponentKinds))
		for _, k := range entities.ComponentKinds {
			enum = append(enum, string(k))
		}
		return &jsonschema.Schema{Type: "string", Enum: enum}
	}
	return nil
}

// GenerateSchema creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
		Mapper:         mapTextTypes,
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, &domerrors.SchemaError{Type: fmt.Sprintf("%T", v), Err: err}
	}
	return jsonBytes, nil
}

// ForKind returns the schema of a document kind.
func ForKind(kind string) ([]byte, error) {
	v, ok := documents[kind]
	if !ok {
		return nil, &domerrors.SchemaError{Type: kind, Err: fmt.Errorf("unknown document kind")}
	}
	return GenerateSchema(v)
}
