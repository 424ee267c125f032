package ports

import "github.com/reglet-dev/stubhost/domain/entities"

// DocumentValidator validates decoded documents and typed values.
type DocumentValidator interface {
	// ValidateDocument checks a generic document against the schema of the named type.
	ValidateDocument(kind string, doc map[string]any) (*entities.ValidationResult, error)

	// ValidateStruct runs struct tag validation on v.
	ValidateStruct(v any) error
}
