// Package validation checks catalogue, manifest and config documents
// against their generated JSON schemas and struct validation rules.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/reglet-dev/stubhost/application/schema"
	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/ports"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator implements ports.DocumentValidator.
type Validator struct {
	validate *validator.Validate
	schemas  sync.Map // map[string]*jsonschema.Schema
}

var _ ports.DocumentValidator = (*Validator)(nil)

// NewValidator creates a Validator with the host's custom rules registered:
// the component_kind tag and process affinity checks.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("component_kind", func(fl validator.FieldLevel) bool {
		return entities.ComponentKind(fl.Field().String()).Valid()
	})
	v.RegisterStructValidation(validateStubSpec, entities.StubSpec{})
	v.RegisterStructValidation(validateStubGroup, entities.StubGroup{})
	v.RegisterStructValidation(validateComponentDecl, entities.ComponentDecl{})
	return &Validator{validate: v}
}

func validateStubSpec(sl validator.StructLevel) {
	checkAffinity(sl, sl.Current().Interface().(entities.StubSpec).Process)
}

func validateStubGroup(sl validator.StructLevel) {
	checkAffinity(sl, sl.Current().Interface().(entities.StubGroup).Process)
}

func validateComponentDecl(sl validator.StructLevel) {
	checkAffinity(sl, sl.Current().Interface().(entities.ComponentDecl).Process)
}

func checkAffinity(sl validator.StructLevel, process entities.ProcessAffinity) {
	if err := process.Validate(); err != nil {
		sl.ReportError(process, "Process", "process", "affinity", "")
	}
}

// ValidateStruct runs struct tag validation on s.
func (v *Validator) ValidateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// ValidateDocument checks a decoded document against the schema of kind.
// Schema violations are reported in the result; an error is returned only
// when the schema itself cannot be prepared.
func (v *Validator) ValidateDocument(kind string, doc map[string]any) (*entities.ValidationResult, error) {
	sch, err := v.compiled(kind)
	if err != nil {
		return nil, err
	}

	// Round-trip through JSON so values have the types the schema library expects.
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare validation object: %w", err)
	}
	var obj interface{}
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("failed to prepare validation object: %w", err)
	}

	result := &entities.ValidationResult{Valid: true}
	if err := sch.Validate(obj); err != nil {
		result.Valid = false
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			for _, leaf := range leaves(ve) {
				field := leaf.InstanceLocation
				if field == "" {
					field = "/"
				}
				result.Errors = append(result.Errors, entities.ValidationError{Field: field, Message: leaf.Message})
			}
		} else {
			result.Errors = append(result.Errors, entities.ValidationError{Field: kind, Message: err.Error()})
		}
	}
	return result, nil
}

func (v *Validator) compiled(kind string) (*jsonschema.Schema, error) {
	if s, ok := v.schemas.Load(kind); ok {
		return s.(*jsonschema.Schema), nil
	}

	data, err := schema.ForKind(kind)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	url := kind + ".json"
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource for %s: %w", kind, err)
	}
	sch, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("invalid schema for %s: %w", kind, err)
	}
	actual, _ := v.schemas.LoadOrStore(kind, sch)
	return actual.(*jsonschema.Schema), nil
}

// leaves flattens a validation error tree to its most specific causes.
func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}
