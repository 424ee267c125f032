package stubhost

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
)

// validate is a package-level singleton; building a validator is expensive.
var validate = newValidator()

// newValidator reports fields by their document name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateConfig checks host settings against their validation tags.
// The first failing field is reported as a ConfigError.
func ValidateConfig(cfg entities.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &domerrors.ConfigError{
			Field: fe.Field(),
			Err:   fmt.Errorf("failed on '%s' rule (value %v)", fe.Tag(), fe.Value()),
		}
	}
	return &domerrors.ConfigError{Err: err}
}
