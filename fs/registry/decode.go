package registry

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/candidtim/unifs/errors"
)

var validate = newValidator()

// newValidator reports fields under their parameter names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode decodes params into out, a pointer to a backend config struct
// tagged with `mapstructure` and, optionally, `validate` tags.
//
// Fields already set in out act as defaults. Values are weakly typed so that
// "true" or "1" from a hand-written config still land in a bool. Unknown
// parameters and failed validations are reported as errors.CodeInvalidConfig.
//
// Example:
//
//	cfg := Config{Root: "/"}
//	if err := registry.Decode(params, &cfg); err != nil {
//	    return nil, err
//	}
func Decode(params Params, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create parameter decoder")
	}

	if err := decoder.Decode(map[string]any(params)); err != nil {
		return errors.Wrapf(err, errors.CodeInvalidConfig, "invalid file system parameters: %v", err)
	}

	if err := validate.Struct(out); err != nil {
		return errors.Wrap(err, errors.CodeInvalidConfig, formatValidationError(err))
	}
	return nil
}

// formatValidationError renders validator errors in terms of parameter
// names.
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Sprintf("invalid file system parameters: %v", err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		name := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("'%s' is required", name))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("'%s' must be one of [%s]", name, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("'%s' failed validation '%s'", name, fe.Tag()))
		}
	}
	return "invalid file system parameters: " + strings.Join(msgs, "; ")
}
