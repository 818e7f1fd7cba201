// Package validation performs presence checks on request and service inputs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"socialhub/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates s against its `validate` tags and returns a
// models.AppError with code VALIDATION_ERROR describing the fields that failed.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return models.NewInternalError(err)
	}

	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		names = append(names, fe.Field())
	}
	verb := "is"
	if len(names) > 1 {
		verb = "are"
	}
	return models.NewValidationError(fmt.Sprintf("%s %s required", strings.Join(names, " and "), verb))
}
