package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	MinUsernameLength = 5
	MaxUsernameLength = 64
	DateLayout        = "2006-01-02"
)

// ValidationError represents a validation error on a single field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their JSON name, which is what callers sent.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct runs the `validate` tags on s and returns one ValidationError
// per rejected field, or nil when s is valid.
func ValidateStruct(s any) []ValidationError {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Field: "body", Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s contains non alphanumeric characters - not allowed", fe.Field())
	case "email":
		return fmt.Sprintf("%s does not appear to be valid", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted as %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
