// Package validator decodes JSON request bodies and checks them against
// go-playground/validator struct tags.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// MaxBodyBytes caps request bodies read by DecodeAndValidate.
const MaxBodyBytes = 64 << 10

var validate = newValidate()

// newValidate reports field errors by their JSON names so API clients see
// the keys they sent.
func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// FieldError is one failed constraint.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed validation. It matches
// apperrors.ErrInvalidInput.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Is(target error) bool {
	return target == apperrors.ErrInvalidInput
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	for i, fe := range e.Errors {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(fe.Field + " " + fe.Message)
	}
	return b.String()
}

// Fields returns the messages keyed by field name.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		fields[fe.Field] = fe.Message
	}
	return fields
}

// Validate checks s against its validate tags. Constraint failures are
// returned as *ValidationError.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := &ValidationError{Errors: make([]FieldError, len(ves))}
	for i, fe := range ves {
		out.Errors[i] = FieldError{Field: fe.Field(), Message: message(fe)}
	}
	return out
}

// messages holds the text per tag; %s receives the tag parameter.
var messages = map[string]string{
	"required": "is required",
	"gte":      "must be greater than or equal to %s",
	"gt":       "must be greater than %s",
	"lte":      "must be less than or equal to %s",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"oneof":    "must be one of: %s",
}

func message(fe validator.FieldError) string {
	tmpl, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	return tmpl
}

// DecodeAndValidate decodes a single JSON value from the request body into
// dst and validates it. Malformed bodies, trailing data and bodies larger
// than MaxBodyBytes yield an INVALID_INPUT error.
func DecodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apperrors.InvalidInput("decode request body: " + err.Error())
	}
	if dec.More() {
		return apperrors.InvalidInput("decode request body: unexpected data after JSON value")
	}
	return Validate(dst)
}
