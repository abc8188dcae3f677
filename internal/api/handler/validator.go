package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taskifye/integration-hub/internal/core/domain"
)

// tagMessages renders a failed tag; %s is the JSON field name, %p the
// tag parameter.
var tagMessages = map[string]string{
	"required":  "%s is required",
	"email":     "%s must be a valid email",
	"e164":      "%s must be an E.164 phone number",
	"len":       "%s must be exactly %p characters",
	"min":       "%s must be at least %p",
	"max":       "%s must be at most %p",
	"oneof":     "%s must be one of: %p",
	"alphanum":  "%s must be alphanum",
	"lowercase": "%s must be lowercase",
}

// requestValidator is the echo.Validator of the API. Its failures are
// *domain.ValidationError, so StatusFor renders them as 400.
type requestValidator struct {
	v *validator.Validate
}

// NewValidator names fields by their JSON tag in messages.
func NewValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}

	msgs := make([]string, len(fields))
	for n, fe := range fields {
		msgs[n] = describe(fe)
	}
	return domain.Invalid(strings.Join(msgs, "; "))
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func describe(fe validator.FieldError) string {
	tmpl, ok := tagMessages[fe.Tag()]
	if !ok {
		tmpl = "%s failed validation (" + fe.Tag() + ")"
	}
	return strings.NewReplacer("%s", fe.Field(), "%p", fe.Param()).Replace(tmpl)
}
