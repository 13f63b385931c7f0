package core

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	if len(err.Fields) == 0 {
		return err.Err.Error()
	}
	parts := make([]string, 0, len(err.Fields))
	for _, fld := range err.Fields {
		parts = append(parts, fld.Field+": "+fld.Error)
	}
	return err.Err.Error() + ": " + strings.Join(parts, "; ")
}

// TranslateValidationError converts raw validator errors into a
// ValidationError carrying one translated message per offending field
// (field names follow the JSON tags). Non-validator errors pass through.
func TranslateValidationError(err error) error {
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		flds = append(flds, FieldError{Field: fe.Field(), Error: fe.Translate(Translator)})
	}
	return NewValidationError(errors.New("invalid input"), flds...)
}
