package validator

import (
	"errors"
	"strings"
)

// ValidationError describes one failed rule. Code is a stable identifier
// such as "required" for callers that localize messages themselves.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"-"`
	Message string `json:"message"`
}

// ValidationErrors is the error returned by Apply.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, ve := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ve.Field)
		b.WriteString(": ")
		b.WriteString(ve.Message)
	}
	return b.String()
}

// Has reports whether field failed at least one rule.
func (e ValidationErrors) Has(field string) bool {
	for _, ve := range e {
		if ve.Field == field {
			return true
		}
	}
	return false
}

// Fields groups messages by field; it is the shape of the "details" member
// of a 422 response.
func (e ValidationErrors) Fields() map[string][]string {
	out := make(map[string][]string, len(e))
	for _, ve := range e {
		out[ve.Field] = append(out[ve.Field], ve.Message)
	}
	return out
}

// IsValidationError reports whether err carries ValidationErrors.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// ExtractValidationErrors returns the ValidationErrors in err's chain, or nil.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
