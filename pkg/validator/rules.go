package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Rule is a checked condition and the error reported when it does not hold.
type Rule struct {
	Valid bool
	Error ValidationError
}

// Apply collects the errors of every failed rule, in order.
// It returns nil when all rules hold.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, r := range rules {
		if !r.Valid {
			errs = append(errs, r.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func rule(valid bool, field, code, message string) Rule {
	return Rule{Valid: valid, Error: ValidationError{Field: field, Code: code, Message: message}}
}

// Check builds a rule from an arbitrary condition.
func Check(field string, valid bool, code, message string) Rule {
	return rule(valid, field, code, message)
}

// RequiredString fails for empty or whitespace-only values.
func RequiredString(field, v string) Rule {
	return rule(strings.TrimSpace(v) != "", field, "required", "is required")
}

// MaxLenString counts runes.
func MaxLenString(field, v string, n int) Rule {
	return rule(utf8.RuneCountInString(v) <= n, field, "max_length",
		fmt.Sprintf("must not exceed %d characters", n))
}

// RequiredSlice fails for nil and empty slices.
func RequiredSlice[T any](field string, v []T) Rule {
	return rule(len(v) > 0, field, "required", "is required")
}

// PresentSlice fails only for a nil slice; an empty one is accepted, which is
// how a JSON body distinguishes `"to": []` from a missing key.
func PresentSlice[T any](field string, v []T) Rule {
	return rule(v != nil, field, "required", "is required")
}

// MaxLenSlice bounds the number of items.
func MaxLenSlice[T any](field string, v []T, n int) Rule {
	return rule(len(v) <= n, field, "max_items",
		fmt.Sprintf("must not contain more than %d items", n))
}
