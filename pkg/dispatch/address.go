package dispatch

import (
	"strings"
	"unicode"
)

// ValidationResult is an order-preserving partition of raw recipient input.
// Every input entry lands in exactly one of the two groups.
type ValidationResult struct {
	Valid   []string
	Invalid []string
}

// Validate splits recipients into well-formed and malformed addresses.
// Both groups keep the relative order of the input and are never nil.
func Validate(recipients []string) ValidationResult {
	res := ValidationResult{
		Valid:   make([]string, 0, len(recipients)),
		Invalid: make([]string, 0),
	}
	for _, addr := range recipients {
		if IsWellFormed(addr) {
			res.Valid = append(res.Valid, addr)
		} else {
			res.Invalid = append(res.Invalid, addr)
		}
	}
	return res
}

// IsWellFormed reports whether addr has the shape local@domain.tld:
// no whitespace, exactly one '@', a non-empty local part, and a domain
// with at least one '.' that has text on both sides.
func IsWellFormed(addr string) bool {
	if addr == "" || strings.IndexFunc(addr, unicode.IsSpace) >= 0 {
		return false
	}

	local, domain, ok := strings.Cut(addr, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}

	// The dot may not be the first or last character of the domain.
	for i := 1; i < len(domain)-1; i++ {
		if domain[i] == '.' {
			return true
		}
	}
	return false
}
