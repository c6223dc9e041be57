package middlewares

import "strings"

// Origins matches request origins against configured patterns.
//
// A pattern is either "*", an exact origin such as "https://app.example.com",
// or a subdomain wildcard such as "https://*.example.com", which matches any
// subdomain but not the bare domain. Matching ignores case and a trailing slash.
type Origins struct {
	any      bool
	exact    map[string]struct{}
	suffixes []wildcard
}

type wildcard struct {
	scheme string
	suffix string
}

// NewOrigins compiles patterns. Empty patterns are ignored.
func NewOrigins(patterns ...string) Origins {
	o := Origins{exact: make(map[string]struct{}, len(patterns))}
	for _, p := range patterns {
		p = normalizeOrigin(p)
		switch {
		case p == "":
		case p == "*":
			o.any = true
		case strings.Contains(p, "://*."):
			scheme, host, _ := strings.Cut(p, "://*")
			o.suffixes = append(o.suffixes, wildcard{scheme: scheme + "://", suffix: host})
		default:
			o.exact[p] = struct{}{}
		}
	}
	return o
}

// Any reports whether every origin is allowed.
func (o Origins) Any() bool { return o.any }

// Empty reports whether no pattern was configured.
func (o Origins) Empty() bool {
	return !o.any && len(o.exact) == 0 && len(o.suffixes) == 0
}

// Allowed reports whether origin matches one of the patterns.
func (o Origins) Allowed(origin string) bool {
	if o.any {
		return true
	}
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	if _, ok := o.exact[origin]; ok {
		return true
	}
	for _, w := range o.suffixes {
		rest, ok := strings.CutPrefix(origin, w.scheme)
		if ok && len(rest) > len(w.suffix) && strings.HasSuffix(rest, w.suffix) {
			return true
		}
	}
	return false
}

func normalizeOrigin(s string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "/")
}
