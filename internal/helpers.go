package internal

import "strconv"

// ContextValue returns the value stored under key with Context.Set, or the
// zero T when it is missing or of another type.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// Query returns the query parameter name converted to T, or the zero T when
// it is missing or does not parse.
func Query[T string | int | bool](c Context, name string) T {
	var zero T
	return QueryDefault(c, name, zero)
}

// QueryDefault is Query with a fallback for missing or unparsable values.
func QueryDefault[T string | int | bool](c Context, name string, fallback T) T {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}

	var out any
	switch any(fallback).(type) {
	case string:
		out = raw
	case int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fallback
		}
		out = n
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fallback
		}
		out = b
	}
	if v, ok := out.(T); ok {
		return v
	}
	return fallback
}
