package normalize

import (
	"strconv"
	"strings"
)

// scalarString flattens a loosely-typed JSON value into the record's
// canonical string shape. Lists are joined with ", " (the backend sometimes
// returns prior_treatments or plan as an array); numbers are rendered without
// a trailing exponent; anything else collapses to "".
func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := scalarString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(val, ", ")
	}
	return ""
}

// stringSlice coerces a JSON value into a list of non-empty strings.
// A bare string becomes a one-element list.
func stringSlice(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		return []string{s}
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}
