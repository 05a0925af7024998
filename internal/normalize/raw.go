// Package normalize converts untrusted model output into validated records.
// Every function here is total: it never fails and never returns nil slices.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"cvwizard/internal/types"
)

func object(v any) types.Raw {
	switch m := v.(type) {
	case map[string]any:
		return m
	case types.Raw:
		return m
	}
	return types.Raw{}
}

// str returns v as a string. Numbers are formatted, anything else is "".
func str(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func strOr(v any, def string) string {
	if s := str(v); s != "" {
		return s
	}
	return def
}

// stringList returns the string elements of an array value; non-arrays yield an
// empty, non-nil slice.
func stringList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s := strings.TrimSpace(str(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func list(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

func number(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return def
}

func boolean(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	}
	return false
}

func syntheticID(kind string, index int) string {
	return fmt.Sprintf("%s-%d", kind, index)
}
