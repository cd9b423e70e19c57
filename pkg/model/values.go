package model

import (
	"fmt"
	"strings"
)

// IsEmpty reports whether value counts as "no answer": nil, the empty string,
// or a zero-length list.
func IsEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case []string:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	default:
		return false
	}
}

// IsList reports whether value is a multi-value answer.
func IsList(value any) bool {
	switch value.(type) {
	case []string, []any:
		return true
	default:
		return false
	}
}

// Text coerces value to its textual form. Lists are joined with commas, nil
// becomes the empty string and other scalars are formatted with fmt.
func Text(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []byte:
		return string(typed)
	case []string:
		return strings.Join(typed, ",")
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, Text(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(value)
	}
}

// Selections returns the non-empty entries of a multi-value answer. A single
// non-empty scalar counts as one selection.
func Selections(value any) []string {
	switch typed := value.(type) {
	case nil:
		return nil
	case []string:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if item != "" {
				out = append(out, item)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if text := Text(item); text != "" {
				out = append(out, text)
			}
		}
		return out
	default:
		if text := Text(value); text != "" {
			return []string{text}
		}
		return nil
	}
}
