// Package sanitize strips markup from respondent input before it is stored or
// echoed back for display. The submission gate sanitizes values before the
// rule engine judges them, so receipts hold exactly what was evaluated.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formrules/pkg/model"
)

// Sanitizer cleans a single text value.
type Sanitizer interface {
	Sanitize(string) string
}

// SanitizerFunc adapts a function into a Sanitizer.
type SanitizerFunc func(string) string

// Sanitize calls the underlying function.
func (fn SanitizerFunc) Sanitize(value string) string {
	return fn(value)
}

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

// maxPasses bounds the decode/sanitize loop in Strict.
const maxPasses = 8

// Strict returns a Sanitizer that removes every HTML element and attribute
// while keeping the text content. Entity-encoded markup is decoded and
// sanitized again until the text stops changing, so "&lt;b&gt;" cannot turn
// into a live tag while plain text such as "Tom & Jerry" survives unchanged.
// Input that does not settle within maxPasses is returned entity-encoded.
func Strict() Sanitizer {
	return SanitizerFunc(func(value string) string {
		if value == "" {
			return ""
		}
		policy := strictSanitizer()
		current := value
		for pass := 0; pass < maxPasses; pass++ {
			next := strings.TrimSpace(html.UnescapeString(policy.Sanitize(current)))
			if next == current {
				return next
			}
			current = next
		}
		return strings.TrimSpace(policy.Sanitize(current))
	})
}

func strictSanitizer() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// Values returns a copy of data with every string (including list entries)
// passed through s. Non-text values are copied unchanged.
func Values(s Sanitizer, data model.FormData) model.FormData {
	if data == nil {
		return nil
	}
	if s == nil {
		return data.Clone()
	}
	out := make(model.FormData, len(data))
	for key, value := range data {
		out[key] = sanitizeValue(s, value)
	}
	return out
}

func sanitizeValue(s Sanitizer, value any) any {
	switch typed := value.(type) {
	case string:
		return s.Sanitize(typed)
	case []string:
		clean := make([]string, len(typed))
		for idx, item := range typed {
			clean[idx] = s.Sanitize(item)
		}
		return clean
	case []any:
		clean := make([]any, len(typed))
		for idx, item := range typed {
			clean[idx] = sanitizeValue(s, item)
		}
		return clean
	default:
		return value
	}
}
