package submission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formrules/pkg/engine"
	"github.com/goliatone/go-formrules/pkg/model"
)

// ErrRejected is wrapped by every RejectedError.
var ErrRejected = errors.New("submission: rejected")

const (
	MessageRequired       = "This field is required."
	MessageInvalidEmail   = "Enter a valid email address."
	MessageNoSelection    = "Select at least one option."
	MessageInvalid        = "This value is not valid."
	MessageGateConditions = "The form is not ready to be submitted."
)

// RejectedError explains why a submission was refused. Fields holds messages
// keyed by field id; Form holds messages that do not belong to one field.
type RejectedError struct {
	FormID string              `json:"formId"`
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

func (e *RejectedError) Error() string {
	parts := make([]string, 0, len(e.Fields)+1)
	for _, id := range sortedKeys(e.Fields) {
		parts = append(parts, fmt.Sprintf("%s: %s", id, strings.Join(e.Fields[id], " ")))
	}
	parts = append(parts, e.Form...)
	if len(parts) == 0 {
		return fmt.Sprintf("submission: form %q rejected", e.FormID)
	}
	return fmt.Sprintf("submission: form %q rejected: %s", e.FormID, strings.Join(parts, "; "))
}

func (e *RejectedError) Unwrap() error {
	return ErrRejected
}

// Explain builds the rejection for a result that cannot be submitted. It
// returns nil when result.CanSubmit is true.
func Explain(formID string, fields []model.Field, data model.FormData, result engine.Result) *RejectedError {
	if result.CanSubmit {
		return nil
	}

	rejection := &RejectedError{FormID: formID, Fields: make(map[string][]string)}
	for _, field := range fields {
		if valid, ok := result.FieldValidity[field.ID]; !ok || valid {
			continue
		}
		rejection.Fields[field.ID] = normalizeMessages([]string{FieldMessage(field, data.Get(field.ID))})
	}

	if len(rejection.Fields) == 0 {
		rejection.Fields = nil
		rejection.Form = MergeFormErrors(nil, MessageGateConditions)
	}
	return rejection
}

// FieldMessage is the user-facing reason value fails field's own checks.
func FieldMessage(field model.Field, value any) string {
	kind, _ := model.ParseFieldType(string(field.Type))
	switch {
	case model.IsEmpty(value) && kind.MultiValue():
		return MessageNoSelection
	case model.IsEmpty(value):
		return MessageRequired
	case kind == model.FieldTypeEmail:
		return MessageInvalidEmail
	case kind.MultiValue():
		return MessageNoSelection
	default:
		return MessageInvalid
	}
}

// MergeFormErrors concatenates and normalises form-level messages, trimming
// whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
