package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/goliatone/go-formrules/pkg/model"
)

var errNotAList = errors.New("rules: rule set must be a list")

// Decode converts an untyped rule set (decoded JSON/YAML, a stored document)
// into typed rules. Entries must be objects; scalar operands are coerced to
// strings. Unknown condition or action names are kept as-is so they fail
// closed during evaluation and show up in Lint.
func Decode(raw any) ([]Rule, error) {
	if raw == nil {
		return nil, nil
	}

	var entries []any
	switch typed := raw.(type) {
	case []any:
		entries = typed
	case []map[string]any:
		entries = make([]any, 0, len(typed))
		for _, entry := range typed {
			entries = append(entries, entry)
		}
	case []Rule:
		return append([]Rule(nil), typed...), nil
	default:
		return nil, errNotAList
	}

	out := make([]Rule, 0, len(entries))
	for idx, entry := range entries {
		rule, err := decodeRule(entry)
		if err != nil {
			return nil, fmt.Errorf("rules: entry %d: %w", idx, err)
		}
		out = append(out, rule)
	}
	return out, nil
}

func decodeRule(entry any) (Rule, error) {
	fields, ok := entry.(map[string]any)
	if !ok {
		return Rule{}, fmt.Errorf("expected object, got %T", entry)
	}

	// Operands are compared as text; format them the same way values are so
	// `value: true` stays "true" instead of mapstructure's weak "1".
	if operand, exists := fields["value"]; exists {
		if _, isString := operand.(string); !isString {
			normalised := make(map[string]any, len(fields))
			for key, value := range fields {
				normalised[key] = value
			}
			normalised["value"] = model.Text(operand)
			fields = normalised
		}
	}

	var rule Rule
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &rule,
		TagName:          "mapstructure",
	})
	if err != nil {
		return Rule{}, err
	}
	if err := decoder.Decode(fields); err != nil {
		return Rule{}, err
	}

	rule.FieldID = strings.TrimSpace(rule.FieldID)
	rule.TargetID = strings.TrimSpace(rule.TargetID)
	rule.Condition = Condition(strings.ToLower(strings.TrimSpace(string(rule.Condition))))
	rule.Action = Action(strings.ToLower(strings.TrimSpace(string(rule.Action))))
	return rule, nil
}
