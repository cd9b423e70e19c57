package engine

import (
	"strings"

	"github.com/goliatone/go-formrules/pkg/model"
	"github.com/goliatone/go-formrules/pkg/rules"
)

// EvaluateCondition reports whether rule's condition holds for the current
// value of rule.FieldID. Unknown condition kinds fail closed, as does an
// equals rule without an operand.
func EvaluateCondition(rule rules.Rule, data model.FormData) bool {
	value := data.Get(rule.FieldID)

	switch rule.Condition {
	case rules.ConditionFilled:
		return filled(value)
	case rules.ConditionEquals:
		text, ok := value.(string)
		return ok && rule.Value != "" && text == rule.Value
	case rules.ConditionContains:
		if model.IsEmpty(value) {
			return false
		}
		return strings.Contains(model.Text(value), rule.Value)
	case rules.ConditionEmailValid:
		if model.IsEmpty(value) {
			return false
		}
		return IsValidEmail(model.Text(value))
	default:
		return false
	}
}

// filled differs from !model.IsEmpty: an empty selection list still counts
// as filled because only nil and "" mean "never answered".
func filled(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return typed != ""
	default:
		return true
	}
}
