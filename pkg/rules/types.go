// Package rules models the declarative condition/action statements attached
// to a form. Rules are evaluated by package engine; this package owns their
// shape, decoding from untyped sources and static linting.
package rules

// Condition is a predicate over one field's current value.
type Condition string

const (
	ConditionFilled     Condition = "filled"
	ConditionEquals     Condition = "equals"
	ConditionContains   Condition = "contains"
	ConditionEmailValid Condition = "email_valid"
)

// Valid reports whether the condition is one of the known kinds. Unknown
// kinds survive decoding and evaluate to false.
func (c Condition) Valid() bool {
	switch c {
	case ConditionFilled, ConditionEquals, ConditionContains, ConditionEmailValid:
		return true
	default:
		return false
	}
}

// NeedsOperand reports whether the condition compares against Rule.Value.
func (c Condition) NeedsOperand() bool {
	return c == ConditionEquals || c == ConditionContains
}

// Action is the effect a matching rule has.
type Action string

const (
	ActionShowSubmit Action = "show_submit"
	ActionShowField  Action = "show_field"
	ActionHideField  Action = "hide_field"
)

// Valid reports whether the action is one of the known kinds. Unknown kinds
// are a no-op at evaluation time.
func (a Action) Valid() bool {
	switch a {
	case ActionShowSubmit, ActionShowField, ActionHideField:
		return true
	default:
		return false
	}
}

// TargetsField reports whether the action needs Rule.TargetID.
func (a Action) TargetsField() bool {
	return a == ActionShowField || a == ActionHideField
}

// Rule is a single (condition, action) statement. Rules have no identity
// beyond their position in the ordered rule set.
type Rule struct {
	FieldID   string    `json:"fieldId" yaml:"fieldId" mapstructure:"fieldId"`
	Condition Condition `json:"condition" yaml:"condition" mapstructure:"condition"`
	Value     string    `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
	Action    Action    `json:"action" yaml:"action" mapstructure:"action"`
	TargetID  string    `json:"targetId,omitempty" yaml:"targetId,omitempty" mapstructure:"targetId"`
}

// ByAction returns the rules carrying action, preserving their relative
// order.
func ByAction(set []Rule, action Action) []Rule {
	var out []Rule
	for _, rule := range set {
		if rule.Action == action {
			out = append(out, rule)
		}
	}
	return out
}
