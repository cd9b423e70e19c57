package engine

import (
	"github.com/goliatone/go-formrules/pkg/model"
	"github.com/goliatone/go-formrules/pkg/rules"
)

// Result is the engine's full answer for one snapshot of the form. It is
// derived data: hosts replace the previous Result rather than patching it.
type Result struct {
	CanSubmit     bool            `json:"canSubmit"`
	VisibleFields []string        `json:"visibleFields"`
	FieldValidity map[string]bool `json:"fieldValidity"`
}

// IsVisible reports whether id is in VisibleFields.
func (r Result) IsVisible(id string) bool {
	for _, visible := range r.VisibleFields {
		if visible == id {
			return true
		}
	}
	return false
}

// InvalidFields returns the ids of invalid fields in schema order.
func (r Result) InvalidFields(fields []model.Field) []string {
	var out []string
	for _, field := range fields {
		if valid, ok := r.FieldValidity[field.ID]; ok && !valid {
			out = append(out, field.ID)
		}
	}
	return out
}

// Evaluate computes validity, visibility and the submit gate in one pass.
func Evaluate(fields []model.Field, data model.FormData, set []rules.Rule) Result {
	validity := Validity(fields, data)
	return Result{
		CanSubmit:     allValid(validity) && submitGate(set, data),
		VisibleFields: Visible(fields, set, data),
		FieldValidity: validity,
	}
}

// Validity maps every field id to ValidateField's verdict for its value.
func Validity(fields []model.Field, data model.FormData) map[string]bool {
	validity := make(map[string]bool, len(fields))
	for _, field := range fields {
		validity[field.ID] = ValidateField(field, data.Get(field.ID))
	}
	return validity
}

// Submittable reports whether the form may be submitted: every field must be
// valid and, when the rule set carries show_submit rules, at least one of
// them must match. Forms without show_submit rules are gated on validity
// alone. Hidden fields still count towards validity.
func Submittable(fields []model.Field, data model.FormData, set []rules.Rule) bool {
	return allValid(Validity(fields, data)) && submitGate(set, data)
}

func allValid(validity map[string]bool) bool {
	for _, valid := range validity {
		if !valid {
			return false
		}
	}
	return true
}

func submitGate(set []rules.Rule, data model.FormData) bool {
	submitRules := rules.ByAction(set, rules.ActionShowSubmit)
	if len(submitRules) == 0 {
		return true
	}
	for _, rule := range submitRules {
		if EvaluateCondition(rule, data) {
			return true
		}
	}
	return false
}
