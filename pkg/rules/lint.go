package rules

import (
	"fmt"

	"github.com/goliatone/go-formrules/pkg/model"
)

// Severity grades a lint issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue describes a problem with one rule. Index is the rule's position in
// the rule set; Field names the offending attribute.
type Issue struct {
	Index    int      `json:"index"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("rule %d: %s: %s", i.Index, i.Severity, i.Message)
	}
	return fmt.Sprintf("rule %d: %s: %s: %s", i.Index, i.Severity, i.Field, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Lint checks a rule set against the field schema. Rules that would never
// fire or never affect anything are errors; hide/show pairs that fight over
// the same target are reported as info since show always wins.
func Lint(fields []model.Field, set []Rule) []Issue {
	known := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		known[field.ID] = struct{}{}
	}

	var issues []Issue
	report := func(idx int, field string, severity Severity, format string, args ...any) {
		issues = append(issues, Issue{
			Index:    idx,
			Field:    field,
			Message:  fmt.Sprintf(format, args...),
			Severity: severity,
		})
	}

	for idx, rule := range set {
		if !rule.Condition.Valid() {
			report(idx, "condition", SeverityError, "unknown condition %q", rule.Condition)
		}
		if !rule.Action.Valid() {
			report(idx, "action", SeverityError, "unknown action %q", rule.Action)
		}

		if rule.FieldID == "" {
			report(idx, "fieldId", SeverityError, "field id is required")
		} else if _, ok := known[rule.FieldID]; !ok {
			report(idx, "fieldId", SeverityError, "field %q is not in the form", rule.FieldID)
		}

		if rule.Condition.NeedsOperand() && rule.Value == "" {
			report(idx, "value", SeverityWarning, "%s condition without a value", rule.Condition)
		}

		if rule.Action.TargetsField() {
			switch _, ok := known[rule.TargetID]; {
			case rule.TargetID == "":
				report(idx, "targetId", SeverityError, "%s requires a target field", rule.Action)
			case !ok:
				report(idx, "targetId", SeverityError, "target %q is not in the form", rule.TargetID)
			}
		} else if rule.Action == ActionShowSubmit && rule.TargetID != "" {
			report(idx, "targetId", SeverityWarning, "target %q is ignored by show_submit", rule.TargetID)
		}
	}

	hidden := make(map[string]int)
	for idx, rule := range set {
		if rule.Action == ActionHideField && rule.TargetID != "" {
			if _, seen := hidden[rule.TargetID]; !seen {
				hidden[rule.TargetID] = idx
			}
		}
	}
	for idx, rule := range set {
		if rule.Action != ActionShowField || rule.TargetID == "" {
			continue
		}
		if hideIdx, ok := hidden[rule.TargetID]; ok {
			report(idx, "targetId", SeverityInfo, "show rule overrides hide rule %d for %q when both match", hideIdx, rule.TargetID)
		}
	}

	return issues
}
