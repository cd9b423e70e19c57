package engine

import (
	"regexp"

	"github.com/goliatone/go-formrules/pkg/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether text looks like local@domain.tld with no
// whitespace anywhere. Domain labels are not checked one by one, so a@b..c
// passes.
func IsValidEmail(text string) bool {
	return emailPattern.MatchString(text)
}

// ValidateField checks a single value against the field's own required and
// format constraints. Rules and visibility play no part here.
func ValidateField(field model.Field, value any) bool {
	if model.IsEmpty(value) {
		return !field.Required
	}

	kind, _ := model.ParseFieldType(string(field.Type))
	switch {
	case kind.MultiValue():
		if !field.Required {
			return true
		}
		return len(model.Selections(value)) > 0
	case kind == model.FieldTypeEmail:
		return IsValidEmail(model.Text(value))
	default:
		return true
	}
}
