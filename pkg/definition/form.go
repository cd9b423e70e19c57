// Package definition describes a complete form (its field schema plus rule
// set) as it is authored, stored and served. Definitions are parsed from JSON
// or YAML documents, collected into catalogs from a filesystem and persisted
// through the Store contract.
package definition

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formrules/pkg/engine"
	"github.com/goliatone/go-formrules/pkg/model"
	"github.com/goliatone/go-formrules/pkg/rules"
)

var (
	// ErrInvalid marks a definition that violates a schema invariant.
	ErrInvalid = errors.New("definition: invalid form")
	// ErrNotFound is returned by stores when no form has the requested id.
	ErrNotFound = errors.New("definition: form not found")
)

// Form is a designer-authored form: an ordered field schema and an ordered
// rule set.
type Form struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title,omitempty" yaml:"title,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []model.Field `json:"fields" yaml:"fields"`
	Rules       []rules.Rule  `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Evaluate runs the rule engine over the form for data.
func (f Form) Evaluate(data model.FormData) engine.Result {
	return engine.Evaluate(f.Fields, data, f.Rules)
}

// Field returns the field with id.
func (f Form) Field(id string) (model.Field, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return model.Field{}, false
}

// Lint reports rule problems for the form. Lint issues never make a form
// invalid; the engine tolerates every one of them.
func (f Form) Lint() []rules.Issue {
	return rules.Lint(f.Fields, f.Rules)
}

// Validate enforces the schema invariants: a form id, and non-empty unique
// field ids.
func Validate(form Form) error {
	if strings.TrimSpace(form.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalid)
	}
	seen := make(map[string]struct{}, len(form.Fields))
	for idx, field := range form.Fields {
		if strings.TrimSpace(field.ID) == "" {
			return fmt.Errorf("%w: field %d has an empty id", ErrInvalid, idx)
		}
		if _, exists := seen[field.ID]; exists {
			return fmt.Errorf("%w: duplicate field id %q", ErrInvalid, field.ID)
		}
		seen[field.ID] = struct{}{}
	}
	return nil
}

type documentFile struct {
	ID          string        `mapstructure:"id"`
	Title       string        `mapstructure:"title"`
	Description string        `mapstructure:"description"`
	Fields      []model.Field `mapstructure:"fields"`
	Rules       any           `mapstructure:"rules"`
}

// Parse decodes a JSON or YAML definition. source names the document in
// error messages. The result is normalised (trimmed ids, canonical field
// types) and validated.
func Parse(data []byte, source string) (Form, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Form{}, fmt.Errorf("definition: %s is empty", source)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = nil
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Form{}, fmt.Errorf("definition: parse %s: invalid JSON or YAML", source)
		}
	}

	return FromMap(raw, source)
}

// FromMap decodes an already unmarshalled definition document.
func FromMap(raw any, source string) (Form, error) {
	if _, ok := raw.(map[string]any); !ok {
		return Form{}, fmt.Errorf("definition: %s: expected an object, got %T", source, raw)
	}

	var doc documentFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &doc,
	})
	if err != nil {
		return Form{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Form{}, fmt.Errorf("definition: decode %s: %w", source, err)
	}

	ruleSet, err := rules.Decode(doc.Rules)
	if err != nil {
		return Form{}, fmt.Errorf("definition: decode %s: %w", source, err)
	}

	form := Normalize(Form{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Fields:      doc.Fields,
		Rules:       ruleSet,
	})
	if err := Validate(form); err != nil {
		return Form{}, fmt.Errorf("definition: %s: %w", source, err)
	}
	return form, nil
}

// Normalize trims identifiers and canonicalises field type aliases. Unknown
// field types are kept so the engine can treat them as generic input.
func Normalize(form Form) Form {
	out := form
	out.ID = strings.TrimSpace(form.ID)
	out.Title = strings.TrimSpace(form.Title)

	if len(form.Fields) > 0 {
		out.Fields = make([]model.Field, len(form.Fields))
		for idx, field := range form.Fields {
			field.ID = strings.TrimSpace(field.ID)
			kind, _ := model.ParseFieldType(string(field.Type))
			if kind == "" {
				kind = model.FieldTypeText
			}
			field.Type = kind
			if len(field.Options) > 0 {
				field.Options = append([]string(nil), field.Options...)
			}
			out.Fields[idx] = field
		}
	}
	if len(form.Rules) > 0 {
		out.Rules = append([]rules.Rule(nil), form.Rules...)
	}
	return out
}

// Marshal encodes the form as YAML.
func Marshal(form Form) ([]byte, error) {
	return yaml.Marshal(form)
}
