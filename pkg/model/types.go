package model

import "strings"

// FieldType is the enumeration of input kinds a form designer can place on a
// form.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypePhone    FieldType = "phone"
	FieldTypeURL      FieldType = "url"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
)

var fieldTypeAliases = map[string]FieldType{
	"short_text":     FieldTypeText,
	"long_text":      FieldTypeTextarea,
	"checkbox_group": FieldTypeCheckbox,
	"tel":            FieldTypePhone,
}

// ParseFieldType normalises a raw type name. Aliases used by older builders
// (short_text, long_text, checkbox_group, tel) map onto their canonical kind.
// Unknown names are returned verbatim with ok=false so callers can decide
// whether to reject or tolerate them.
func ParseFieldType(raw string) (FieldType, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := fieldTypeAliases[name]; ok {
		return alias, true
	}
	kind := FieldType(name)
	return kind, kind.Known()
}

// Known reports whether the type is one of the canonical kinds.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeEmail, FieldTypeNumber,
		FieldTypePhone, FieldTypeURL, FieldTypeDate, FieldTypeSelect,
		FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// MultiValue reports whether the kind collects a list of selections.
func (t FieldType) MultiValue() bool {
	return t == FieldTypeCheckbox
}

// Choice reports whether the kind picks from Field.Options.
func (t FieldType) Choice() bool {
	switch t {
	case FieldTypeSelect, FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// Field is one input definition in a form schema. ID is unique across the
// form and stable for its lifetime; the engine treats fields as immutable
// while evaluating.
type Field struct {
	ID          string    `json:"id" yaml:"id" mapstructure:"id"`
	Type        FieldType `json:"type" yaml:"type" mapstructure:"type"`
	Required    bool      `json:"required" yaml:"required" mapstructure:"required"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty" mapstructure:"placeholder"`
	HelpText    string    `json:"helpText,omitempty" yaml:"helpText,omitempty" mapstructure:"helpText"`
	Options     []string  `json:"options,omitempty" yaml:"options,omitempty" mapstructure:"options"`
}

// DisplayLabel returns the label or the id when no label was configured.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.ID
}

// FieldIDs returns the ids of fields in schema order.
func FieldIDs(fields []Field) []string {
	if len(fields) == 0 {
		return nil
	}
	ids := make([]string, 0, len(fields))
	for _, field := range fields {
		ids = append(ids, field.ID)
	}
	return ids
}

// FormData maps field ids to the respondent's current values.
type FormData map[string]any

// Get returns the value stored for id. Missing keys and nil maps yield nil.
func (d FormData) Get(id string) any {
	if d == nil {
		return nil
	}
	return d[id]
}

// Clone returns a shallow copy with list values copied.
func (d FormData) Clone() FormData {
	if d == nil {
		return nil
	}
	out := make(FormData, len(d))
	for key, value := range d {
		switch typed := value.(type) {
		case []string:
			out[key] = append([]string(nil), typed...)
		case []any:
			out[key] = append([]any(nil), typed...)
		default:
			out[key] = value
		}
	}
	return out
}
