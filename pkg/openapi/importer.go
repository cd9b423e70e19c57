package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formrules/pkg/definition"
	"github.com/goliatone/go-formrules/pkg/model"
	"github.com/goliatone/go-formrules/pkg/rules"
)

const (
	// RulesExtension carries the form's rule set on the operation.
	RulesExtension = "x-formrules"
	// TypeExtension overrides the derived field type on a property.
	TypeExtension = "x-formrules-type"
	// OrderExtension lists property names in display order on the body
	// schema. Properties not listed follow in lexical order.
	OrderExtension = "x-formrules-order"
)

var (
	// ErrOperationNotFound is returned when no operation matches the id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	errNoRequestBody     = errors.New("openapi: operation has no object request body")
)

// ImportOptions configures how documents are loaded.
type ImportOptions struct {
	// AllowExternalRefs lets kin-openapi follow $refs outside the document.
	AllowExternalRefs bool
	// Validate runs the OpenAPI validator before importing.
	Validate bool
}

// Import derives a form definition from the request body of operationID in
// the OpenAPI document raw.
func Import(ctx context.Context, raw []byte, operationID string, opts ImportOptions) (definition.Form, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return definition.Form{}, errors.New("openapi: document payload is empty")
	}
	loader := newLoader(ctx, opts)
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return definition.Form{}, fmt.Errorf("openapi: load document: %w", err)
	}
	return importDocument(ctx, doc, operationID, opts)
}

// ImportFile is Import for a document on disk; relative $refs resolve against
// path.
func ImportFile(ctx context.Context, path, operationID string, opts ImportOptions) (definition.Form, error) {
	loader := newLoader(ctx, opts)
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return definition.Form{}, fmt.Errorf("openapi: load %s: %w", path, err)
	}
	return importDocument(ctx, doc, operationID, opts)
}

// ImportURL is Import for a document served over http(s). External refs
// are always allowed so relative references resolve against the URL.
func ImportURL(ctx context.Context, rawURL, operationID string, opts ImportOptions) (definition.Form, error) {
	location, err := url.Parse(rawURL)
	if err != nil {
		return definition.Form{}, fmt.Errorf("openapi: parse url: %w", err)
	}
	opts.AllowExternalRefs = true
	loader := newLoader(ctx, opts)
	doc, err := loader.LoadFromURI(location)
	if err != nil {
		return definition.Form{}, fmt.Errorf("openapi: load %s: %w", rawURL, err)
	}
	return importDocument(ctx, doc, operationID, opts)
}

func newLoader(ctx context.Context, opts ImportOptions) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = opts.AllowExternalRefs
	return loader
}

func importDocument(ctx context.Context, doc *openapi3.T, operationID string, opts ImportOptions) (definition.Form, error) {
	if err := ctx.Err(); err != nil {
		return definition.Form{}, err
	}
	if opts.Validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return definition.Form{}, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	operation := findOperation(doc, operationID)
	if operation == nil {
		return definition.Form{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	body := requestSchema(operation.RequestBody)
	if body == nil || !isType(body, openapi3.TypeObject) || len(body.Properties) == 0 {
		return definition.Form{}, fmt.Errorf("%w: %q", errNoRequestBody, operationID)
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	form := definition.Form{
		ID:          operationID,
		Title:       operation.Summary,
		Description: operation.Description,
	}
	for _, name := range propertyOrder(body) {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		form.Fields = append(form.Fields, convertProperty(name, ref.Value, required[name]))
	}

	ruleSet, err := rules.Decode(operation.Extensions[RulesExtension])
	if err != nil {
		return definition.Form{}, fmt.Errorf("openapi: %s on %q: %w", RulesExtension, operationID, err)
	}
	form.Rules = ruleSet

	form = definition.Normalize(form)
	if err := definition.Validate(form); err != nil {
		return definition.Form{}, fmt.Errorf("openapi: %q: %w", operationID, err)
	}
	return form, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range item.Operations() {
			if operation != nil && operation.OperationID == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func propertyOrder(schema *openapi3.Schema) []string {
	var ordered []string
	seen := make(map[string]bool, len(schema.Properties))

	if listed, ok := schema.Extensions[OrderExtension].([]any); ok {
		for _, entry := range listed {
			name, _ := entry.(string)
			if _, exists := schema.Properties[name]; !exists || seen[name] {
				continue
			}
			seen[name] = true
			ordered = append(ordered, name)
		}
	}

	rest := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

func convertProperty(name string, schema *openapi3.Schema, required bool) model.Field {
	field := model.Field{
		ID:       name,
		Type:     fieldType(schema),
		Required: required,
		Label:    schema.Title,
		HelpText: schema.Description,
	}

	switch {
	case len(schema.Enum) > 0:
		field.Options = enumOptions(schema.Enum)
	case schema.Items != nil && schema.Items.Value != nil:
		field.Options = enumOptions(schema.Items.Value.Enum)
	}
	return field
}

func fieldType(schema *openapi3.Schema) model.FieldType {
	if override, ok := schema.Extensions[TypeExtension].(string); ok {
		if kind, known := model.ParseFieldType(override); known {
			return kind
		}
	}

	switch {
	case isType(schema, openapi3.TypeBoolean):
		return model.FieldTypeCheckbox
	case isType(schema, openapi3.TypeInteger), isType(schema, openapi3.TypeNumber):
		return model.FieldTypeNumber
	case isType(schema, openapi3.TypeArray):
		return model.FieldTypeCheckbox
	}

	if len(schema.Enum) > 0 {
		return model.FieldTypeSelect
	}
	switch strings.ToLower(schema.Format) {
	case "email":
		return model.FieldTypeEmail
	case "date", "date-time":
		return model.FieldTypeDate
	case "uri", "url":
		return model.FieldTypeURL
	case "phone", "tel":
		return model.FieldTypePhone
	}
	if schema.MaxLength != nil && *schema.MaxLength > 255 {
		return model.FieldTypeTextarea
	}
	return model.FieldTypeText
}

func enumOptions(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, model.Text(value))
	}
	return out
}

func isType(schema *openapi3.Schema, kind string) bool {
	return schema != nil && schema.Type != nil && schema.Type.Is(kind)
}
