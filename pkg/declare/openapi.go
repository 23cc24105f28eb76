package declare

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/rule"
	"github.com/goliatone/go-formstate/pkg/validation"
)

const (
	extRequiredWhen = "x-formstate-required-when"
	extOrder        = "x-formstate-order"
	extFormatter    = "x-formstate-formatter"
)

var formatTags = map[string]string{
	"email": "email",
	"uri":   "uri",
	"url":   "url",
	"uuid":  "uuid",
}

// FromOpenAPI builds declarations from the request body schema of the
// operation identified by operationID. A nil registry uses DefaultRegistry.
func FromOpenAPI(ctx context.Context, raw []byte, operationID string, reg *Registry) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if len(raw) == 0 {
		return Document{}, errors.New("declare: openapi document is empty")
	}
	if strings.TrimSpace(operationID) == "" {
		return Document{}, errors.New("declare: operation id is required")
	}
	if reg == nil {
		reg = DefaultRegistry()
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return Document{}, fmt.Errorf("declare: load openapi document: %w", err)
	}

	op := findOperation(spec, operationID)
	if op == nil {
		return Document{}, fmt.Errorf("declare: operation %q not found", operationID)
	}
	schema := requestSchema(op.RequestBody)
	if schema == nil || len(schema.Properties) == 0 {
		return Document{}, fmt.Errorf("declare: operation %q has no request body properties", operationID)
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	doc := Document{Name: operationID, Source: "openapi:" + operationID}
	for _, name := range orderedProperties(schema.Properties) {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, isRequired := required[name]
		decl, err := declarationFromSchema(name, ref.Value, isRequired, reg)
		if err != nil {
			return Document{}, fmt.Errorf("declare: operation %q property %q: %w", operationID, name, err)
		}
		doc.Fields = append(doc.Fields, decl)
	}

	if err := doc.Fields.Validate(); err != nil {
		return Document{}, fmt.Errorf("declare: operation %q: %w", operationID, err)
	}
	return doc, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
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
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// orderedProperties sorts by x-formstate-order, then by name. Properties
// without an order come after ordered ones.
func orderedProperties(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	order := func(name string) float64 {
		ref := props[name]
		if ref == nil || ref.Value == nil {
			return math.Inf(1)
		}
		if value, ok := numeric(ref.Value.Extensions[extOrder]); ok {
			return value
		}
		return math.Inf(1)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, oj := order(names[i]), order(names[j])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

func declarationFromSchema(name string, schema *openapi3.Schema, required bool, reg *Registry) (field.Declaration, error) {
	decl := field.Declaration{
		Name:     name,
		Label:    schema.Title,
		Readonly: schema.ReadOnly,
		Required: field.Static(required),
	}
	if schema.Default != nil {
		decl.Initial = fmt.Sprint(schema.Default)
	}

	if expr, ok := schema.Extensions[extRequiredWhen].(string); ok && strings.TrimSpace(expr) != "" {
		dynamic, err := rule.Required(expr)
		if err != nil {
			return field.Declaration{}, err
		}
		decl.Required = dynamic
	}

	if names := extensionNames(schema.Extensions[extFormatter]); len(names) > 0 {
		formatter, err := reg.formatterChain(names)
		if err != nil {
			return field.Declaration{}, err
		}
		decl.Formatter = formatter
	}

	for _, value := range schema.Enum {
		code := fmt.Sprint(value)
		decl.Choices = append(decl.Choices, field.Choice{Code: code, Display: code})
	}
	if len(decl.Choices) > 0 {
		decl.Validators = append(decl.Validators, validation.OneOf(decl.Choices, ""))
	}
	if schema.MinLength > 0 {
		decl.Validators = append(decl.Validators, validation.MinLength(int(schema.MinLength), ""))
	}
	if schema.MaxLength != nil {
		decl.Validators = append(decl.Validators, validation.MaxLength(int(*schema.MaxLength), ""))
	}
	if schema.Pattern != "" {
		fn, err := validation.Pattern(schema.Pattern, "")
		if err != nil {
			return field.Declaration{}, err
		}
		decl.Validators = append(decl.Validators, fn)
	}
	if tag, ok := formatTags[schema.Format]; ok {
		fn, err := validation.Tag(tag, "")
		if err != nil {
			return field.Declaration{}, err
		}
		decl.Validators = append(decl.Validators, fn)
	}

	attrs := map[string]any{}
	if schema.Description != "" {
		attrs["help"] = schema.Description
	}
	if schema.Format != "" {
		attrs["format"] = schema.Format
	}
	if schema.Format == "password" {
		attrs["secret"] = true
	}
	if schema.Type != nil && schema.Type.Is("boolean") {
		attrs["input"] = "confirm"
	}
	if len(attrs) > 0 {
		decl.Attrs = attrs
	}
	return decl, nil
}

func numeric(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func extensionNames(raw any) []string {
	switch v := raw.(type) {
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return []string{trimmed}
		}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}
