package declare

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/rule"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Document is a parsed declaration source.
type Document struct {
	Name   string
	Source string
	Fields field.Fields
}

type fieldFile struct {
	Label        string          `yaml:"label"`
	Initial      string          `yaml:"initial"`
	Readonly     bool            `yaml:"readonly"`
	Required     *bool           `yaml:"required"`
	RequiredWhen string          `yaml:"required_when"`
	Formatter    nameList        `yaml:"formatter"`
	Validators   []validatorFile `yaml:"validators"`
	Choices      []field.Choice  `yaml:"choices"`
	Attrs        map[string]any  `yaml:"attrs"`
}

type validatorFile struct {
	Tag       string `yaml:"tag"`
	Pattern   string `yaml:"pattern"`
	MinLength *int   `yaml:"min_length"`
	MaxLength *int   `yaml:"max_length"`
	Matches   string `yaml:"matches"`
	OneOf     bool   `yaml:"one_of"`
	Name      string `yaml:"name"`
	Message   string `yaml:"message"`
}

// nameList accepts a single name or a list of names.
type nameList []string

func (n *nameList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if trimmed := strings.TrimSpace(value.Value); trimmed != "" {
			*n = nameList{trimmed}
		}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		*n = names
		return nil
	default:
		return fmt.Errorf("line %d: expected a name or a list of names", value.Line)
	}
}

// LoadFile reads and parses a declaration file.
func LoadFile(path string, reg *Registry) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("declare: read %s: %w", path, err)
	}
	return Load(data, path, reg)
}

// Load parses a YAML or JSON document with a top-level "fields" mapping and an
// optional "name". Fields keep the order they appear in. A nil registry uses
// DefaultRegistry.
func Load(data []byte, source string, reg *Registry) (Document, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("declare: file %s is empty", source)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Document{}, fmt.Errorf("declare: parse %s: %w", source, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return Document{}, fmt.Errorf("declare: file %s must contain a mapping", source)
	}

	doc := Document{Source: source}
	var fieldsNode *yaml.Node
	top := root.Content[0]
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		switch key.Value {
		case "name":
			doc.Name = strings.TrimSpace(value.Value)
		case "fields":
			fieldsNode = value
		}
	}
	if fieldsNode == nil || fieldsNode.Kind != yaml.MappingNode || len(fieldsNode.Content) == 0 {
		return Document{}, fmt.Errorf("declare: file %s defines no fields", source)
	}

	for i := 0; i+1 < len(fieldsNode.Content); i += 2 {
		name := strings.TrimSpace(fieldsNode.Content[i].Value)
		var raw fieldFile
		if err := fieldsNode.Content[i+1].Decode(&raw); err != nil {
			return Document{}, fmt.Errorf("declare: file %s field %q: %w", source, name, err)
		}
		decl, err := buildDeclaration(name, raw, reg)
		if err != nil {
			return Document{}, fmt.Errorf("declare: file %s field %q: %w", source, name, err)
		}
		doc.Fields = append(doc.Fields, decl)
	}

	if err := doc.Fields.Validate(); err != nil {
		return Document{}, fmt.Errorf("declare: file %s: %w", source, err)
	}
	return doc, nil
}

func buildDeclaration(name string, raw fieldFile, reg *Registry) (field.Declaration, error) {
	decl := field.Declaration{
		Name:     name,
		Label:    raw.Label,
		Initial:  raw.Initial,
		Readonly: raw.Readonly,
		Choices:  raw.Choices,
		Attrs:    raw.Attrs,
	}

	switch {
	case raw.Required != nil && raw.RequiredWhen != "":
		return field.Declaration{}, fmt.Errorf("required and required_when are exclusive")
	case raw.RequiredWhen != "":
		required, err := rule.Required(raw.RequiredWhen)
		if err != nil {
			return field.Declaration{}, err
		}
		decl.Required = required
	case raw.Required != nil:
		decl.Required = field.Static(*raw.Required)
	}

	formatter, err := reg.formatterChain(raw.Formatter)
	if err != nil {
		return field.Declaration{}, err
	}
	decl.Formatter = formatter

	for idx, v := range raw.Validators {
		fn, err := buildValidator(v, decl.Choices, reg)
		if err != nil {
			return field.Declaration{}, fmt.Errorf("validator %d: %w", idx, err)
		}
		decl.Validators = append(decl.Validators, fn)
	}
	return decl, nil
}

func buildValidator(v validatorFile, choices []field.Choice, reg *Registry) (field.Validator, error) {
	var kinds []string
	var fn field.Validator
	var err error

	if v.Tag != "" {
		kinds = append(kinds, "tag")
		fn, err = validation.Tag(v.Tag, v.Message)
	}
	if v.Pattern != "" {
		kinds = append(kinds, "pattern")
		fn, err = validation.Pattern(v.Pattern, v.Message)
	}
	if v.MinLength != nil {
		kinds = append(kinds, "min_length")
		fn = validation.MinLength(*v.MinLength, v.Message)
	}
	if v.MaxLength != nil {
		kinds = append(kinds, "max_length")
		fn = validation.MaxLength(*v.MaxLength, v.Message)
	}
	if v.Matches != "" {
		kinds = append(kinds, "matches")
		fn = validation.Matches(v.Matches, v.Message)
	}
	if v.OneOf {
		kinds = append(kinds, "one_of")
		if len(choices) == 0 {
			return nil, fmt.Errorf("one_of requires choices")
		}
		fn = validation.OneOf(choices, v.Message)
	}
	if v.Name != "" {
		kinds = append(kinds, "name")
		fn, err = reg.Validator(v.Name)
	}

	switch len(kinds) {
	case 0:
		return nil, fmt.Errorf("no validator kind set")
	case 1:
	default:
		return nil, fmt.Errorf("exactly one validator kind allowed, got %s", strings.Join(kinds, ", "))
	}
	if err != nil {
		return nil, err
	}
	return fn, nil
}
