package directive

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File represents the root of a YAML descriptor file.
type File struct {
	// Version of the descriptor schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Package is the Go package name of the domain types and generated code.
	Package string `yaml:"package,omitempty"`

	// External is the import path of the package holding the external types.
	External string `yaml:"external,omitempty"`

	// Imports maps qualifiers used in type expressions to import paths.
	Imports map[string]string `yaml:"imports,omitempty"`

	// Types lists the domain types to convert.
	Types []TypeSpec `yaml:"types"`
}

// TypeSpec declares one domain type and its external counterpart.
type TypeSpec struct {
	// Name of the domain type (e.g., "Task").
	Name string `yaml:"name"`

	// Target external type expression (e.g., "pb.Task").
	Target string `yaml:"target"`

	// Form is struct, enum or oneof. Inferred when empty.
	Form string `yaml:"form,omitempty"`

	// ArmPrefix is prepended to external arm names.
	ArmPrefix string `yaml:"arm_prefix,omitempty"`

	// LocalArmPrefix is prepended to domain arm wrapper names of a oneof.
	LocalArmPrefix string `yaml:"local_arm_prefix,omitempty"`

	// NonExhaustive adds a fallback arm to generated matches.
	NonExhaustive bool `yaml:"non_exhaustive,omitempty"`

	// Derive restricts the generated directions ("into", "from").
	Derive []string `yaml:"derive,omitempty"`

	Fields   []FieldSpec   `yaml:"fields,omitempty"`
	Variants []VariantSpec `yaml:"variants,omitempty"`
}

// FieldSpec declares the directives of one struct field.
type FieldSpec struct {
	Name         string      `yaml:"name"`
	Rename       string      `yaml:"rename,omitempty"`
	Type         string      `yaml:"type"`
	ExternalType string      `yaml:"external_type,omitempty"`
	Skip         bool        `yaml:"skip,omitempty"`
	Required     bool        `yaml:"required,omitempty"`
	Into         *MapperSpec `yaml:"into,omitempty"`
	From         *MapperSpec `yaml:"from,omitempty"`
}

// MapperSpec is a direction-scoped custom mapper.
// YAML formats supported:
//   - Simple string: "strconv.Itoa"
//   - Full form: {map: strconv.Itoa, by_ref: true, always_none: false}
type MapperSpec struct {
	Map        string `yaml:"map,omitempty"`
	ByRef      bool   `yaml:"by_ref,omitempty"`
	AlwaysNone bool   `yaml:"always_none,omitempty"`
}

// VariantSpec declares one sum-type arm.
type VariantSpec struct {
	Name    string       `yaml:"name"`
	Rename  string       `yaml:"rename,omitempty"`
	Shape   string       `yaml:"shape,omitempty"`
	Skip    bool         `yaml:"skip,omitempty"`
	Pointer bool         `yaml:"pointer,omitempty"`
	Payload *PayloadSpec `yaml:"payload,omitempty"`
}

// PayloadSpec describes the value carried by a single-payload arm.
type PayloadSpec struct {
	LocalField    string `yaml:"local_field,omitempty"`
	ExternalField string `yaml:"external_field,omitempty"`
	LocalType     string `yaml:"local_type,omitempty"`
	ExternalType  string `yaml:"external_type,omitempty"`
}

// UnmarshalYAML implements custom YAML unmarshaling for MapperSpec.
// Accepts either a function name or a mapping.
func (m *MapperSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var fn string

		err := node.Decode(&fn)
		if err != nil {
			return err
		}

		*m = MapperSpec{Map: fn}

		return nil

	case yaml.MappingNode:
		// Alias type drops the custom unmarshaler.
		type plain MapperSpec

		var p plain

		err := node.Decode(&p)
		if err != nil {
			return err
		}

		*m = MapperSpec(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected function name or mapping for mapper", node.Line)
	}
}

// MarshalYAML outputs the shorthand form when only a function is set.
func (m MapperSpec) MarshalYAML() (any, error) {
	if !m.ByRef && !m.AlwaysNone {
		return m.Map, nil
	}

	type plain MapperSpec

	return plain(m), nil
}
