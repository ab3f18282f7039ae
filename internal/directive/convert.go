package directive

import (
	"errors"
	"fmt"
	"maps"

	"dto-generator/internal/descriptor"
)

// Set is a loaded descriptor file ready for planning.
type Set struct {
	// Package is the Go package name of the generated code.
	Package string
	// Imports maps type expression qualifiers to import paths.
	Imports map[string]string
	Types   []descriptor.TypeDescriptor
}

// Descriptors converts the file into descriptors. The file is expected to
// have passed Validate; any type expression that fails to parse is still
// reported here.
func (f *File) Descriptors() (*Set, error) {
	set := &Set{
		Package: f.Package,
		Imports: maps.Clone(f.Imports),
		Types:   make([]descriptor.TypeDescriptor, 0, len(f.Types)),
	}

	var errs []error

	for i := range f.Types {
		td, err := f.Types[i].descriptor()
		if err != nil {
			errs = append(errs, fmt.Errorf("type %s: %w", f.Types[i].Name, err))
			continue
		}

		set.Types = append(set.Types, td)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return set, nil
}

// Load reads, validates and converts a descriptor file. Validation problems
// are returned as an error built from the diagnostics; warnings are returned
// alongside a successful result.
func Load(path string) (*Set, []string, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}

	diags := Validate(f)
	if err := diags.Error(); err != nil {
		return nil, nil, fmt.Errorf("invalid descriptor file %s: %w", path, err)
	}

	set, err := f.Descriptors()
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	for _, w := range diags.Warnings {
		warnings = append(warnings, w.String())
	}

	return set, warnings, nil
}

func (t *TypeSpec) descriptor() (descriptor.TypeDescriptor, error) {
	td := descriptor.TypeDescriptor{
		Name:           t.Name,
		ArmPrefix:      t.ArmPrefix,
		LocalArmPrefix: t.LocalArmPrefix,
		NonExhaustive:  t.NonExhaustive,
	}

	form, ok := descriptor.ParseForm(t.Form)
	if !ok {
		return td, fmt.Errorf("invalid form %q", t.Form)
	}

	td.Form = form

	target, err := descriptor.ParseTypeExpr(t.Target)
	if err != nil {
		return td, fmt.Errorf("target: %w", err)
	}

	td.Target = target

	for _, d := range t.Derive {
		kind, ok := descriptor.ParseDirectionKind(d)
		if !ok {
			return td, fmt.Errorf("invalid direction %q", d)
		}

		td.Directions = append(td.Directions, kind)
	}

	for i := range t.Fields {
		fd, err := t.Fields[i].descriptor()
		if err != nil {
			return td, fmt.Errorf("field %s: %w", t.Fields[i].Name, err)
		}

		td.Fields = append(td.Fields, fd)
	}

	for i := range t.Variants {
		vd, err := t.Variants[i].descriptor()
		if err != nil {
			return td, fmt.Errorf("variant %s: %w", t.Variants[i].Name, err)
		}

		td.Variants = append(td.Variants, vd)
	}

	return td, nil
}

func (fs *FieldSpec) descriptor() (descriptor.FieldDescriptor, error) {
	fd := descriptor.FieldDescriptor{
		LocalName:    fs.Name,
		ExternalName: fs.Rename,
		Skip:         fs.Skip,
		Required:     fs.Required,
	}

	var err error

	fd.DeclaredType, err = optionalTypeExpr(fs.Type)
	if err != nil {
		return fd, err
	}

	fd.ExternalType, err = optionalTypeExpr(fs.ExternalType)
	if err != nil {
		return fd, err
	}

	if fs.Into != nil {
		fd.Into.Mapper = fs.Into.mapper()
	}

	if fs.From != nil {
		fd.From.Mapper = fs.From.mapper()
		fd.From.AlwaysAbsent = fs.From.AlwaysNone
	}

	return fd, nil
}

func (m *MapperSpec) mapper() *descriptor.Mapper {
	if m.Map == "" {
		return nil
	}

	return &descriptor.Mapper{Func: m.Map, ByRef: m.ByRef}
}

func (v *VariantSpec) descriptor() (descriptor.VariantDescriptor, error) {
	vd := descriptor.VariantDescriptor{
		LocalName:    v.Name,
		ExternalName: v.Rename,
		Skip:         v.Skip,
		PointerArm:   v.Pointer,
	}

	shape, ok := descriptor.ParseVariantShape(v.Shape)
	if !ok {
		return vd, fmt.Errorf("invalid variant shape %q", v.Shape)
	}

	vd.Shape = shape

	if shape != descriptor.VariantSinglePayload {
		return vd, nil
	}

	p := &descriptor.Payload{}
	if v.Payload != nil {
		p.LocalField = v.Payload.LocalField
		p.ExternalField = v.Payload.ExternalField

		var err error

		if p.LocalType, err = optionalTypeExpr(v.Payload.LocalType); err != nil {
			return vd, err
		}

		if p.ExternalType, err = optionalTypeExpr(v.Payload.ExternalType); err != nil {
			return vd, err
		}
	}

	if p.LocalField == "" {
		p.LocalField = "Value"
	}

	if p.ExternalField == "" {
		p.ExternalField = vd.TargetName()
	}

	vd.Payload = p

	return vd, nil
}

func optionalTypeExpr(s string) (*descriptor.TypeExpr, error) {
	if s == "" {
		return nil, nil
	}

	return descriptor.ParseTypeExpr(s)
}
