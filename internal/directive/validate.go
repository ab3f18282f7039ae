package directive

import (
	"fmt"

	"dto-generator/internal/common"
	"dto-generator/internal/descriptor"
	"dto-generator/internal/diagnostic"
)

// Validate checks a descriptor file for structural problems. It does not
// look at the Go packages the types live in.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("file_is_nil", "descriptor file is nil", "", "")
		return res
	}

	if common.IsEmpty(f.Types) {
		res.AddWarning("no_types", "descriptor file declares no types", "", "")
	}

	seenTypes := map[string]struct{}{}

	for i := range f.Types {
		t := &f.Types[i]

		if t.Name == "" {
			res.AddError("missing_type_name", fmt.Sprintf("type #%d has no name", i+1), "", "")
			continue
		}

		if _, ok := seenTypes[t.Name]; ok {
			res.AddError("duplicate_type", fmt.Sprintf("duplicate type %q", t.Name), t.Name, "")
			continue
		}

		seenTypes[t.Name] = struct{}{}

		validateType(res, f, t)
	}

	return res
}

func validateType(res *diagnostic.Diagnostics, f *File, t *TypeSpec) {
	if t.Target == "" {
		res.AddError("missing_target", "type must specify target", t.Name, "")
	} else {
		validateTypeExpr(res, f, t.Name, "target", t.Target)
	}

	form, ok := descriptor.ParseForm(t.Form)
	if !ok {
		res.AddError("invalid_form", fmt.Sprintf("invalid form %q", t.Form), t.Name, "")
		return
	}

	for _, d := range t.Derive {
		if _, ok := descriptor.ParseDirectionKind(d); !ok {
			res.AddError("invalid_derive", fmt.Sprintf("invalid direction %q", d), t.Name, "")
		}
	}

	if form == descriptor.FormStruct {
		if len(t.Variants) > 0 {
			res.AddError("variants_on_struct", "struct types declare fields, not variants", t.Name, "")
		}

		if t.NonExhaustive {
			res.AddWarning("non_exhaustive_struct", "non_exhaustive has no effect on struct types", t.Name, "")
		}

		validateFields(res, f, t)

		return
	}

	if len(t.Fields) > 0 {
		res.AddError("fields_on_sum", fmt.Sprintf("%s types declare variants, not fields", form), t.Name, "")
	}

	validateVariants(res, f, t, form)
}

func validateFields(res *diagnostic.Diagnostics, f *File, t *TypeSpec) {
	seen := map[string]struct{}{}
	targets := map[string]string{}

	for i := range t.Fields {
		fs := &t.Fields[i]

		if fs.Name == "" {
			res.AddError("missing_field_name", fmt.Sprintf("field #%d has no name", i+1), t.Name, "")
			continue
		}

		if _, ok := seen[fs.Name]; ok {
			res.AddError("duplicate_field", fmt.Sprintf("duplicate field %q", fs.Name), t.Name, fs.Name)
			continue
		}

		seen[fs.Name] = struct{}{}

		target := fs.Name
		if fs.Rename != "" {
			target = fs.Rename
		}

		if other, ok := targets[target]; ok && !fs.Skip {
			res.AddError("duplicate_target_field",
				fmt.Sprintf("fields %q and %q both write external field %q", other, fs.Name, target), t.Name, fs.Name)
		} else if !fs.Skip {
			targets[target] = fs.Name
		}

		if fs.Type == "" {
			res.AddError("missing_field_type", "field must specify type", t.Name, fs.Name)
		} else {
			validateTypeExpr(res, f, t.Name, fs.Name, fs.Type)
		}

		if fs.ExternalType != "" {
			validateTypeExpr(res, f, t.Name, fs.Name, fs.ExternalType)
		}

		validateMapper(res, t.Name, fs.Name, "into", fs.Into)
		validateMapper(res, t.Name, fs.Name, "from", fs.From)

		if fs.Into != nil && fs.Into.AlwaysNone {
			res.AddError("always_none_on_into", "always_none only applies to from", t.Name, fs.Name)
		}
	}
}

func validateMapper(res *diagnostic.Diagnostics, typeName, fieldName, dir string, m *MapperSpec) {
	if m == nil {
		return
	}

	if m.Map == "" && m.ByRef {
		res.AddError("by_ref_without_map", dir+".by_ref requires "+dir+".map", typeName, fieldName)
	}

	if m.Map == "" && !m.ByRef && !m.AlwaysNone {
		res.AddError("empty_mapper", dir+" mapper has no function", typeName, fieldName)
	}
}

func validateVariants(res *diagnostic.Diagnostics, f *File, t *TypeSpec, form descriptor.Form) {
	if len(t.Variants) == 0 {
		res.AddWarning("no_variants", "sum type declares no variants", t.Name, "")
	}

	seen := map[string]struct{}{}

	for i := range t.Variants {
		v := &t.Variants[i]

		if v.Name == "" {
			res.AddError("missing_variant_name", fmt.Sprintf("variant #%d has no name", i+1), t.Name, "")
			continue
		}

		if _, ok := seen[v.Name]; ok {
			res.AddError("duplicate_variant", fmt.Sprintf("duplicate variant %q", v.Name), t.Name, v.Name)
			continue
		}

		seen[v.Name] = struct{}{}

		shape, ok := descriptor.ParseVariantShape(v.Shape)
		if !ok {
			res.AddError("invalid_shape", fmt.Sprintf("invalid variant shape %q", v.Shape), t.Name, v.Name)
			continue
		}

		if form == descriptor.FormEnum && shape == descriptor.VariantSinglePayload {
			res.AddError("payload_on_enum", "enum arms cannot carry a payload; use form: oneof", t.Name, v.Name)
		}

		if form == descriptor.FormEnum && v.Pointer {
			res.AddError("pointer_on_enum", "pointer only applies to oneof arms", t.Name, v.Name)
		}

		if v.Payload == nil {
			continue
		}

		if shape != descriptor.VariantSinglePayload {
			res.AddWarning("unused_payload", fmt.Sprintf("payload is ignored for %s arms", shape), t.Name, v.Name)
			continue
		}

		for _, typ := range []string{v.Payload.LocalType, v.Payload.ExternalType} {
			if typ != "" {
				validateTypeExpr(res, f, t.Name, v.Name, typ)
			}
		}
	}
}

func validateTypeExpr(res *diagnostic.Diagnostics, f *File, typeName, path, s string) {
	e, err := descriptor.ParseTypeExpr(s)
	if err != nil {
		res.AddError("invalid_type", err.Error(), typeName, path)
		return
	}

	for _, q := range e.Qualifiers() {
		if _, ok := f.Imports[q]; !ok {
			res.AddInfo("unlisted_qualifier",
				fmt.Sprintf("qualifier %q in %q is not in imports; importing it as %q", q, s, q),
				typeName, path)
		}
	}
}
