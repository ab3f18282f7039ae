package analyze

import (
	"fmt"
	"go/token"
	"go/types"
	"strings"

	"dto-generator/internal/descriptor"
	"dto-generator/internal/match"
)

// maxSuggestions limits "did you mean" lists.
const maxSuggestions = 3

// externalPackage returns the imported package the target's qualifier
// refers to, or nil when it is not among the domain package's imports.
func (s *packageScan) externalPackage(target *descriptor.TypeExpr) *types.Package {
	path, ok := s.imports[target.Pkg]
	if !ok {
		return nil
	}

	for _, imp := range s.pkg.Types.Imports() {
		if imp.Path() == path {
			return imp
		}
	}

	return nil
}

// checkExternal compares external names with the external package when it
// is available, filling in external types it can resolve.
func (s *packageScan) checkExternal(td *descriptor.TypeDescriptor) {
	if td.Target.Kind != descriptor.ExprNamed || td.Target.Pkg == "" {
		return
	}

	ext := s.externalPackage(td.Target)
	if ext == nil {
		s.res.Diagnostics.AddInfo("external_not_loaded",
			fmt.Sprintf("package %q is not imported; external names are not checked", td.Target.Pkg), td.Name, "")
		return
	}

	obj, ok := ext.Scope().Lookup(td.Target.Name).(*types.TypeName)
	if !ok {
		s.res.Diagnostics.AddErrorWithSuggestions("unknown_target",
			fmt.Sprintf("type %s not found in %s", td.Target.Name, ext.Path()),
			td.Name, "", match.Suggest(td.Target.Name, exportedTypeNames(ext), maxSuggestions))
		return
	}

	switch td.Form {
	case descriptor.FormStruct:
		s.checkExternalFields(td, obj)
	case descriptor.FormEnum:
		s.checkExternalConstants(td, ext, obj)
	case descriptor.FormOneof:
		s.checkExternalWrappers(td, ext)
	}
}

func (s *packageScan) checkExternalFields(td *descriptor.TypeDescriptor, obj *types.TypeName) {
	st, ok := obj.Type().Underlying().(*types.Struct)
	if !ok {
		s.res.Diagnostics.AddError("target_kind_mismatch",
			fmt.Sprintf("%s is not a struct", td.Target), td.Name, "")
		return
	}

	fields := exportedFields(st)

	for i := range td.Fields {
		f := &td.Fields[i]
		if f.Skip {
			continue
		}

		ef, ok := fields[f.TargetName()]
		if !ok {
			s.res.Diagnostics.AddErrorWithSuggestions("unknown_external_field",
				fmt.Sprintf("%s has no field %s", td.Target, f.TargetName()),
				td.Name, f.LocalName, match.Suggest(f.TargetName(), mapKeys(fields), maxSuggestions))

			continue
		}

		if f.ExternalType == nil {
			f.ExternalType, _ = s.typeExpr(ef.Type())
		}
	}
}

func (s *packageScan) checkExternalConstants(td *descriptor.TypeDescriptor, ext *types.Package, obj *types.TypeName) {
	var known []string

	for _, name := range ext.Scope().Names() {
		c, ok := ext.Scope().Lookup(name).(*types.Const)
		if ok && types.Identical(c.Type(), obj.Type()) {
			known = append(known, match.StripArmPrefix(name, td.ArmPrefix))
		}
	}

	for i := range td.Variants {
		v := &td.Variants[i]
		if v.Skip {
			continue
		}

		if _, ok := ext.Scope().Lookup(td.ArmPrefix + v.TargetName()).(*types.Const); !ok {
			s.res.Diagnostics.AddErrorWithSuggestions("unknown_external_arm",
				fmt.Sprintf("%s has no constant %s%s", ext.Name(), td.ArmPrefix, v.TargetName()),
				td.Name, v.LocalName, match.Suggest(v.TargetName(), known, maxSuggestions))
		}
	}
}

func (s *packageScan) checkExternalWrappers(td *descriptor.TypeDescriptor, ext *types.Package) {
	var known []string

	for _, name := range ext.Scope().Names() {
		if td.ArmPrefix != "" && strings.HasPrefix(name, td.ArmPrefix) {
			known = append(known, match.StripArmPrefix(name, td.ArmPrefix))
		}
	}

	for i := range td.Variants {
		v := &td.Variants[i]
		if v.Skip || v.Shape == descriptor.VariantStructPayload {
			continue
		}

		wrapper, ok := ext.Scope().Lookup(td.ArmPrefix + v.TargetName()).(*types.TypeName)
		if !ok {
			s.res.Diagnostics.AddErrorWithSuggestions("unknown_external_arm",
				fmt.Sprintf("%s has no type %s%s", ext.Name(), td.ArmPrefix, v.TargetName()),
				td.Name, v.LocalName, match.Suggest(v.TargetName(), known, maxSuggestions))

			continue
		}

		if v.Payload == nil {
			continue
		}

		st, ok := wrapper.Type().Underlying().(*types.Struct)
		if !ok {
			continue
		}

		fields := exportedFields(st)
		if ef, ok := fields[v.Payload.ExternalField]; ok {
			v.Payload.ExternalType, _ = s.typeExpr(ef.Type())
		} else if len(fields) == 1 {
			for name, ef := range fields {
				v.Payload.ExternalField = name
				v.Payload.ExternalType, _ = s.typeExpr(ef.Type())
			}
		} else {
			s.res.Diagnostics.AddErrorWithSuggestions("unknown_external_field",
				fmt.Sprintf("%s%s has no field %s", td.ArmPrefix, v.TargetName(), v.Payload.ExternalField),
				td.Name, v.LocalName, match.Suggest(v.Payload.ExternalField, mapKeys(fields), maxSuggestions))
		}
	}
}

func exportedFields(st *types.Struct) map[string]*types.Var {
	fields := make(map[string]*types.Var, st.NumFields())

	for i := range st.NumFields() {
		if f := st.Field(i); f.Exported() {
			fields[f.Name()] = f
		}
	}

	return fields
}

func exportedTypeNames(p *types.Package) []string {
	var names []string

	for _, name := range p.Scope().Names() {
		if _, ok := p.Scope().Lookup(name).(*types.TypeName); ok && token.IsExported(name) {
			names = append(names, name)
		}
	}

	return names
}

func mapKeys(m map[string]*types.Var) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	return keys
}
