package gen

import (
	"fmt"
	"go/token"
	"strings"

	"dto-generator/internal/descriptor"
	"dto-generator/internal/plan"
)

// funcData is one generated conversion function.
type funcData struct {
	Name   string
	Param  string
	Result string
	Doc    string
	Body   string
}

func (r *renderer) function(tp *plan.TypePlan) (funcData, error) {
	td := tp.Type
	local, ext := signatureTypes(td)

	fn := funcData{Name: tp.FuncName(), Param: r.typeName(local), Result: r.typeName(ext)}
	if tp.Direction == descriptor.KindFromExternal {
		fn.Param, fn.Result = fn.Result, fn.Param
	}

	fn.Doc = fmt.Sprintf("converts %s to %s.", fn.Param, fn.Result)

	var err error

	switch td.Form {
	case descriptor.FormEnum:
		fn.Body = r.enumBody(tp)
	case descriptor.FormOneof:
		fn.Body, err = r.oneofBody(tp)
	default:
		fn.Body, err = r.structBody(tp)
	}

	if err == nil {
		err = r.err
	}

	if err != nil {
		return funcData{}, fmt.Errorf("%s: %w", fn.Name, err)
	}

	return fn, nil
}

func (r *renderer) structBody(tp *plan.TypePlan) (string, error) {
	td := tp.Type

	out := descriptor.Named(td.Name)
	if tp.Direction == descriptor.KindToExternal {
		out = td.Target
	}

	var sb strings.Builder

	sb.WriteString("\tif in == nil {\n\t\treturn nil\n\t}\n\n")
	fmt.Fprintf(&sb, "\treturn &%s{\n", r.typeName(out))

	for i := range tp.Fields {
		if err := r.checkRef(td.Name, &tp.Fields[i], td.Fields[i].DeclaredType); err != nil {
			return "", err
		}

		fp := newFieldPlan(r, td.Name, &td.Fields[i], &tp.Fields[i])

		expr, ok, err := r.fieldExpr(fp)
		if err != nil {
			return "", err
		}

		if ok {
			fmt.Fprintf(&sb, "\t\t%s: %s,\n", tp.Fields[i].Destination, expr)
		}
	}

	sb.WriteString("\t}\n")

	return sb.String(), nil
}

// checkRef rejects a field or arm that converts a value of a type that
// failed planning or rendering.
func (r *renderer) checkRef(typeName string, tp *plan.TransformPlan, t *descriptor.TypeExpr) error {
	if tp.Omitted() || tp.Has(plan.OpDefault) || tp.Has(plan.OpAbsent) {
		return nil
	}

	if name, ok := r.reg.failedRef(t); ok {
		return fmt.Errorf("%w: %s.%s uses %s", ErrDependencyFailed, typeName, tp.Name, name)
	}

	return nil
}

// externalArm qualifies an external arm name with the target package.
func (r *renderer) externalArm(td *descriptor.TypeDescriptor, name string) string {
	name = td.ArmPrefix + name
	if td.Target.Pkg == "" {
		return name
	}

	r.quals[td.Target.Pkg] = struct{}{}

	return td.Target.Pkg + "." + name
}

func (r *renderer) fallback(tp *plan.TypePlan, result string) string {
	if tp.Fallback {
		return fmt.Sprintf("\tvar zero %s\n\n\treturn zero\n", result)
	}

	return fmt.Sprintf("\tpanic(%q)\n", "dto: unhandled "+tp.Type.Name+" value")
}

func (r *renderer) enumBody(tp *plan.TypePlan) string {
	td := tp.Type

	var sb strings.Builder

	sb.WriteString("\tswitch in {\n")

	for i := range tp.Arms {
		arm := &tp.Arms[i]
		if arm.Omitted() {
			continue
		}

		v := &td.Variants[i]
		local := td.LocalArmPrefix + v.LocalName
		ext := r.externalArm(td, v.TargetName())

		if tp.Direction == descriptor.KindToExternal {
			fmt.Fprintf(&sb, "\tcase %s:\n\t\treturn %s\n", local, ext)
		} else {
			fmt.Fprintf(&sb, "\tcase %s:\n\t\treturn %s\n", ext, local)
		}
	}

	sb.WriteString("\t}\n\n")

	result := td.Name
	if tp.Direction == descriptor.KindToExternal {
		result = r.typeName(td.Target)
	}

	sb.WriteString(r.fallback(tp, result))

	return sb.String()
}

func (r *renderer) oneofBody(tp *plan.TypePlan) (string, error) {
	td := tp.Type
	if !token.IsExported(td.Target.Name) {
		return "", fmt.Errorf("%w: oneof target %s is unexported", ErrUnsupportedType, td.Target)
	}

	var (
		cases   strings.Builder
		useBind bool
	)

	for i := range tp.Arms {
		arm := &tp.Arms[i]
		if arm.Omitted() {
			continue
		}

		v := &td.Variants[i]
		local := td.LocalArmPrefix + v.LocalName
		ext := r.externalArm(td, v.TargetName())

		// localCase is matched in the type switch, localLit builds a new arm.
		localCase, localLit := local, local
		if v.PointerArm {
			localCase, localLit = "*"+local, "&"+local
		}

		if v.Shape == descriptor.VariantUnit || v.Payload == nil {
			if tp.Direction == descriptor.KindToExternal {
				fmt.Fprintf(&cases, "\tcase %s:\n\t\treturn &%s{}\n", localCase, ext)
			} else {
				fmt.Fprintf(&cases, "\tcase *%s:\n\t\treturn %s{}\n", ext, localLit)
			}

			continue
		}

		useBind = true
		p := v.Payload

		if err := r.checkRef(td.Name, arm, p.LocalType); err != nil {
			return "", err
		}

		extType := p.ExternalType
		if extType == nil {
			extType = r.reg.externalOf(p.LocalType)
		}

		if tp.Direction == descriptor.KindToExternal {
			value := r.conv(fieldOperand("v", p.LocalField, p.LocalType), extType)
			fmt.Fprintf(&cases, "\tcase %s:\n\t\treturn &%s{%s: %s}\n", localCase, ext, p.ExternalField, value)
		} else {
			value := r.conv(fieldOperand("v", p.ExternalField, extType), p.LocalType)
			fmt.Fprintf(&cases, "\tcase *%s:\n\t\treturn %s{%s: %s}\n", ext, localLit, p.LocalField, value)
		}
	}

	var sb strings.Builder

	if useBind {
		sb.WriteString("\tswitch v := in.(type) {\n")
	} else {
		sb.WriteString("\tswitch in.(type) {\n")
	}

	sb.WriteString("\tcase nil:\n\t\treturn nil\n")
	sb.WriteString(cases.String())
	sb.WriteString("\t}\n\n")

	result := td.Name
	if tp.Direction == descriptor.KindToExternal {
		result = r.typeName(td.Target)
	}

	sb.WriteString(r.fallback(tp, result))

	return sb.String(), nil
}
