package gen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dto-generator/internal/descriptor"
	"dto-generator/internal/plan"
	"dto-generator/internal/shape"
)

// ErrUnsupportedType is returned when a planned field uses a container the
// renderer cannot express.
var ErrUnsupportedType = errors.New("unsupported type for rendering")

// ErrDependencyFailed is returned for a type that uses another planned type
// whose functions could not be generated.
var ErrDependencyFailed = errors.New("depends on a type that was not generated")

// operand is a value expression together with the expression of its address.
type operand struct {
	expr string
	// ptr is "" when the value is not addressable.
	ptr string
	typ *descriptor.TypeExpr
}

func fieldOperand(recv, name string, typ *descriptor.TypeExpr) operand {
	sel := recv + "." + name
	return operand{expr: sel, ptr: "&" + sel, typ: typ}
}

// pointerParam is a closure parameter received by pointer.
func pointerParam(name string, typ *descriptor.TypeExpr) operand {
	return operand{expr: "*" + name, ptr: name, typ: typ}
}

// valueParam is an addressable variable.
func valueParam(name string, typ *descriptor.TypeExpr) operand {
	return operand{expr: name, ptr: "&" + name, typ: typ}
}

func (o operand) addr() string {
	if o.ptr != "" {
		return o.ptr
	}

	return "dtoPtr(" + o.expr + ")"
}

// recv returns the operand in a form usable as a method receiver.
func (o operand) recv() string {
	if strings.HasPrefix(o.expr, "*") {
		return "(" + o.expr + ")"
	}

	return o.expr
}

// renderer builds the expressions of one generated file and records the
// package qualifiers they use.
type renderer struct {
	reg   *registry
	quals map[string]struct{}
	// err is the first rendering failure; expressions keep rendering after it.
	err error
}

func newRenderer(reg *registry) *renderer {
	return &renderer{reg: reg, quals: make(map[string]struct{})}
}

func (r *renderer) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *renderer) typeName(t *descriptor.TypeExpr) string {
	for _, q := range t.Qualifiers() {
		r.quals[q] = struct{}{}
	}

	return t.String()
}

func (r *renderer) funcName(fn string) string {
	if q, _, ok := strings.Cut(fn, "."); ok {
		r.quals[q] = struct{}{}
	}

	return fn
}

// conv renders the generic conversion of op to the given type: identity,
// a generated converter of another planned type, a pointer lift, or a Go
// type conversion.
func (r *renderer) conv(op operand, to *descriptor.TypeExpr) string {
	if to == nil || op.typ == nil || op.typ.Equal(to) {
		return op.expr
	}

	if c, ok := r.reg.lookup(op.typ, to); ok {
		return c.name + "(" + op.expr + ")"
	}

	if op.ptr != "" {
		if c, ok := r.reg.lookup(descriptor.PointerTo(op.typ), to); ok {
			return c.name + "(" + op.ptr + ")"
		}
	}

	if to.Kind == descriptor.ExprPointer {
		if op.typ.Kind != descriptor.ExprPointer {
			return "dtoPtr(" + r.conv(op, to.Elem) + ")"
		}

		return "(" + r.typeName(to) + ")(" + op.expr + ")"
	}

	if c, ok := r.reg.lookup(op.typ, descriptor.PointerTo(to)); ok {
		return "*" + c.name + "(" + op.expr + ")"
	}

	if op.ptr != "" {
		if c, ok := r.reg.lookup(descriptor.PointerTo(op.typ), descriptor.PointerTo(to)); ok {
			return "*" + c.name + "(" + op.ptr + ")"
		}
	}

	if from, dst := basicKindOf(op.typ), basicKindOf(to); !convertible(from, dst) {
		r.fail(fmt.Errorf("%w: no generic conversion from %s to %s, declare a mapper",
			ErrUnsupportedType, op.typ, to))
	}

	return r.typeName(to) + "(" + op.expr + ")"
}

// mapValue applies a custom mapper, or the generic conversion when m is nil.
// A mapper is expected to return the destination type.
func (r *renderer) mapValue(op operand, to *descriptor.TypeExpr, m *descriptor.Mapper) string {
	if m == nil {
		return r.conv(op, to)
	}

	if m.ByRef {
		return r.funcName(m.Func) + "(" + op.addr() + ")"
	}

	return r.funcName(m.Func) + "(" + op.expr + ")"
}

// elemFunc renders a closure converting one element received by pointer.
func (r *renderer) elemFunc(from, to *descriptor.TypeExpr, m *descriptor.Mapper) string {
	body := r.mapValue(pointerParam("x", from), to, m)
	return fmt.Sprintf("func(x *%s) %s { return %s }", r.typeName(from), r.typeName(to), body)
}

func (r *renderer) keyFunc(from, to *descriptor.TypeExpr) string {
	body := r.conv(valueParam("k", from), to)
	return fmt.Sprintf("func(k %s) %s { return %s }", r.typeName(from), r.typeName(to), body)
}

// fieldPlan carries what the expression builder needs from a field plan.
type fieldPlan struct {
	plan *plan.TransformPlan
	// path names the field in abort messages, e.g. "Task.Cron".
	path   string
	src    *descriptor.TypeExpr
	dst    *descriptor.TypeExpr
	mapper *descriptor.Mapper
}

func (fp *fieldPlan) has(op plan.OpKind) bool { return fp.plan.Has(op) }

// externalType returns the declared external type of f or derives it from
// the domain type and the required directive.
func (r *renderer) externalType(f *descriptor.FieldDescriptor, sh shape.Shape) *descriptor.TypeExpr {
	if f.ExternalType != nil {
		return f.ExternalType
	}

	ext := r.reg.externalOf(f.DeclaredType)
	if !f.Required {
		return ext
	}

	if sh.Kind == shape.Optional && ext.Kind == descriptor.ExprPointer {
		return ext.Elem
	}

	if ext.Kind == descriptor.ExprPointer {
		return ext
	}

	return descriptor.PointerTo(ext)
}

func newFieldPlan(r *renderer, typeName string, f *descriptor.FieldDescriptor, tp *plan.TransformPlan) *fieldPlan {
	ext := r.externalType(f, tp.Shape)

	fp := &fieldPlan{plan: tp, path: typeName + "." + tp.Source, src: f.DeclaredType, dst: ext}
	if tp.Direction == descriptor.KindFromExternal {
		fp.src, fp.dst = ext, f.DeclaredType
	}

	for _, s := range tp.Steps {
		if s.Op == plan.OpMapElement && s.Scope != plan.ScopeKeys && s.Mapper != nil {
			fp.mapper = s.Mapper
		}
	}

	return fp
}

// fieldExpr renders the expression producing the destination field. ok is
// false when the field is left out of the composite literal.
func (r *renderer) fieldExpr(fp *fieldPlan) (expr string, ok bool, err error) {
	if fp.has(plan.OpOmit) || fp.has(plan.OpDefault) {
		return "", false, nil
	}

	if fp.has(plan.OpAbsent) {
		return "nil", true, nil
	}

	op := fieldOperand("in", fp.plan.Source, fp.src)

	if fp.has(plan.OpUnwrap) {
		if fp.src.Kind != descriptor.ExprPointer {
			return "", false, fmt.Errorf("%w: required field %s has non-pointer external type %s",
				ErrUnsupportedType, fp.path, fp.src)
		}

		must := "dtoMust(" + op.expr + ", " + strconv.Quote(fp.path) + ")"
		op = operand{expr: "*" + must, ptr: must, typ: fp.src.Elem}
	}

	switch fp.plan.Shape.Kind {
	case shape.Optional:
		expr, err = r.optionalExpr(fp, op)
	case shape.Sequence:
		expr, err = r.sequenceExpr(fp, op)
	case shape.Associative:
		expr, err = r.associativeExpr(fp, op)
	default:
		expr = r.mapValue(op, fp.dst, fp.mapper)
	}

	if err != nil {
		return "", false, err
	}

	return expr, true, nil
}

func (r *renderer) optionalExpr(fp *fieldPlan, op operand) (string, error) {
	local := fp.src
	if fp.plan.Direction == descriptor.KindFromExternal {
		local = fp.dst
	}

	if local.Kind != descriptor.ExprPointer {
		return "", fmt.Errorf("%w: optional field %s must be a pointer, got %s", ErrUnsupportedType, fp.path, local)
	}

	// Present external value wrapped into the domain pointer.
	if fp.has(plan.OpWrapPresent) {
		return "dtoPtr(" + r.mapValue(op, local.Elem, fp.mapper) + ")", nil
	}

	if fp.has(plan.OpForceUnwrap) {
		mapped := op.expr
		if fp.mapper != nil || !fp.src.Elem.Equal(fp.dst) {
			mapped = "dtoMapPtr(" + op.expr + ", " + r.elemFunc(fp.src.Elem, fp.dst, fp.mapper) + ")"
		}

		return "*dtoMust(" + mapped + ", " + strconv.Quote(fp.path) + ")", nil
	}

	// Generated record converters already map nil to nil.
	if fp.mapper == nil {
		if c, ok := r.reg.lookup(fp.src, fp.dst); ok {
			return c.name + "(" + op.expr + ")", nil
		}
	}

	if fp.src.Kind != descriptor.ExprPointer || fp.dst.Kind != descriptor.ExprPointer {
		return "", fmt.Errorf("%w: optional field %s needs pointer types on both sides, got %s and %s",
			ErrUnsupportedType, fp.path, fp.src, fp.dst)
	}

	return "dtoMapPtr(" + op.expr + ", " + r.elemFunc(fp.src.Elem, fp.dst.Elem, fp.mapper) + ")", nil
}

// collected splits off a pointer the container result has to be lifted into.
func collected(dst *descriptor.TypeExpr) (*descriptor.TypeExpr, bool) {
	if dst.Kind == descriptor.ExprPointer {
		return dst.Elem, true
	}

	return dst, false
}

func lift(expr string, wrap bool) string {
	if wrap {
		return "dtoPtr(" + expr + ")"
	}

	return expr
}

func (r *renderer) sequenceExpr(fp *fieldPlan, op operand) (string, error) {
	dst, wrap := collected(fp.dst)

	if op.typ.Kind != descriptor.ExprSlice || dst.Kind != descriptor.ExprSlice {
		return "", fmt.Errorf("%w: sequence field %s must be a slice on both sides, got %s and %s",
			ErrUnsupportedType, fp.path, op.typ, dst)
	}

	expr := "dtoMapSlice(" + op.expr + ", " + r.elemFunc(op.typ.Elem, dst.Elem, fp.mapper) + ")"

	return lift(expr, wrap), nil
}

func (r *renderer) associativeExpr(fp *fieldPlan, op operand) (string, error) {
	dst, wrap := collected(fp.dst)

	if fp.plan.Shape.Flavor == shape.Unordered {
		if op.typ.Kind != descriptor.ExprMap || dst.Kind != descriptor.ExprMap {
			return "", fmt.Errorf("%w: map field %s must be a built-in map on both sides, got %s and %s",
				ErrUnsupportedType, fp.path, op.typ, dst)
		}

		expr := "dtoMapMap(" + op.expr + ", " + r.keyFunc(op.typ.Key, dst.Key) + ", " +
			r.elemFunc(op.typ.Elem, dst.Elem, fp.mapper) + ")"

		return lift(expr, wrap), nil
	}

	if len(op.typ.Args) != 2 || len(dst.Args) != 2 {
		return "", fmt.Errorf("%w: ordered map field %s must be a generic type with key and value arguments, got %s and %s",
			ErrUnsupportedType, fp.path, op.typ, dst)
	}

	key := r.conv(valueParam("k", op.typ.Args[0]), dst.Args[0])
	value := r.mapValue(valueParam("x", op.typ.Args[1]), dst.Args[1], fp.mapper)
	out := r.typeName(dst)

	var sb strings.Builder

	fmt.Fprintf(&sb, "func() %s {\n", out)
	fmt.Fprintf(&sb, "var out %s\n", out)
	fmt.Fprintf(&sb, "for k, x := range %s.All() {\n", op.recv())
	fmt.Fprintf(&sb, "out.Set(%s, %s)\n", key, value)
	sb.WriteString("}\n\nreturn out\n}()")

	return lift(sb.String(), wrap), nil
}
