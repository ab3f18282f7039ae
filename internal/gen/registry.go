package gen

import (
	"dto-generator/internal/descriptor"
	"dto-generator/internal/plan"
)

// converter is a generated conversion function.
type converter struct {
	name string
	in   *descriptor.TypeExpr
	out  *descriptor.TypeExpr
}

// registry indexes the conversion functions generated for a batch, so that
// generic conversions between planned types call them.
type registry struct {
	// converters is keyed by "in -> out".
	converters map[string]converter
	// external maps a planned domain type name to its external value type.
	external map[string]*descriptor.TypeExpr
	// failed holds the planned types whose functions are not generated.
	failed map[string]bool
}

func newRegistry(results []plan.TypeResult) *registry {
	r := &registry{
		converters: make(map[string]converter),
		external:   make(map[string]*descriptor.TypeExpr),
		failed:     make(map[string]bool),
	}

	for i := range results {
		res := &results[i]

		local, ext := signatureTypes(res.Type)
		r.external[res.Type.Name] = ext

		if res.Err != nil {
			r.failed[res.Type.Name] = true
			continue
		}

		for _, tp := range res.Plans() {
			c := converter{name: tp.FuncName(), in: local, out: ext}
			if tp.Direction == descriptor.KindFromExternal {
				c.in, c.out = ext, local
			}

			r.converters[convKey(c.in, c.out)] = c
		}
	}

	return r
}

// signatureTypes returns the parameter and result types of the generated
// functions. Records are converted pointer to pointer so that nil maps to
// nil and external messages are never copied.
func signatureTypes(td *descriptor.TypeDescriptor) (local, ext *descriptor.TypeExpr) {
	local = descriptor.Named(td.Name)
	ext = td.Target

	if td.Form == descriptor.FormStruct {
		return descriptor.PointerTo(local), descriptor.PointerTo(ext)
	}

	return local, ext
}

func convKey(in, out *descriptor.TypeExpr) string {
	return in.String() + " -> " + out.String()
}

func (r *registry) lookup(in, out *descriptor.TypeExpr) (converter, bool) {
	if in == nil || out == nil {
		return converter{}, false
	}

	c, ok := r.converters[convKey(in, out)]

	return c, ok
}

// failedRef returns a failed planned type that t refers to, looking through
// containers and type arguments.
func (r *registry) failedRef(t *descriptor.TypeExpr) (string, bool) {
	if t == nil {
		return "", false
	}

	if t.Kind == descriptor.ExprNamed && t.Pkg == "" && r.failed[t.Name] {
		return t.Name, true
	}

	for _, sub := range append([]*descriptor.TypeExpr{t.Elem, t.Key}, t.Args...) {
		if name, ok := r.failedRef(sub); ok {
			return name, true
		}
	}

	return "", false
}

// externalOf maps a domain type to the external type the generated code
// produces for it: planned types become their targets, containers map
// their elements, everything else is unchanged.
func (r *registry) externalOf(t *descriptor.TypeExpr) *descriptor.TypeExpr {
	if t == nil {
		return nil
	}

	switch t.Kind {
	case descriptor.ExprPointer:
		inner := r.externalOf(t.Elem)
		if inner.Kind == descriptor.ExprPointer {
			return inner
		}

		return descriptor.PointerTo(inner)
	case descriptor.ExprSlice:
		return descriptor.SliceOf(r.externalOf(t.Elem))
	case descriptor.ExprArray:
		out := *t
		out.Elem = r.externalOf(t.Elem)

		return &out
	case descriptor.ExprMap:
		return descriptor.MapOf(r.externalOf(t.Key), r.externalOf(t.Elem))
	}

	if t.Pkg == "" && len(t.Args) == 0 {
		if ext, ok := r.external[t.Name]; ok {
			return ext
		}
	}

	if len(t.Args) == 0 {
		return t
	}

	out := *t
	out.Args = make([]*descriptor.TypeExpr, len(t.Args))

	for i, a := range t.Args {
		out.Args[i] = r.externalOf(a)
	}

	return &out
}
