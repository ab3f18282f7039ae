package plan

import (
	"errors"
	"fmt"
	"strings"

	"dto-generator/internal/descriptor"
)

// TypePlan is the full conversion procedure for one type in one direction.
type TypePlan struct {
	Type      *descriptor.TypeDescriptor
	Direction descriptor.DirectionKind
	// Fields holds one plan per record field, in declaration order.
	Fields []TransformPlan
	// Arms holds one plan per sum-type arm, in declaration order.
	Arms []TransformPlan
	// Fallback adds a catch-all arm for non-exhaustive sum types.
	Fallback bool
}

// FuncName is the name of the generated conversion function.
func (tp *TypePlan) FuncName() string {
	if tp.Direction == descriptor.KindToExternal {
		return tp.Type.Name + "ToExternal"
	}

	return tp.Type.Name + "FromExternal"
}

// String renders the type plan, one field or arm per line.
func (tp *TypePlan) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s (%s)\n", tp.Type.Name, tp.Direction)

	for i := range tp.Fields {
		sb.WriteString("  " + tp.Fields[i].String() + "\n")
	}

	for i := range tp.Arms {
		sb.WriteString("  " + tp.Arms[i].String() + "\n")
	}

	if tp.Fallback {
		sb.WriteString("  _: fallback\n")
	}

	return sb.String()
}

// PlanType plans every field or arm of td in the given direction. Every arm
// is planned even after a failure so that all unsupported arms are reported
// together.
func (s *Synthesizer) PlanType(td *descriptor.TypeDescriptor, kind descriptor.DirectionKind) (*TypePlan, error) {
	tp := &TypePlan{Type: td, Direction: kind}

	if !td.IsSum() {
		tp.Fields = make([]TransformPlan, 0, len(td.Fields))
		for i := range td.Fields {
			f := &td.Fields[i]
			tp.Fields = append(tp.Fields, s.Field(f, f.Direction(kind)))
		}

		return tp, nil
	}

	dir := directionOf(kind)

	var errs []error

	tp.Arms = make([]TransformPlan, 0, len(td.Variants))
	for i := range td.Variants {
		arm, err := s.Variant(&td.Variants[i], dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		tp.Arms = append(tp.Arms, arm)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("type %s (%s): %w", td.Name, kind, errors.Join(errs...))
	}

	tp.Fallback = td.NonExhaustive

	return tp, nil
}

// directionOf returns a Direction without field directives; arms never carry any.
func directionOf(kind descriptor.DirectionKind) descriptor.Direction {
	if kind == descriptor.KindFromExternal {
		return descriptor.FromExternal{}
	}

	return descriptor.ToExternal{}
}
