package plan

import (
	"strings"

	"dto-generator/internal/descriptor"
	"dto-generator/internal/shape"
)

//go:generate go tool stringer -type=OpKind,Scope,CollectKind -linecomment -output=opkind_string.go

// OpKind is one operation in a transform plan.
type OpKind int

const (
	// OpOmit - produce nothing for this field or arm.
	OpOmit OpKind = iota // omit
	// OpDefault - assign the destination type's default value.
	OpDefault // default
	// OpAbsent - emit the empty Optional constant, ignoring the source.
	OpAbsent // absent
	// OpUnwrap - unwrap the external Optional before any other processing; aborts when empty.
	OpUnwrap // unwrap
	// OpWrapPresent - wrap the raw value into a present Optional.
	OpWrapPresent // wrap-present
	// OpMapElement - apply a custom mapper or the generic conversion.
	OpMapElement // map-element
	// OpCollect - collect mapped elements into the destination container.
	OpCollect // collect
	// OpForceUnwrap - unwrap the mapped Optional; aborts when empty.
	OpForceUnwrap // force-unwrap
	// OpRename - write the result to the named destination.
	OpRename // rename
)

// Scope is the part of the value a map-element step applies to.
type Scope int

const (
	ScopeValue    Scope = iota // value
	ScopeInner                 // inner
	ScopeElements              // elements
	ScopeKeys                  // keys
	ScopeValues                // values
	ScopePayload               // payload
)

// CollectKind is the destination container of a collect step.
type CollectKind int

const (
	CollectSequence     CollectKind = iota // sequence
	CollectUnorderedMap                    // unordered-map
	CollectOrderedMap                      // ordered-map
)

// ReasonRequired marks an unwrap step caused by the required directive.
const ReasonRequired = "required"

// Step is a single operation of a TransformPlan. Only the fields relevant to
// Op are set.
type Step struct {
	Op OpKind
	// Scope and Mapper apply to OpMapElement. A nil Mapper is the generic conversion.
	Scope  Scope
	Mapper *descriptor.Mapper
	// Collect applies to OpCollect.
	Collect CollectKind
	// Reason applies to OpUnwrap.
	Reason string
	// Name applies to OpRename.
	Name string
}

// IsGeneric reports whether a map-element step uses the generic conversion.
func (s Step) IsGeneric() bool {
	return s.Op == OpMapElement && s.Mapper == nil
}

// String renders the step, e.g. "map-element(elements, M, by-ref)".
func (s Step) String() string {
	switch s.Op {
	case OpMapElement:
		args := []string{s.Scope.String()}
		if s.Mapper == nil {
			args = append(args, "generic")
		} else {
			args = append(args, s.Mapper.Func)
			if s.Mapper.ByRef {
				args = append(args, "by-ref")
			}
		}

		return s.Op.String() + "(" + strings.Join(args, ", ") + ")"
	case OpCollect:
		return s.Op.String() + "(" + s.Collect.String() + ")"
	case OpUnwrap:
		return s.Op.String() + "(" + s.Reason + ")"
	case OpRename:
		return s.Op.String() + "(" + s.Name + ")"
	default:
		return s.Op.String()
	}
}

// Subject tells field plans from variant plans.
type Subject int

const (
	SubjectField Subject = iota
	SubjectVariant
)

// TransformPlan is the ordered list of operations that converts one field or
// arm in one direction.
type TransformPlan struct {
	Subject   Subject
	Direction descriptor.DirectionKind
	// Name is the domain-side name of the field or arm.
	Name string
	// Source is read from, Destination is written to.
	Source      string
	Destination string
	// Shape is the classified container shape (fields only).
	Shape shape.Shape
	// VariantShape is the arm payload shape (variants only).
	VariantShape descriptor.VariantShape
	Steps        []Step
}

// Ops returns the operation kinds in order.
func (p *TransformPlan) Ops() []OpKind {
	ops := make([]OpKind, len(p.Steps))
	for i, s := range p.Steps {
		ops[i] = s.Op
	}

	return ops
}

// Omitted reports whether the plan produces nothing.
func (p *TransformPlan) Omitted() bool {
	return len(p.Steps) == 1 && p.Steps[0].Op == OpOmit
}

// Has reports whether the plan contains an operation of the given kind.
func (p *TransformPlan) Has(op OpKind) bool {
	for _, s := range p.Steps {
		if s.Op == op {
			return true
		}
	}

	return false
}

// String renders the plan as "Name: step -> step -> ...".
func (p *TransformPlan) String() string {
	parts := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		parts[i] = s.String()
	}

	return p.Name + ": " + strings.Join(parts, " -> ")
}

func omit() Step { return Step{Op: OpOmit} }

func assignDefault() Step { return Step{Op: OpDefault} }

func absent() Step { return Step{Op: OpAbsent} }

func unwrap(reason string) Step { return Step{Op: OpUnwrap, Reason: reason} }

func wrapPresent() Step { return Step{Op: OpWrapPresent} }

func forceUnwrap() Step { return Step{Op: OpForceUnwrap} }

func mapElement(scope Scope, m *descriptor.Mapper) Step {
	return Step{Op: OpMapElement, Scope: scope, Mapper: m}
}

func collect(kind CollectKind) Step { return Step{Op: OpCollect, Collect: kind} }

func rename(name string) Step { return Step{Op: OpRename, Name: name} }
