// Package shape classifies a declared field type into the single container
// shape that drives conversion planning.
//
// Only the outermost constructor is inspected: []*T is a Sequence whose
// inner type happens to be a pointer, never an Optional.
package shape

import (
	"slices"

	"dto-generator/internal/descriptor"
)

// Kind is the container shape of a declared type.
type Kind int

const (
	Scalar Kind = iota
	Optional
	Sequence
	Associative
)

// String returns a human-readable shape name.
func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Optional:
		return "optional"
	case Sequence:
		return "sequence"
	case Associative:
		return "associative"
	default:
		return "unknown"
	}
}

// Flavor distinguishes hash maps from ordered maps.
type Flavor int

const (
	Unordered Flavor = iota
	Ordered
)

// String returns a human-readable flavor name.
func (f Flavor) String() string {
	if f == Ordered {
		return "ordered"
	}

	return "unordered"
}

// Shape is the classification result. Inner is set for Optional and
// Sequence; Key and Value for Associative.
type Shape struct {
	Kind   Kind
	Inner  *descriptor.TypeExpr
	Key    *descriptor.TypeExpr
	Value  *descriptor.TypeExpr
	Flavor Flavor
}

// String renders the shape, e.g. "optional(string)" or "associative[ordered](string, int)".
func (s Shape) String() string {
	switch s.Kind {
	case Optional, Sequence:
		return s.Kind.String() + "(" + s.Inner.String() + ")"
	case Associative:
		return s.Kind.String() + "[" + s.Flavor.String() + "](" + s.Key.String() + ", " + s.Value.String() + ")"
	default:
		return s.Kind.String()
	}
}

// Config names the generic types recognized as containers in addition to
// Go's built-in pointer, slice and map constructors. Names match either the
// bare type name or "pkg.Name".
type Config struct {
	OptionalNames     []string
	SequenceNames     []string
	UnorderedMapNames []string
	OrderedMapNames   []string
}

// DefaultConfig returns the default classifier configuration.
func DefaultConfig() Config {
	return Config{
		OptionalNames:     []string{"Option", "Optional"},
		SequenceNames:     []string{"Vec", "List"},
		UnorderedMapNames: []string{"HashMap"},
		OrderedMapNames:   []string{"BTreeMap", "OrderedMap", "orderedmap.Map", "orderedmap.OrderedMap"},
	}
}

// Classifier assigns exactly one Shape to a declared type.
type Classifier struct {
	config Config
}

// NewClassifier creates a Classifier with the given configuration.
func NewClassifier(config Config) *Classifier {
	return &Classifier{config: config}
}

var defaultClassifier = NewClassifier(DefaultConfig())

// Classify classifies t with the default configuration.
func Classify(t *descriptor.TypeExpr) Shape {
	return defaultClassifier.Classify(t)
}

// Classify tries Optional, Sequence, unordered Associative and ordered
// Associative in that order; the first structural match wins. Anything
// else, including a nil type, is Scalar.
func (c *Classifier) Classify(t *descriptor.TypeExpr) Shape {
	if t == nil {
		return Shape{Kind: Scalar}
	}

	if inner, ok := c.optional(t); ok {
		return Shape{Kind: Optional, Inner: inner}
	}

	if inner, ok := c.sequence(t); ok {
		return Shape{Kind: Sequence, Inner: inner}
	}

	if key, val, ok := c.unorderedMap(t); ok {
		return Shape{Kind: Associative, Key: key, Value: val, Flavor: Unordered}
	}

	if key, val, ok := c.orderedMap(t); ok {
		return Shape{Kind: Associative, Key: key, Value: val, Flavor: Ordered}
	}

	return Shape{Kind: Scalar}
}

func (c *Classifier) optional(t *descriptor.TypeExpr) (*descriptor.TypeExpr, bool) {
	if t.Kind == descriptor.ExprPointer {
		return t.Elem, true
	}

	if args, ok := genericArgs(t, c.config.OptionalNames, 1); ok {
		return args[0], true
	}

	return nil, false
}

func (c *Classifier) sequence(t *descriptor.TypeExpr) (*descriptor.TypeExpr, bool) {
	if t.Kind == descriptor.ExprSlice {
		return t.Elem, true
	}

	if args, ok := genericArgs(t, c.config.SequenceNames, 1); ok {
		return args[0], true
	}

	return nil, false
}

func (c *Classifier) unorderedMap(t *descriptor.TypeExpr) (*descriptor.TypeExpr, *descriptor.TypeExpr, bool) {
	if t.Kind == descriptor.ExprMap {
		return t.Key, t.Elem, true
	}

	if args, ok := genericArgs(t, c.config.UnorderedMapNames, 2); ok {
		return args[0], args[1], true
	}

	return nil, nil, false
}

func (c *Classifier) orderedMap(t *descriptor.TypeExpr) (*descriptor.TypeExpr, *descriptor.TypeExpr, bool) {
	if args, ok := genericArgs(t, c.config.OrderedMapNames, 2); ok {
		return args[0], args[1], true
	}

	return nil, nil, false
}

// genericArgs matches a named generic instance with exactly n type arguments.
func genericArgs(t *descriptor.TypeExpr, names []string, n int) ([]*descriptor.TypeExpr, bool) {
	if t.Kind != descriptor.ExprNamed || len(t.Args) != n {
		return nil, false
	}

	if slices.Contains(names, t.Name) || slices.Contains(names, t.QualifiedName()) {
		return t.Args, true
	}

	return nil, false
}
