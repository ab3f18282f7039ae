package descriptor

// DirectionKind names one of the two conversion passes.
type DirectionKind int

const (
	// KindToExternal converts a domain value into the external representation.
	KindToExternal DirectionKind = iota
	// KindFromExternal converts an external value back into the domain type.
	KindFromExternal
)

// Kinds lists both directions in generation order.
var Kinds = []DirectionKind{KindToExternal, KindFromExternal}

// String returns a human-readable direction name.
func (k DirectionKind) String() string {
	switch k {
	case KindToExternal:
		return "to_external"
	case KindFromExternal:
		return "from_external"
	default:
		return "unknown"
	}
}

// ParseDirectionKind parses the names accepted in descriptor files.
func ParseDirectionKind(s string) (DirectionKind, bool) {
	switch s {
	case "to_external", "into", "to":
		return KindToExternal, true
	case "from_external", "from":
		return KindFromExternal, true
	default:
		return 0, false
	}
}

// Mapper references a user-supplied conversion function.
type Mapper struct {
	// Func is the function reference as it appears in generated code (e.g. "strconv.Itoa").
	Func string
	// ByRef passes a reference to the value instead of the value itself.
	ByRef bool
}

// IntoDirectives are the field directives that only apply to ToExternal.
type IntoDirectives struct {
	Mapper *Mapper
}

// FromDirectives are the field directives that only apply to FromExternal.
type FromDirectives struct {
	Mapper *Mapper
	// AlwaysAbsent makes an optional domain field always empty after FromExternal.
	AlwaysAbsent bool
}

// Direction is the tagged union threaded through every planning decision.
// Only ToExternal and FromExternal implement it, so a ToExternal value can
// never carry FromExternal-only directives.
type Direction interface {
	Kind() DirectionKind
	// CustomMapper returns the mapper configured for this direction, or nil.
	CustomMapper() *Mapper
	// ForcesAbsent is only ever true for FromExternal with AlwaysAbsent set.
	ForcesAbsent() bool

	sealed()
}

// ToExternal is the domain → external pass.
type ToExternal struct {
	IntoDirectives
}

// Kind implements Direction.
func (ToExternal) Kind() DirectionKind { return KindToExternal }

// CustomMapper implements Direction.
func (d ToExternal) CustomMapper() *Mapper { return d.Mapper }

// ForcesAbsent implements Direction.
func (ToExternal) ForcesAbsent() bool { return false }

func (ToExternal) sealed() {}

// FromExternal is the external → domain pass.
type FromExternal struct {
	FromDirectives
}

// Kind implements Direction.
func (FromExternal) Kind() DirectionKind { return KindFromExternal }

// CustomMapper implements Direction.
func (d FromExternal) CustomMapper() *Mapper { return d.Mapper }

// ForcesAbsent implements Direction.
func (d FromExternal) ForcesAbsent() bool { return d.AlwaysAbsent }

func (FromExternal) sealed() {}
