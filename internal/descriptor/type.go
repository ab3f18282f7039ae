package descriptor

// Form is the kind of domain type being converted.
type Form int

const (
	FormStruct Form = iota // record with named fields
	FormEnum               // sum type whose arms are constants
	FormOneof              // sum type whose arms are wrapper types behind an interface
)

// String returns a human-readable form name.
func (f Form) String() string {
	switch f {
	case FormStruct:
		return "struct"
	case FormEnum:
		return "enum"
	case FormOneof:
		return "oneof"
	default:
		return "unknown"
	}
}

// ParseForm parses the form names used in descriptor files.
func ParseForm(s string) (Form, bool) {
	switch s {
	case "struct":
		return FormStruct, true
	case "enum":
		return FormEnum, true
	case "oneof":
		return FormOneof, true
	default:
		return 0, false
	}
}

// TypeDescriptor is a domain type paired with its external counterpart.
type TypeDescriptor struct {
	// Name is the domain type name.
	Name string
	// Target is the external type.
	Target *TypeExpr
	Form   Form

	// ArmPrefix is prepended to external arm names (e.g. "HttpMethod_" for
	// protoc-gen-go enum constants).
	ArmPrefix string
	// LocalArmPrefix is prepended to domain arm names when rendering.
	LocalArmPrefix string
	// NonExhaustive adds a fallback arm to generated matches.
	NonExhaustive bool
	// Directions lists the passes to generate. Empty means both.
	Directions []DirectionKind

	Fields   []FieldDescriptor
	Variants []VariantDescriptor
}

// IsSum reports whether the type is converted arm by arm.
func (t *TypeDescriptor) IsSum() bool {
	return t.Form == FormEnum || t.Form == FormOneof
}

// Generates reports whether the given pass is requested for this type.
func (t *TypeDescriptor) Generates(kind DirectionKind) bool {
	if len(t.Directions) == 0 {
		return true
	}

	for _, k := range t.Directions {
		if k == kind {
			return true
		}
	}

	return false
}
