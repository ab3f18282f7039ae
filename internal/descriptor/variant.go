package descriptor

// VariantShape is the payload layout of a sum-type arm.
type VariantShape int

const (
	VariantUnit          VariantShape = iota // no payload
	VariantSinglePayload                     // exactly one positional value
	VariantStructPayload                     // several named fields; recognized but unsupported
)

// String returns a human-readable shape name.
func (s VariantShape) String() string {
	switch s {
	case VariantUnit:
		return "unit"
	case VariantSinglePayload:
		return "single"
	case VariantStructPayload:
		return "struct"
	default:
		return "unknown"
	}
}

// ParseVariantShape parses the shape names used in descriptor files.
func ParseVariantShape(s string) (VariantShape, bool) {
	switch s {
	case "", "unit":
		return VariantUnit, true
	case "single", "tuple", "newtype":
		return VariantSinglePayload, true
	case "struct":
		return VariantStructPayload, true
	default:
		return 0, false
	}
}

// Payload carries the rendering details of a single-payload arm.
type Payload struct {
	LocalField    string    // field holding the value in the domain arm wrapper
	ExternalField string    // field holding the value in the external arm wrapper
	LocalType     *TypeExpr // payload type on the domain side
	ExternalType  *TypeExpr // payload type on the external side
}

// VariantDescriptor describes one arm of a domain sum type.
type VariantDescriptor struct {
	LocalName    string
	ExternalName string // empty means LocalName
	Shape        VariantShape
	Skip         bool
	Payload      *Payload
	// PointerArm is set when only the pointer to the domain arm wrapper
	// implements the sum interface.
	PointerArm bool
}

// TargetName returns the external arm name, defaulting to LocalName.
func (v *VariantDescriptor) TargetName() string {
	if v.ExternalName != "" {
		return v.ExternalName
	}

	return v.LocalName
}

// SourceName is the arm matched on in the given pass.
func (v *VariantDescriptor) SourceName(kind DirectionKind) string {
	if kind == KindToExternal {
		return v.LocalName
	}

	return v.TargetName()
}

// DestinationName is the arm produced in the given pass.
func (v *VariantDescriptor) DestinationName(kind DirectionKind) string {
	if kind == KindToExternal {
		return v.TargetName()
	}

	return v.LocalName
}
