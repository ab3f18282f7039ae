package descriptor

// FieldDescriptor describes one field of a domain record type.
type FieldDescriptor struct {
	// LocalName is the field identifier in the domain type.
	LocalName string
	// ExternalName is the identifier in the external type. Empty means LocalName.
	ExternalName string
	// DeclaredType is the domain-side type; it only feeds shape classification.
	DeclaredType *TypeExpr
	// ExternalType is the external-side type, when known. Planning never reads it.
	ExternalType *TypeExpr

	// Skip excludes the field from ToExternal and defaults it in FromExternal.
	Skip bool
	// Required declares that external optionality disagrees with the local shape.
	Required bool

	Into IntoDirectives
	From FromDirectives
}

// TargetName returns the external field name, defaulting to LocalName.
func (f *FieldDescriptor) TargetName() string {
	if f.ExternalName != "" {
		return f.ExternalName
	}

	return f.LocalName
}

// Direction returns the tagged Direction value carrying this field's
// directives for the given pass.
func (f *FieldDescriptor) Direction(kind DirectionKind) Direction {
	if kind == KindFromExternal {
		return FromExternal{FromDirectives: f.From}
	}

	return ToExternal{IntoDirectives: f.Into}
}

// SourceName is the name read from in the given pass.
func (f *FieldDescriptor) SourceName(kind DirectionKind) string {
	if kind == KindToExternal {
		return f.LocalName
	}

	return f.TargetName()
}

// DestinationName is the name written to in the given pass.
func (f *FieldDescriptor) DestinationName(kind DirectionKind) string {
	if kind == KindToExternal {
		return f.TargetName()
	}

	return f.LocalName
}
