package plan

import (
	"errors"
	"fmt"

	"dto-generator/internal/descriptor"
)

// ErrUnsupportedShape is returned for sum-type arms whose payload has
// several named fields.
var ErrUnsupportedShape = errors.New("unsupported variant shape")

// UnsupportedShapeError reports the arm that could not be planned.
type UnsupportedShapeError struct {
	Variant string
	Shape   descriptor.VariantShape
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("variant %s: %s payload is not supported", e.Variant, e.Shape)
}

// Unwrap lets errors.Is match ErrUnsupportedShape.
func (e *UnsupportedShapeError) Unwrap() error {
	return ErrUnsupportedShape
}

// Variant plans the conversion of one sum-type arm. The payload shape is
// validated before skip is honored, so a skipped struct-payload arm still
// fails.
func (s *Synthesizer) Variant(v *descriptor.VariantDescriptor, dir descriptor.Direction) (TransformPlan, error) {
	kind := dir.Kind()

	if v.Shape != descriptor.VariantUnit && v.Shape != descriptor.VariantSinglePayload {
		return TransformPlan{}, &UnsupportedShapeError{Variant: v.LocalName, Shape: v.Shape}
	}

	p := TransformPlan{
		Subject:      SubjectVariant,
		Direction:    kind,
		Name:         v.LocalName,
		Source:       v.SourceName(kind),
		Destination:  v.DestinationName(kind),
		VariantShape: v.Shape,
	}

	if v.Skip {
		p.Steps = []Step{omit()}
		return p, nil
	}

	if v.Shape == descriptor.VariantSinglePayload {
		p.Steps = append(p.Steps, mapElement(ScopePayload, nil))
	}

	p.Steps = append(p.Steps, rename(p.Destination))

	return p, nil
}
