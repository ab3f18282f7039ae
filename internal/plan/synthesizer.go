package plan

import (
	"dto-generator/internal/shape"
)

// Synthesizer turns descriptors into TransformPlans. It holds no mutable
// state and is safe for concurrent use.
type Synthesizer struct {
	classifier *shape.Classifier
}

// NewSynthesizer creates a Synthesizer that classifies field types with the
// given container configuration.
func NewSynthesizer(config shape.Config) *Synthesizer {
	return &Synthesizer{classifier: shape.NewClassifier(config)}
}

// DefaultSynthesizer creates a Synthesizer with shape.DefaultConfig.
func DefaultSynthesizer() *Synthesizer {
	return NewSynthesizer(shape.DefaultConfig())
}
