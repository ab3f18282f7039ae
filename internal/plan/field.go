package plan

import (
	"dto-generator/internal/descriptor"
	"dto-generator/internal/shape"
)

// requiredKey indexes the required adjustment table.
type requiredKey struct {
	optional bool
	kind     descriptor.DirectionKind
}

// adjustment is what the required directive adds around the base plan.
type adjustment struct {
	pre  []Step
	post []Step
	expl string
}

// requiredTable is the complete decision table for required fields.
// Optional fields are unwrapped after mapping going out and wrapped going
// in; non-optional fields are unwrapped from the external Optional going in.
var requiredTable = map[requiredKey]adjustment{
	{optional: true, kind: descriptor.KindToExternal}: {
		post: []Step{forceUnwrap()},
		expl: "optional local, required external: unwrap after mapping",
	},
	{optional: true, kind: descriptor.KindFromExternal}: {
		pre:  []Step{wrapPresent()},
		expl: "required external, optional local: wrap into present",
	},
	{optional: false, kind: descriptor.KindToExternal}: {
		expl: "non-optional local: external accepts the value as is",
	},
	{optional: false, kind: descriptor.KindFromExternal}: {
		pre:  []Step{unwrap(ReasonRequired)},
		expl: "optional external, required local: unwrap before mapping",
	},
}

// Field plans the conversion of one record field in the given direction.
// It never fails: every (shape, directive) combination has a plan.
func (s *Synthesizer) Field(f *descriptor.FieldDescriptor, dir descriptor.Direction) TransformPlan {
	kind := dir.Kind()
	sh := s.classifier.Classify(f.DeclaredType)

	p := TransformPlan{
		Subject:     SubjectField,
		Direction:   kind,
		Name:        f.LocalName,
		Source:      f.SourceName(kind),
		Destination: f.DestinationName(kind),
		Shape:       sh,
	}

	if f.Skip {
		p.Steps = skipSteps(kind, f.LocalName)
		return p
	}

	// Forcing absence ignores the source entirely, which makes any required
	// adjustment moot.
	if dir.ForcesAbsent() && sh.Kind == shape.Optional {
		p.Steps = []Step{absent(), rename(f.LocalName)}
		return p
	}

	steps := baseSteps(sh, dir.CustomMapper())

	if f.Required {
		adj := requiredTable[requiredKey{optional: sh.Kind == shape.Optional, kind: kind}]
		steps = append(append(append([]Step{}, adj.pre...), steps...), adj.post...)
	}

	p.Steps = append(steps, rename(p.Destination))

	return p
}

// RequiredExplanation describes the adjustment the required directive makes
// for the given shape and direction.
func RequiredExplanation(sh shape.Kind, kind descriptor.DirectionKind) string {
	return requiredTable[requiredKey{optional: sh == shape.Optional, kind: kind}].expl
}

func skipSteps(kind descriptor.DirectionKind, local string) []Step {
	if kind == descriptor.KindToExternal {
		return []Step{omit()}
	}

	return []Step{assignDefault(), rename(local)}
}

// baseSteps maps the contents of the container and rebuilds it. A nil mapper
// selects the generic conversion.
func baseSteps(sh shape.Shape, m *descriptor.Mapper) []Step {
	switch sh.Kind {
	case shape.Optional:
		return []Step{mapElement(ScopeInner, m)}
	case shape.Sequence:
		return []Step{mapElement(ScopeElements, m), collect(CollectSequence)}
	case shape.Associative:
		kind := CollectUnorderedMap
		if sh.Flavor == shape.Ordered {
			kind = CollectOrderedMap
		}

		// Keys always go through the generic conversion.
		return []Step{mapElement(ScopeKeys, nil), mapElement(ScopeValues, m), collect(kind)}
	default:
		if m != nil {
			return []Step{mapElement(ScopeValue, m), mapElement(ScopeValue, nil)}
		}

		return []Step{mapElement(ScopeValue, nil)}
	}
}
