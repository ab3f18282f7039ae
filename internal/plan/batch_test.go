package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dto-generator/internal/descriptor"
)

func brokenType() descriptor.TypeDescriptor {
	return descriptor.TypeDescriptor{
		Name: "Broken",
		Form: descriptor.FormOneof,
		Variants: []descriptor.VariantDescriptor{
			{LocalName: "Pair", Shape: descriptor.VariantStructPayload},
		},
	}
}

func TestPlanAll_FailureIsolatedPerType(t *testing.T) {
	types := []descriptor.TypeDescriptor{taskType(), brokenType(), methodType()}

	b, err := DefaultSynthesizer().PlanAll(context.Background(), types, BatchOptions{Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, b.Results, 3)

	assert.Equal(t, "Task", b.Results[0].Type.Name)
	require.NoError(t, b.Results[0].Err)
	assert.NotNil(t, b.Results[0].ToExternal)
	assert.NotNil(t, b.Results[0].FromExternal)

	assert.Equal(t, "Broken", b.Results[1].Type.Name)
	require.ErrorIs(t, b.Results[1].Err, ErrUnsupportedShape)
	assert.Nil(t, b.Results[1].ToExternal)
	assert.Empty(t, b.Results[1].Plans())

	assert.Equal(t, "Method", b.Results[2].Type.Name)
	assert.Len(t, b.Results[2].Plans(), 2)

	require.Len(t, b.Failed(), 1)
	require.Len(t, b.Diagnostics.Errors, 1)
	assert.Equal(t, CodeUnsupportedShape, b.Diagnostics.Errors[0].Code)
	assert.Equal(t, "Broken", b.Diagnostics.Errors[0].TypePair)
}

func TestPlanAll_RespectsDirections(t *testing.T) {
	td := taskType()
	td.Directions = []descriptor.DirectionKind{descriptor.KindFromExternal}

	b, err := DefaultSynthesizer().PlanAll(context.Background(), []descriptor.TypeDescriptor{td}, BatchOptions{})
	require.NoError(t, err)
	assert.Nil(t, b.Results[0].ToExternal)
	assert.NotNil(t, b.Results[0].FromExternal)
}

func TestPlanAll_Diagnostics(t *testing.T) {
	skipped := descriptor.TypeDescriptor{
		Name:     "Gone",
		Form:     descriptor.FormEnum,
		Variants: []descriptor.VariantDescriptor{{LocalName: "A", Skip: true}},
	}
	empty := descriptor.TypeDescriptor{Name: "Empty"}

	b, err := DefaultSynthesizer().PlanAll(context.Background(), []descriptor.TypeDescriptor{skipped, empty}, BatchOptions{})
	require.NoError(t, err)
	assert.False(t, b.Diagnostics.HasErrors())
	require.Len(t, b.Diagnostics.Warnings, 1)
	assert.Equal(t, CodeAllArmsSkipped, b.Diagnostics.Warnings[0].Code)
	require.Len(t, b.Diagnostics.Infos, 1)
	assert.Equal(t, CodeNoFields, b.Diagnostics.Infos[0].Code)
}

func TestPlanAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DefaultSynthesizer().PlanAll(ctx, []descriptor.TypeDescriptor{taskType()}, BatchOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPlanAll_MatchesSequentialPlanning(t *testing.T) {
	var types []descriptor.TypeDescriptor
	for range 20 {
		types = append(types, taskType(), methodType())
	}

	s := DefaultSynthesizer()

	b, err := s.PlanAll(context.Background(), types, BatchOptions{Concurrency: 8})
	require.NoError(t, err)

	for i := range types {
		want, err := s.PlanType(&types[i], toExt)
		require.NoError(t, err)
		assert.Equal(t, want, b.Results[i].ToExternal)
	}
}
