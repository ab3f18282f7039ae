package plan

import (
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dto-generator/internal/descriptor"
	"dto-generator/internal/shape"
)

var (
	toExt   = descriptor.KindToExternal
	fromExt = descriptor.KindFromExternal
)

func stepStrings(p TransformPlan) []string {
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.String()
	}

	return out
}

func field(name, typ string) descriptor.FieldDescriptor {
	return descriptor.FieldDescriptor{LocalName: name, DeclaredType: descriptor.MustParseTypeExpr(typ)}
}

func planField(f descriptor.FieldDescriptor, kind descriptor.DirectionKind) TransformPlan {
	return DefaultSynthesizer().Field(&f, f.Direction(kind))
}

func TestField_Plans(t *testing.T) {
	m := &descriptor.Mapper{Func: "M"}
	mRef := &descriptor.Mapper{Func: "M", ByRef: true}

	tests := []struct {
		name  string
		field descriptor.FieldDescriptor
		kind  descriptor.DirectionKind
		want  []string
	}{
		{
			name:  "scalar generic",
			field: field("Limit", "uint32"),
			kind:  toExt,
			want:  []string{"map-element(value, generic)", "rename(Limit)"},
		},
		{
			name: "scalar with mapper keeps generic tail",
			field: func() descriptor.FieldDescriptor {
				f := field("At", "time.Time")
				f.Into.Mapper = m
				return f
			}(),
			kind: toExt,
			want: []string{"map-element(value, M)", "map-element(value, generic)", "rename(At)"},
		},
		{
			name: "scalar required into adds nothing",
			field: func() descriptor.FieldDescriptor {
				f := field("Payload", "pb.Payload")
				f.Required = true
				return f
			}(),
			kind: toExt,
			want: []string{"map-element(value, generic)", "rename(Payload)"},
		},
		{
			name: "scalar required from unwraps first",
			field: func() descriptor.FieldDescriptor {
				f := field("Payload", "pb.Payload")
				f.Required = true
				return f
			}(),
			kind: fromExt,
			want: []string{"unwrap(required)", "map-element(value, generic)", "rename(Payload)"},
		},
		{
			name:  "optional",
			field: field("Note", "*string"),
			kind:  fromExt,
			want:  []string{"map-element(inner, generic)", "rename(Note)"},
		},
		{
			// Scenario: cron Optional<String>, required, ToExternal.
			name: "optional required into",
			field: func() descriptor.FieldDescriptor {
				f := field("Cron", "*string")
				f.Required = true
				return f
			}(),
			kind: toExt,
			want: []string{"map-element(inner, generic)", "force-unwrap", "rename(Cron)"},
		},
		{
			name: "optional required from",
			field: func() descriptor.FieldDescriptor {
				f := field("Cron", "*string")
				f.Required = true
				f.From.Mapper = m
				return f
			}(),
			kind: fromExt,
			want: []string{"wrap-present", "map-element(inner, M)", "rename(Cron)"},
		},
		{
			// Scenario: foo Sequence<u32>, required, FromExternal, by-ref mapper.
			name: "sequence required from by-ref",
			field: func() descriptor.FieldDescriptor {
				f := field("Foo", "[]uint32")
				f.Required = true
				f.From.Mapper = mRef
				return f
			}(),
			kind: fromExt,
			want: []string{"unwrap(required)", "map-element(elements, M, by-ref)", "collect(sequence)", "rename(Foo)"},
		},
		{
			name: "map keys never use the mapper",
			field: func() descriptor.FieldDescriptor {
				f := field("Labels", "map[string]Label")
				f.Into.Mapper = m
				return f
			}(),
			kind: toExt,
			want: []string{"map-element(keys, generic)", "map-element(values, M)", "collect(unordered-map)", "rename(Labels)"},
		},
		{
			name:  "ordered map",
			field: field("Index", "orderedmap.Map[int32, Item]"),
			kind:  fromExt,
			want:  []string{"map-element(keys, generic)", "map-element(values, generic)", "collect(ordered-map)", "rename(Index)"},
		},
		{
			name: "renamed field writes to external name",
			field: descriptor.FieldDescriptor{
				LocalName: "Timepoints", ExternalName: "RunAt",
				DeclaredType: descriptor.MustParseTypeExpr("[]int64"),
			},
			kind: toExt,
			want: []string{"map-element(elements, generic)", "collect(sequence)", "rename(RunAt)"},
		},
		{
			name: "skip into",
			field: func() descriptor.FieldDescriptor {
				f := field("Cache", "map[string]int")
				f.Skip = true
				return f
			}(),
			kind: toExt,
			want: []string{"omit"},
		},
		{
			name: "skip from",
			field: func() descriptor.FieldDescriptor {
				f := field("Cache", "map[string]int")
				f.Skip = true
				f.Required = true
				f.From.Mapper = m
				return f
			}(),
			kind: fromExt,
			want: []string{"default", "rename(Cache)"},
		},
		{
			name: "always absent overrides required",
			field: func() descriptor.FieldDescriptor {
				f := field("Data", "*Data")
				f.Required = true
				f.From.AlwaysAbsent = true
				return f
			}(),
			kind: fromExt,
			want: []string{"absent", "rename(Data)"},
		},
		{
			name: "always absent is ignored going out",
			field: func() descriptor.FieldDescriptor {
				f := field("Data", "*Data")
				f.From.AlwaysAbsent = true
				return f
			}(),
			kind: toExt,
			want: []string{"map-element(inner, generic)", "rename(Data)"},
		},
		{
			name: "always absent on non-optional is ignored",
			field: func() descriptor.FieldDescriptor {
				f := field("Count", "int")
				f.From.AlwaysAbsent = true
				return f
			}(),
			kind: fromExt,
			want: []string{"map-element(value, generic)", "rename(Count)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := planField(tt.field, tt.kind)
			if diff := cmp.Diff(tt.want, stepStrings(got)); diff != "" {
				t.Errorf("plan mismatch (-want +got):\n%s\n%s", diff, spew.Sdump(got))
			}
		})
	}
}

func TestField_Names(t *testing.T) {
	f := descriptor.FieldDescriptor{
		LocalName: "Timepoints", ExternalName: "RunAt",
		DeclaredType: descriptor.MustParseTypeExpr("[]int64"),
	}

	into := planField(f, toExt)
	assert.Equal(t, "Timepoints", into.Source)
	assert.Equal(t, "RunAt", into.Destination)

	from := planField(f, fromExt)
	assert.Equal(t, "RunAt", from.Source)
	assert.Equal(t, "Timepoints", from.Destination)
	assert.Equal(t, "rename(Timepoints)", from.Steps[len(from.Steps)-1].String())
}

// combination enumerates the full directive space of one field.
type combination struct {
	typ          string
	kind         shape.Kind
	required     bool
	skip         bool
	alwaysAbsent bool
	mapper       bool
	dir          descriptor.DirectionKind
}

func (c combination) String() string {
	return fmt.Sprintf("%s/req=%t/skip=%t/absent=%t/mapper=%t/%s",
		c.typ, c.required, c.skip, c.alwaysAbsent, c.mapper, c.dir)
}

func (c combination) field() descriptor.FieldDescriptor {
	f := field("F", c.typ)
	f.ExternalName = "G"
	f.Required = c.required
	f.Skip = c.skip
	f.From.AlwaysAbsent = c.alwaysAbsent

	if c.mapper {
		f.Into.Mapper = &descriptor.Mapper{Func: "IntoM"}
		f.From.Mapper = &descriptor.Mapper{Func: "FromM", ByRef: true}
	}

	return f
}

func allCombinations() []combination {
	types := []struct {
		typ  string
		kind shape.Kind
	}{
		{"int64", shape.Scalar},
		{"*string", shape.Optional},
		{"[]uint32", shape.Sequence},
		{"map[string]int", shape.Associative},
		{"BTreeMap[string, int]", shape.Associative},
	}

	var out []combination

	for _, tt := range types {
		for _, required := range []bool{false, true} {
			for _, skip := range []bool{false, true} {
				for _, alwaysAbsent := range []bool{false, true} {
					for _, mapper := range []bool{false, true} {
						for _, dir := range descriptor.Kinds {
							out = append(out, combination{
								typ: tt.typ, kind: tt.kind, required: required, skip: skip,
								alwaysAbsent: alwaysAbsent, mapper: mapper, dir: dir,
							})
						}
					}
				}
			}
		}
	}

	return out
}

func indexOf(p TransformPlan, op OpKind) int {
	for i, s := range p.Steps {
		if s.Op == op {
			return i
		}
	}

	return -1
}

func firstMapIndex(p TransformPlan) int {
	return indexOf(p, OpMapElement)
}

func lastMapIndex(p TransformPlan) int {
	last := -1
	for i, s := range p.Steps {
		if s.Op == OpMapElement {
			last = i
		}
	}

	return last
}

func TestField_AllCombinations(t *testing.T) {
	s := DefaultSynthesizer()

	for _, c := range allCombinations() {
		t.Run(c.String(), func(t *testing.T) {
			f := c.field()
			p := s.Field(&f, f.Direction(c.dir))

			// Deterministic.
			again := s.Field(&f, f.Direction(c.dir))
			require.Equal(t, p, again)
			require.NotEmpty(t, p.Steps)
			assert.Equal(t, c.kind, p.Shape.Kind)

			switch {
			case c.skip && c.dir == toExt:
				assert.Equal(t, []OpKind{OpOmit}, p.Ops())
				assert.True(t, p.Omitted())

				return
			case c.skip:
				assert.Equal(t, []OpKind{OpDefault, OpRename}, p.Ops())
				return
			}

			last := p.Steps[len(p.Steps)-1]
			require.Equal(t, OpRename, last.Op)

			if c.dir == toExt {
				assert.Equal(t, "G", last.Name)
			} else {
				assert.Equal(t, "F", last.Name)
			}

			if c.alwaysAbsent && c.dir == fromExt && c.kind == shape.Optional {
				assert.Equal(t, []OpKind{OpAbsent, OpRename}, p.Ops())
				return
			}

			assert.False(t, p.Has(OpAbsent))

			// Keys never see the custom mapper.
			for _, st := range p.Steps {
				if st.Op == OpMapElement && st.Scope == ScopeKeys {
					assert.True(t, st.IsGeneric())
				}
			}

			switch {
			case !c.required:
				assert.False(t, p.Has(OpUnwrap))
				assert.False(t, p.Has(OpWrapPresent))
				assert.False(t, p.Has(OpForceUnwrap))
			case c.kind == shape.Optional && c.dir == toExt:
				assert.Greater(t, indexOf(p, OpForceUnwrap), lastMapIndex(p))
				assert.False(t, p.Has(OpWrapPresent))
			case c.kind == shape.Optional:
				assert.Equal(t, 0, indexOf(p, OpWrapPresent))
				assert.Less(t, indexOf(p, OpWrapPresent), firstMapIndex(p))
				assert.False(t, p.Has(OpForceUnwrap))
			case c.dir == fromExt:
				assert.Equal(t, OpUnwrap, p.Steps[0].Op)
				assert.Equal(t, ReasonRequired, p.Steps[0].Reason)
			default:
				assert.False(t, p.Has(OpUnwrap))
				assert.False(t, p.Has(OpWrapPresent))
				assert.False(t, p.Has(OpForceUnwrap))
			}

			if c.kind == shape.Sequence || c.kind == shape.Associative {
				assert.Equal(t, OpCollect, p.Steps[len(p.Steps)-2].Op)
			}
		})
	}
}

func TestField_ScalarSymmetricAcrossDirections(t *testing.T) {
	f := descriptor.FieldDescriptor{
		LocalName: "Name", ExternalName: "DisplayName",
		DeclaredType: descriptor.MustParseTypeExpr("string"),
	}

	into := planField(f, toExt)
	from := planField(f, fromExt)

	assert.Equal(t, into.Ops(), from.Ops())
	assert.Equal(t, into.Steps[0], from.Steps[0])
	assert.NotEqual(t, into.Destination, from.Destination)
}

func TestField_OptionalPreservesAbsence(t *testing.T) {
	f := field("Note", "Option[string]")

	for _, kind := range descriptor.Kinds {
		p := planField(f, kind)
		assert.Equal(t, []OpKind{OpMapElement, OpRename}, p.Ops(), kind.String())
		assert.Equal(t, ScopeInner, p.Steps[0].Scope)
	}
}

func TestField_DirectionScopedMapper(t *testing.T) {
	f := field("At", "[]int64")
	f.Into.Mapper = &descriptor.Mapper{Func: "encode"}

	into := planField(f, toExt)
	from := planField(f, fromExt)

	assert.Equal(t, "encode", into.Steps[0].Mapper.Func)
	assert.True(t, from.Steps[0].IsGeneric())
}

func TestRequiredExplanation(t *testing.T) {
	for _, k := range []shape.Kind{shape.Scalar, shape.Optional, shape.Sequence, shape.Associative} {
		for _, d := range descriptor.Kinds {
			assert.NotEmpty(t, RequiredExplanation(k, d))
		}
	}
}
