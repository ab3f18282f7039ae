package gen

import (
	"context"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dto-generator/internal/descriptor"
	"dto-generator/internal/plan"
)

var testImports = map[string]string{
	"pb":          "example.com/api/pb",
	"timestamppb": "google.golang.org/protobuf/types/known/timestamppb",
	"orderedmap":  "example.com/orderedmap",
}

func typ(s string) *descriptor.TypeExpr { return descriptor.MustParseTypeExpr(s) }

func itemType() descriptor.TypeDescriptor {
	return descriptor.TypeDescriptor{
		Name:   "Item",
		Target: typ("pb.Item"),
		Fields: []descriptor.FieldDescriptor{
			{LocalName: "ID", ExternalName: "Id", DeclaredType: typ("string")},
		},
	}
}

func methodType() descriptor.TypeDescriptor {
	return descriptor.TypeDescriptor{
		Name:      "Method",
		Target:    typ("pb.HttpMethod"),
		Form:      descriptor.FormEnum,
		ArmPrefix: "HttpMethod_",
		Variants: []descriptor.VariantDescriptor{
			{LocalName: "MethodGet", ExternalName: "GET"},
			{LocalName: "MethodPost", ExternalName: "POST"},
			{LocalName: "MethodTrace", Skip: true},
		},
	}
}

func bodyType() descriptor.TypeDescriptor {
	return descriptor.TypeDescriptor{
		Name:           "Body",
		Target:         typ("pb.RequestBody"),
		Form:           descriptor.FormOneof,
		ArmPrefix:      "Request_",
		LocalArmPrefix: "Body_",
		Variants: []descriptor.VariantDescriptor{
			{
				LocalName: "Text",
				Shape:     descriptor.VariantSinglePayload,
				Payload: &descriptor.Payload{
					LocalField:    "Value",
					ExternalField: "Text",
					LocalType:     typ("string"),
				},
			},
			{LocalName: "Empty", Shape: descriptor.VariantUnit},
		},
	}
}

func taskType() descriptor.TypeDescriptor {
	return descriptor.TypeDescriptor{
		Name:   "Task",
		Target: typ("pb.Task"),
		Fields: []descriptor.FieldDescriptor{
			{LocalName: "Name", DeclaredType: typ("string")},
			{LocalName: "Cron", DeclaredType: typ("*string"), Required: true},
			{LocalName: "Retries", DeclaredType: typ("int64"), ExternalType: typ("int32")},
			{LocalName: "Item", DeclaredType: typ("Item"), Required: true},
			{LocalName: "Items", DeclaredType: typ("[]Item")},
			{LocalName: "Method", DeclaredType: typ("Method")},
			{LocalName: "Body", DeclaredType: typ("Body")},
			{LocalName: "Labels", DeclaredType: typ("map[string]int32"), ExternalType: typ("map[string]int64")},
			{
				LocalName:    "Tags",
				DeclaredType: typ("[]string"),
				Into:         descriptor.IntoDirectives{Mapper: &descriptor.Mapper{Func: "strings.ToUpper"}},
			},
			{
				LocalName:    "Note",
				DeclaredType: typ("*string"),
				From:         descriptor.FromDirectives{AlwaysAbsent: true},
			},
			{LocalName: "Secret", DeclaredType: typ("string"), Skip: true},
			{
				LocalName:    "RunAt",
				ExternalName: "StartTime",
				DeclaredType: typ("time.Time"),
				ExternalType: typ("*timestamppb.Timestamp"),
				Into:         descriptor.IntoDirectives{Mapper: &descriptor.Mapper{Func: "timestamppb.New"}},
				From:         descriptor.FromDirectives{Mapper: &descriptor.Mapper{Func: "timeOf", ByRef: true}},
			},
		},
	}
}

func generate(t *testing.T, types ...descriptor.TypeDescriptor) map[string]string {
	t.Helper()

	b, err := plan.DefaultSynthesizer().PlanAll(context.Background(), types, plan.BatchOptions{})
	require.NoError(t, err)

	cfg := DefaultGeneratorConfig()
	cfg.OutputDir = ""

	files, err := NewGenerator(cfg).Generate(b, testImports)
	require.NoError(t, err)

	out := make(map[string]string, len(files))
	for _, f := range files {
		_, err := parser.ParseFile(token.NewFileSet(), f.Filename, f.Content, parser.AllErrors)
		require.NoError(t, err, "%s:\n%s", f.Filename, f.Content)

		out[f.Filename] = string(f.Content)
	}

	return out
}

// assertHasLine checks for a line of src, comparing with runs of whitespace
// collapsed so gofmt alignment does not matter.
func assertHasLine(t *testing.T, src, want string) {
	t.Helper()

	for line := range strings.SplitSeq(src, "\n") {
		if strings.Join(strings.Fields(line), " ") == want {
			return
		}
	}

	t.Errorf("missing line %q in:\n%s", want, src)
}

func assertNoLine(t *testing.T, src, prefix string) {
	t.Helper()

	for line := range strings.SplitSeq(src, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			t.Errorf("unexpected line %q in:\n%s", line, src)
		}
	}
}

func importPaths(t *testing.T, src string) []string {
	t.Helper()

	f, err := parser.ParseFile(token.NewFileSet(), "x.go", src, parser.ImportsOnly)
	require.NoError(t, err)

	var paths []string

	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		require.NoError(t, err)

		paths = append(paths, p)
	}

	return paths
}

func TestGenerate_Files(t *testing.T) {
	out := generate(t, itemType(), methodType(), bodyType(), taskType())

	assert.Len(t, out, 5)

	for _, name := range []string{"item_dto.go", "method_dto.go", "body_dto.go", "task_dto.go", "dto_helpers.go"} {
		require.Contains(t, out, name)
		assert.True(t, strings.HasPrefix(out[name], "// Code generated by dto-generator. DO NOT EDIT.\n\npackage dto\n"))
	}

	assert.Empty(t, importPaths(t, out["dto_helpers.go"]))
	assert.Contains(t, out["dto_helpers.go"], "func dtoMust[T any](p *T, field string) *T {")
}

func TestGenerate_Record(t *testing.T) {
	src := generate(t, itemType(), methodType(), bodyType(), taskType())["task_dto.go"]

	assert.Equal(t, []string{
		"example.com/api/pb",
		"google.golang.org/protobuf/types/known/timestamppb",
		"strings",
	}, importPaths(t, src))

	assertHasLine(t, src, "// TaskToExternal converts *Task to *pb.Task.")
	assertHasLine(t, src, "func TaskToExternal(in *Task) *pb.Task {")
	assertHasLine(t, src, "func TaskFromExternal(in *pb.Task) *Task {")
	assertHasLine(t, src, "return &pb.Task{")
	assertHasLine(t, src, "return &Task{")

	// to external
	assertHasLine(t, src, "Name: in.Name,")
	assertHasLine(t, src, `Cron: *dtoMust(in.Cron, "Task.Cron"),`)
	assertHasLine(t, src, "Retries: int32(in.Retries),")
	assertHasLine(t, src, "Item: ItemToExternal(&in.Item),")
	assertHasLine(t, src, "Items: dtoMapSlice(in.Items, func(x *Item) *pb.Item { return ItemToExternal(x) }),")
	assertHasLine(t, src, "Method: MethodToExternal(in.Method),")
	assertHasLine(t, src, "Body: BodyToExternal(in.Body),")
	assertHasLine(t, src,
		"Labels: dtoMapMap(in.Labels, func(k string) string { return k }, func(x *int32) int64 { return int64(*x) }),")
	assertHasLine(t, src, "Tags: dtoMapSlice(in.Tags, func(x *string) string { return strings.ToUpper(*x) }),")
	assertHasLine(t, src, "Note: dtoMapPtr(in.Note, func(x *string) string { return *x }),")
	assertHasLine(t, src, "StartTime: timestamppb.New(in.RunAt),")

	// from external
	assertHasLine(t, src, "Cron: dtoPtr(in.Cron),")
	assertHasLine(t, src, "Retries: int64(in.Retries),")
	assertHasLine(t, src, `Item: *ItemFromExternal(dtoMust(in.Item, "Task.Item")),`)
	assertHasLine(t, src, "Items: dtoMapSlice(in.Items, func(x **pb.Item) Item { return *ItemFromExternal(*x) }),")
	assertHasLine(t, src, "Method: MethodFromExternal(in.Method),")
	assertHasLine(t, src,
		"Labels: dtoMapMap(in.Labels, func(k string) string { return k }, func(x *int64) int32 { return int32(*x) }),")
	assertHasLine(t, src, "Tags: dtoMapSlice(in.Tags, func(x *string) string { return *x }),")
	assertHasLine(t, src, "Note: nil,")
	assertHasLine(t, src, "RunAt: timeOf(&in.StartTime),")

	assertNoLine(t, src, "Secret:")
}

func TestGenerate_Enum(t *testing.T) {
	src := generate(t, methodType())["method_dto.go"]

	assertHasLine(t, src, "func MethodToExternal(in Method) pb.HttpMethod {")
	assertHasLine(t, src, "case MethodGet:")
	assertHasLine(t, src, "return pb.HttpMethod_GET")
	assertHasLine(t, src, "case pb.HttpMethod_POST:")
	assertHasLine(t, src, "return MethodPost")
	assertHasLine(t, src, `panic("dto: unhandled Method value")`)
	assertNoLine(t, src, "case MethodTrace")
}

func TestGenerate_EnumFallback(t *testing.T) {
	m := methodType()
	m.NonExhaustive = true

	src := generate(t, m)["method_dto.go"]

	assertHasLine(t, src, "var zero pb.HttpMethod")
	assertHasLine(t, src, "var zero Method")
	assertHasLine(t, src, "return zero")
	assertNoLine(t, src, "panic(")
}

func TestGenerate_Oneof(t *testing.T) {
	src := generate(t, bodyType())["body_dto.go"]

	assertHasLine(t, src, "func BodyToExternal(in Body) pb.RequestBody {")
	assertHasLine(t, src, "switch v := in.(type) {")
	assertHasLine(t, src, "case nil:")
	assertHasLine(t, src, "case Body_Text:")
	assertHasLine(t, src, "return &pb.Request_Text{Text: v.Value}")
	assertHasLine(t, src, "return &pb.Request_Empty{}")
	assertHasLine(t, src, "case *pb.Request_Text:")
	assertHasLine(t, src, "return Body_Text{Value: v.Text}")
	assertHasLine(t, src, "return Body_Empty{}")
}

func TestGenerate_OneofPointerArms(t *testing.T) {
	b := bodyType()
	for i := range b.Variants {
		b.Variants[i].PointerArm = true
	}

	src := generate(t, b)["body_dto.go"]

	assertHasLine(t, src, "case *Body_Text:")
	assertHasLine(t, src, "case *Body_Empty:")
	assertHasLine(t, src, "return &Body_Text{Value: v.Text}")
	assertHasLine(t, src, "return &Body_Empty{}")
	assertHasLine(t, src, "return &pb.Request_Text{Text: v.Value}")
	assertNoLine(t, src, "case Body_Text:")
}

func TestGenerate_OneofWithoutPayloads(t *testing.T) {
	b := bodyType()
	b.Variants = b.Variants[1:]

	src := generate(t, b)["body_dto.go"]

	assertHasLine(t, src, "switch in.(type) {")
	assertNoLine(t, src, "switch v :=")
}

func TestGenerate_OrderedMap(t *testing.T) {
	td := descriptor.TypeDescriptor{
		Name:   "Weights",
		Target: typ("pb.Weights"),
		Fields: []descriptor.FieldDescriptor{{
			LocalName:    "ByName",
			DeclaredType: typ("orderedmap.Map[string, int32]"),
			ExternalType: typ("orderedmap.Map[string, int64]"),
		}},
	}

	src := generate(t, td)["weights_dto.go"]

	assert.Contains(t, importPaths(t, src), "example.com/orderedmap")
	assertHasLine(t, src, "ByName: func() orderedmap.Map[string, int64] {")
	assertHasLine(t, src, "var out orderedmap.Map[string, int64]")
	assertHasLine(t, src, "for k, x := range in.ByName.All() {")
	assertHasLine(t, src, "out.Set(k, int64(x))")
}

func TestGenerate_RequiredSequenceLift(t *testing.T) {
	td := descriptor.TypeDescriptor{
		Name:   "Batch",
		Target: typ("pb.Batch"),
		Fields: []descriptor.FieldDescriptor{
			{LocalName: "IDs", DeclaredType: typ("[]string"), Required: true},
		},
	}

	src := generate(t, td)["batch_dto.go"]

	assertHasLine(t, src, "IDs: dtoPtr(dtoMapSlice(in.IDs, func(x *string) string { return *x })),")
	assertHasLine(t, src, `IDs: dtoMapSlice(*dtoMust(in.IDs, "Batch.IDs"), func(x *string) string { return *x }),`)
}

func TestGenerate_DirectionSubset(t *testing.T) {
	item := itemType()
	item.Directions = []descriptor.DirectionKind{descriptor.KindFromExternal}

	src := generate(t, item)["item_dto.go"]

	assert.Contains(t, src, "func ItemFromExternal(")
	assert.NotContains(t, src, "func ItemToExternal(")
}

func TestGenerate_SkipsFailedTypes(t *testing.T) {
	broken := bodyType()
	broken.Name = "Broken"
	broken.Variants = append(broken.Variants, descriptor.VariantDescriptor{
		LocalName: "Pair",
		Shape:     descriptor.VariantStructPayload,
	})

	out := generate(t, itemType(), broken)

	assert.Contains(t, out, "item_dto.go")
	assert.NotContains(t, out, "broken_dto.go")
}

func TestGenerate_Empty(t *testing.T) {
	files, err := NewGenerator(DefaultGeneratorConfig()).Generate(&plan.Batch{}, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestGenerate_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		td   descriptor.TypeDescriptor
	}{
		{
			name: "non-pointer optional",
			td: descriptor.TypeDescriptor{
				Name:   "Opt",
				Target: typ("pb.Opt"),
				Fields: []descriptor.FieldDescriptor{{LocalName: "V", DeclaredType: typ("Option[int]")}},
			},
		},
		{
			name: "generic sequence",
			td: descriptor.TypeDescriptor{
				Name:   "Seq",
				Target: typ("pb.Seq"),
				Fields: []descriptor.FieldDescriptor{{LocalName: "V", DeclaredType: typ("Vec[int]")}},
			},
		},
		{
			name: "integer to string",
			td: descriptor.TypeDescriptor{
				Name:   "Num",
				Target: typ("pb.Num"),
				Fields: []descriptor.FieldDescriptor{
					{LocalName: "V", DeclaredType: typ("int64"), ExternalType: typ("string")},
				},
			},
		},
		{
			name: "unexported oneof target",
			td: func() descriptor.TypeDescriptor {
				b := bodyType()
				b.Target = typ("pb.isRequest_Body")

				return b
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := plan.DefaultSynthesizer().PlanAll(context.Background(), []descriptor.TypeDescriptor{tt.td}, plan.BatchOptions{})
			require.NoError(t, err)

			_, err = NewGenerator(DefaultGeneratorConfig()).Generate(b, testImports)
			require.ErrorIs(t, err, ErrUnsupportedType)
			assert.Contains(t, err.Error(), "generating "+tt.td.Name)
		})
	}
}

func TestGenerate_RenderFailureIsolated(t *testing.T) {
	num := descriptor.TypeDescriptor{
		Name:   "Num",
		Target: typ("pb.Num"),
		Fields: []descriptor.FieldDescriptor{
			{LocalName: "V", DeclaredType: typ("int64"), ExternalType: typ("string")},
		},
	}
	// Holder comes first, so it renders against Num's converter before Num fails.
	holder := descriptor.TypeDescriptor{
		Name:   "Holder",
		Target: typ("pb.Holder"),
		Fields: []descriptor.FieldDescriptor{
			{LocalName: "Nums", DeclaredType: typ("[]Num")},
			{LocalName: "Hidden", DeclaredType: typ("*Num"), Skip: true},
		},
	}
	// A skipped field never calls the failed converter.
	keeper := descriptor.TypeDescriptor{
		Name:   "Keeper",
		Target: typ("pb.Keeper"),
		Fields: []descriptor.FieldDescriptor{
			{LocalName: "Name", DeclaredType: typ("string")},
			{LocalName: "Num", DeclaredType: typ("*Num"), Skip: true},
		},
	}

	types := []descriptor.TypeDescriptor{holder, itemType(), num, keeper}

	b, err := plan.DefaultSynthesizer().PlanAll(context.Background(), types, plan.BatchOptions{})
	require.NoError(t, err)

	files, err := NewGenerator(DefaultGeneratorConfig()).Generate(b, testImports)
	require.ErrorIs(t, err, ErrUnsupportedType)
	require.ErrorIs(t, err, ErrDependencyFailed)

	var te *TypeError
	require.ErrorAs(t, err, &te)

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}

	assert.Equal(t, []string{"item_dto.go", "keeper_dto.go", "dto_helpers.go"}, names)
	assert.Contains(t, err.Error(), "generating Num: ")
	assert.Contains(t, err.Error(), "generating Holder: ")
	assert.Contains(t, err.Error(), "Holder.Nums uses Num")
}

func TestGenerate_PlanFailureBlocksUsers(t *testing.T) {
	broken := bodyType()
	broken.Variants = append(broken.Variants, descriptor.VariantDescriptor{
		LocalName: "Pair",
		Shape:     descriptor.VariantStructPayload,
	})

	b, err := plan.DefaultSynthesizer().PlanAll(context.Background(),
		[]descriptor.TypeDescriptor{broken, taskType(), itemType(), methodType()}, plan.BatchOptions{})
	require.NoError(t, err)

	files, err := NewGenerator(DefaultGeneratorConfig()).Generate(b, testImports)
	require.ErrorIs(t, err, ErrDependencyFailed)
	assert.Contains(t, err.Error(), "Task.Body uses Body")
	assert.Len(t, files, 3)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "http_method_dto.go", Filename("HttpMethod"))
	assert.Equal(t, "task_dto.go", Filename("Task"))
}
