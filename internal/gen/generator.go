package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"path"
	"slices"
	"strings"
	"text/template"

	"dto-generator/internal/common"
	"dto-generator/internal/match"
	"dto-generator/internal/plan"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is where unformatted sidecar files are written when
	// formatting fails.
	OutputDir string
	// GenerateComments adds a doc comment to every generated function.
	GenerateComments bool
	// HelpersFilename is the file holding the shared generic helpers.
	HelpersFilename string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName:      "dto",
		OutputDir:        "./generated",
		GenerateComments: true,
		HelpersFilename:  "dto_helpers.go",
	}
}

// Generator renders conversion functions from type plans.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "task_dto.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// importSpec is one entry of a generated import block.
type importSpec struct {
	Alias string
	Path  string
}

type templateData struct {
	PackageName      string
	Filename         string
	GenerateComments bool
	Imports          []importSpec
	Funcs            []funcData
}

// TypeError reports a type whose functions could not be rendered.
type TypeError struct {
	Type string
	Err  error
}

func (e *TypeError) Error() string {
	return "generating " + e.Type + ": " + e.Err.Error()
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// Generate renders one file per successfully planned type plus the helpers
// file. Types whose planning failed are skipped. imports maps package
// qualifiers used in type expressions to import paths; a qualifier without
// an entry is imported under its own name.
//
// A type that fails rendering is left out together with every type using
// it; the files of all other types are still returned, along with the
// joined *TypeError values of the failures.
func (g *Generator) Generate(b *plan.Batch, imports map[string]string) ([]GeneratedFile, error) {
	reg := newRegistry(b.Results)

	var (
		files []GeneratedFile
		errs  []error
	)

	// A failure removes a converter that earlier files may call, so render
	// again until a pass adds no failure.
	for retry := true; retry; {
		retry = false
		files = files[:0]

		for i := range b.Results {
			res := &b.Results[i]
			if reg.failed[res.Type.Name] || len(res.Plans()) == 0 {
				continue
			}

			file, err := g.generateType(reg, res, imports)
			if err != nil {
				reg.failed[res.Type.Name] = true
				errs = append(errs, &TypeError{Type: res.Type.Name, Err: err})
				retry = true

				continue
			}

			files = append(files, *file)
		}
	}

	if common.IsEmpty(files) {
		return nil, errors.Join(errs...)
	}

	helpers, err := g.render(helpersTemplate, &templateData{
		PackageName: g.config.PackageName,
		Filename:    g.helpersFilename(),
	})
	if err != nil {
		return nil, fmt.Errorf("generating helpers: %w", err)
	}

	return append(files, *helpers), errors.Join(errs...)
}

func (g *Generator) helpersFilename() string {
	if g.config.HelpersFilename != "" {
		return g.config.HelpersFilename
	}

	return DefaultGeneratorConfig().HelpersFilename
}

func (g *Generator) generateType(reg *registry, res *plan.TypeResult, imports map[string]string) (*GeneratedFile, error) {
	r := newRenderer(reg)

	data := &templateData{
		PackageName:      g.config.PackageName,
		Filename:         Filename(res.Type.Name),
		GenerateComments: g.config.GenerateComments,
	}

	for _, tp := range res.Plans() {
		fn, err := r.function(tp)
		if err != nil {
			return nil, err
		}

		data.Funcs = append(data.Funcs, fn)
	}

	data.Imports = importsFor(r.quals, imports)

	return g.render(typeTemplate, data)
}

func (g *Generator) render(tmpl *template.Template, data *templateData) (*GeneratedFile, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, data.Filename, buf.Bytes())
		}

		return &GeneratedFile{
			Filename: data.Filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	return &GeneratedFile{
		Filename: data.Filename,
		Content:  formatted,
	}, nil
}

// Filename returns the generated file name for a type, e.g. "http_method_dto.go".
func Filename(typeName string) string {
	return strings.Join(match.TokenizeIdent(typeName), "_") + "_dto.go"
}

// importsFor resolves the used qualifiers to import specs sorted by path.
func importsFor(quals map[string]struct{}, imports map[string]string) []importSpec {
	specs := make([]importSpec, 0, len(quals))

	for q := range quals {
		p, ok := imports[q]
		if !ok {
			p = q
		}

		spec := importSpec{Path: p}
		if path.Base(p) != q {
			spec.Alias = q
		}

		specs = append(specs, spec)
	}

	slices.SortFunc(specs, func(a, b importSpec) int { return strings.Compare(a.Path, b.Path) })

	return specs
}

var typeTemplate = template.Must(template.New("type").Parse(`// Code generated by dto-generator. DO NOT EDIT.

package {{.PackageName}}
{{if .Imports}}
import (
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)
{{end}}
{{- range .Funcs}}
{{if $.GenerateComments}}// {{.Name}} {{.Doc}}
{{end}}func {{.Name}}(in {{.Param}}) {{.Result}} {
{{.Body}}}
{{end}}`))

var helpersTemplate = template.Must(template.New("helpers").Parse(`// Code generated by dto-generator. DO NOT EDIT.

package {{.PackageName}}

func dtoPtr[T any](v T) *T {
	return &v
}

// dtoMust aborts the conversion when a required value is absent.
func dtoMust[T any](p *T, field string) *T {
	if p == nil {
		panic("dto: required field " + field + " is absent")
	}

	return p
}

func dtoMapPtr[T, U any](p *T, f func(*T) U) *U {
	if p == nil {
		return nil
	}

	u := f(p)

	return &u
}

func dtoMapSlice[T, U any](s []T, f func(*T) U) []U {
	if s == nil {
		return nil
	}

	out := make([]U, len(s))
	for i := range s {
		out[i] = f(&s[i])
	}

	return out
}

func dtoMapMap[K comparable, V any, K2 comparable, V2 any](m map[K]V, fk func(K) K2, fv func(*V) V2) map[K2]V2 {
	if m == nil {
		return nil
	}

	out := make(map[K2]V2, len(m))
	for k, v := range m {
		out[fk(k)] = fv(&v)
	}

	return out
}
`))
