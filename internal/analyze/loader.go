package analyze

import (
	"cmp"
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"dto-generator/internal/common"
	"dto-generator/internal/descriptor"
	"dto-generator/internal/diagnostic"
	"dto-generator/internal/directive"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Loader reads descriptors from annotated Go packages.
type Loader struct {
	// Dir is the working directory patterns are resolved in. Empty means the
	// current directory.
	Dir string
}

// NewLoader creates a Loader resolving patterns relative to dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// Result is the outcome of loading one package.
type Result struct {
	// PkgPath is the import path of the domain package.
	PkgPath     string
	Set         *directive.Set
	Diagnostics diagnostic.Diagnostics
}

// Load loads exactly one package and extracts every annotated type.
// Problems with individual types are reported in the diagnostics; the
// returned error covers only packages that could not be loaded.
func (l *Loader) Load(ctx context.Context, pattern string) (*Result, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     l.Dir,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	if !common.IsSingle(pkgs) {
		return nil, fmt.Errorf("pattern %q matched %d packages, expected 1", pattern, len(pkgs))
	}

	pkg := pkgs[0]

	var errs []string
	for _, e := range pkg.Errors {
		errs = append(errs, e.Error())
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %s", strings.Join(errs, "; "))
	}

	return newPackageScan(pkg).run(), nil
}

// packageScan holds the state of extracting descriptors from one package.
type packageScan struct {
	pkg *packages.Package
	// docs maps the position of a declared identifier to its directives.
	docs map[token.Pos]directives
	// imports maps qualifiers to import paths; aliases is the reverse.
	imports map[string]string
	aliases map[string]string
	res     *Result
}

func newPackageScan(pkg *packages.Package) *packageScan {
	s := &packageScan{
		pkg:     pkg,
		docs:    make(map[token.Pos]directives),
		imports: make(map[string]string),
		aliases: make(map[string]string),
		res:     &Result{PkgPath: pkg.PkgPath},
	}

	for _, f := range pkg.Syntax {
		s.collectImports(f)
		s.collectDocs(f)
	}

	return s
}

func (s *packageScan) run() *Result {
	scope := s.pkg.Types.Scope()

	var named []*types.TypeName

	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}

		if s.docs[tn.Pos()].has("target") {
			named = append(named, tn)
		}
	}

	slices.SortFunc(named, func(a, b *types.TypeName) int { return cmp.Compare(a.Pos(), b.Pos()) })

	var tds []descriptor.TypeDescriptor

	for _, tn := range named {
		td, ok := s.typeDescriptor(tn)
		if !ok {
			continue
		}

		s.checkExternal(&td)
		tds = append(tds, td)
	}

	s.res.Set = &directive.Set{
		Package: s.pkg.Name,
		Imports: s.imports,
		Types:   tds,
	}

	return s.res
}

func (s *packageScan) collectImports(f *ast.File) {
	for _, spec := range f.Imports {
		pn := s.pkg.TypesInfo.PkgNameOf(spec)
		if pn == nil || pn.Name() == "_" || pn.Name() == "." {
			continue
		}

		s.addImport(pn.Name(), pn.Imported().Path())
	}
}

func (s *packageScan) addImport(alias, path string) {
	if _, ok := s.imports[alias]; !ok {
		s.imports[alias] = path
	}

	if _, ok := s.aliases[path]; !ok {
		s.aliases[path] = alias
	}
}

func (s *packageScan) collectDocs(f *ast.File) {
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || (gd.Tok != token.TYPE && gd.Tok != token.CONST) {
			continue
		}

		// The declaration doc belongs to the spec when there is only one.
		var declDoc *ast.CommentGroup
		if common.IsSingle(gd.Specs) {
			declDoc = gd.Doc
		}

		for _, spec := range gd.Specs {
			switch sp := spec.(type) {
			case *ast.TypeSpec:
				s.docs[sp.Name.Pos()] = parseDirectives(declDoc, sp.Doc, sp.Comment)
			case *ast.ValueSpec:
				d := parseDirectives(declDoc, sp.Doc, sp.Comment)
				for _, n := range sp.Names {
					s.docs[n.Pos()] = d
				}
			}
		}
	}
}

// qualifier renders package-qualified names with the aliases the domain
// package already uses, registering new imports as needed.
func (s *packageScan) qualifier(p *types.Package) string {
	if p == s.pkg.Types {
		return ""
	}

	if alias, ok := s.aliases[p.Path()]; ok {
		return alias
	}

	alias := p.Name()
	if other, taken := s.imports[alias]; taken && other != p.Path() {
		slog.Warn("Import alias already in use", "alias", alias, "path", p.Path(), "existing", other)
	}

	s.addImport(alias, p.Path())

	return alias
}

func (s *packageScan) typeExpr(t types.Type) (*descriptor.TypeExpr, error) {
	return descriptor.ParseTypeExpr(types.TypeString(t, s.qualifier))
}

func (s *packageScan) typeDescriptor(tn *types.TypeName) (descriptor.TypeDescriptor, bool) {
	d := s.docs[tn.Pos()]
	name := tn.Name()

	td := descriptor.TypeDescriptor{
		Name:           name,
		ArmPrefix:      d["arm_prefix"],
		LocalArmPrefix: d["local_arm_prefix"],
		NonExhaustive:  d.has("non_exhaustive"),
	}

	target, err := descriptor.ParseTypeExpr(d["target"])
	if err != nil {
		s.res.Diagnostics.AddError("invalid_target", err.Error(), name, "")
		return td, false
	}

	td.Target = target

	if td.Directions, err = d.directions(); err != nil {
		s.res.Diagnostics.AddError("invalid_derive", err.Error(), name, "")
		return td, false
	}

	switch ut := tn.Type().Underlying().(type) {
	case *types.Struct:
		td.Form = descriptor.FormStruct
		s.structFields(&td, ut)
	case *types.Basic:
		if ut.Info()&(types.IsInteger|types.IsString) == 0 {
			s.res.Diagnostics.AddError("unsupported_type",
				fmt.Sprintf("enum %s must have an integer or string underlying type", name), name, "")
			return td, false
		}

		td.Form = descriptor.FormEnum
		s.enumConstants(&td, tn)
	case *types.Interface:
		td.Form = descriptor.FormOneof
		if td.LocalArmPrefix == "" {
			td.LocalArmPrefix = name + "_"
		}

		s.oneofArms(&td, tn, ut)
	default:
		s.res.Diagnostics.AddError("unsupported_type",
			fmt.Sprintf("%s must be a struct, an enum or an interface", name), name, "")
		return td, false
	}

	slog.Debug("Loaded type", "type", name, "form", td.Form, "target", td.Target)

	return td, true
}

func (s *packageScan) structFields(td *descriptor.TypeDescriptor, st *types.Struct) {
	for i := range st.NumFields() {
		field := st.Field(i)

		if field.Embedded() || !field.Exported() {
			slog.Debug("Ignoring field", "type", td.Name, "field", field.Name(),
				"embedded", field.Embedded())
			continue
		}

		ft, err := parseFieldTag(reflect.StructTag(st.Tag(i)))
		if err != nil {
			s.res.Diagnostics.AddError("invalid_tag", err.Error(), td.Name, field.Name())
			continue
		}

		typ, err := s.typeExpr(field.Type())
		if err != nil {
			s.res.Diagnostics.AddError("unsupported_field_type", err.Error(), td.Name, field.Name())
			continue
		}

		td.Fields = append(td.Fields, descriptor.FieldDescriptor{
			LocalName:    field.Name(),
			ExternalName: ft.name,
			DeclaredType: typ,
			Skip:         ft.skip,
			Required:     ft.required,
			Into:         ft.into,
			From:         ft.from,
		})
	}
}

func (s *packageScan) enumConstants(td *descriptor.TypeDescriptor, tn *types.TypeName) {
	scope := s.pkg.Types.Scope()

	var consts []*types.Const

	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if ok && types.Identical(c.Type(), tn.Type()) {
			consts = append(consts, c)
		}
	}

	slices.SortFunc(consts, func(a, b *types.Const) int { return cmp.Compare(a.Pos(), b.Pos()) })

	for _, c := range consts {
		d := s.docs[c.Pos()]
		td.Variants = append(td.Variants, descriptor.VariantDescriptor{
			LocalName:    c.Name(),
			ExternalName: d["name"],
			Shape:        descriptor.VariantUnit,
			Skip:         d.has("skip"),
		})
	}

	if len(consts) == 0 {
		s.res.Diagnostics.AddWarning("no_variants", "enum has no constants", td.Name, "")
	}
}

func (s *packageScan) oneofArms(td *descriptor.TypeDescriptor, tn *types.TypeName, iface *types.Interface) {
	scope := s.pkg.Types.Scope()

	var arms []*types.TypeName

	for _, name := range scope.Names() {
		arm, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || arm == tn || !strings.HasPrefix(name, td.LocalArmPrefix) {
			continue
		}

		if _, isStruct := arm.Type().Underlying().(*types.Struct); !isStruct {
			continue
		}

		if types.Implements(arm.Type(), iface) || types.Implements(types.NewPointer(arm.Type()), iface) {
			arms = append(arms, arm)
		}
	}

	slices.SortFunc(arms, func(a, b *types.TypeName) int { return cmp.Compare(a.Pos(), b.Pos()) })

	for _, arm := range arms {
		d := s.docs[arm.Pos()]
		st := arm.Type().Underlying().(*types.Struct)

		v := descriptor.VariantDescriptor{
			LocalName:    strings.TrimPrefix(arm.Name(), td.LocalArmPrefix),
			ExternalName: d["name"],
			Skip:         d.has("skip"),
			PointerArm:   !types.Implements(arm.Type(), iface),
		}

		switch st.NumFields() {
		case 0:
			v.Shape = descriptor.VariantUnit
		case 1:
			v.Shape = descriptor.VariantSinglePayload

			typ, err := s.typeExpr(st.Field(0).Type())
			if err != nil {
				s.res.Diagnostics.AddError("unsupported_field_type", err.Error(), td.Name, arm.Name())
				continue
			}

			v.Payload = &descriptor.Payload{
				LocalField:    st.Field(0).Name(),
				ExternalField: v.TargetName(),
				LocalType:     typ,
			}
		default:
			v.Shape = descriptor.VariantStructPayload
		}

		td.Variants = append(td.Variants, v)
	}

	if len(arms) == 0 {
		s.res.Diagnostics.AddWarning("no_variants",
			fmt.Sprintf("no %s* types implement %s", td.LocalArmPrefix, td.Name), td.Name, "")
	}
}
