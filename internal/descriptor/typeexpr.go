package descriptor

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// ExprKind is the top-level constructor of a type expression.
type ExprKind int

const (
	ExprNamed   ExprKind = iota // T, pkg.T, or a generic instance pkg.T[A, B]
	ExprPointer                 // *T
	ExprSlice                   // []T
	ExprArray                   // [N]T
	ExprMap                     // map[K]V
)

// String returns a human-readable representation of the ExprKind.
func (k ExprKind) String() string {
	switch k {
	case ExprNamed:
		return "named"
	case ExprPointer:
		return "pointer"
	case ExprSlice:
		return "slice"
	case ExprArray:
		return "array"
	case ExprMap:
		return "map"
	default:
		return "unknown"
	}
}

// ErrInvalidTypeExpr is returned when a type expression cannot be parsed.
var ErrInvalidTypeExpr = errors.New("invalid type expression")

// TypeExpr is a parsed Go type expression.
type TypeExpr struct {
	Kind ExprKind
	Pkg  string      // package qualifier for named types ("" when unqualified)
	Name string      // type name for named types
	Len  string      // array length expression
	Elem *TypeExpr   // element for pointer, slice, array; value for map
	Key  *TypeExpr   // key for map
	Args []*TypeExpr // type arguments of a generic named type
}

// Named returns an unqualified named type expression.
func Named(name string, args ...*TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: ExprNamed, Name: name, Args: args}
}

// Qualified returns a package-qualified named type expression.
func Qualified(pkg, name string, args ...*TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: ExprNamed, Pkg: pkg, Name: name, Args: args}
}

// PointerTo returns *elem.
func PointerTo(elem *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: ExprPointer, Elem: elem}
}

// SliceOf returns []elem.
func SliceOf(elem *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: ExprSlice, Elem: elem}
}

// MapOf returns map[key]value.
func MapOf(key, value *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: ExprMap, Key: key, Elem: value}
}

// QualifiedName returns "pkg.Name" or "Name" for named types, "" otherwise.
func (t *TypeExpr) QualifiedName() string {
	if t == nil || t.Kind != ExprNamed {
		return ""
	}

	if t.Pkg == "" {
		return t.Name
	}

	return t.Pkg + "." + t.Name
}

// String renders the expression in Go syntax.
func (t *TypeExpr) String() string {
	if t == nil {
		return ""
	}

	var sb strings.Builder
	t.write(&sb)

	return sb.String()
}

func (t *TypeExpr) write(sb *strings.Builder) {
	switch t.Kind {
	case ExprPointer:
		sb.WriteString("*")
		t.Elem.write(sb)
	case ExprSlice:
		sb.WriteString("[]")
		t.Elem.write(sb)
	case ExprArray:
		sb.WriteString("[" + t.Len + "]")
		t.Elem.write(sb)
	case ExprMap:
		sb.WriteString("map[")
		t.Key.write(sb)
		sb.WriteString("]")
		t.Elem.write(sb)
	default:
		sb.WriteString(t.QualifiedName())

		if len(t.Args) > 0 {
			sb.WriteString("[")

			for i, a := range t.Args {
				if i > 0 {
					sb.WriteString(", ")
				}

				a.write(sb)
			}

			sb.WriteString("]")
		}
	}
}

// Equal reports whether two expressions render identically.
func (t *TypeExpr) Equal(o *TypeExpr) bool {
	if t == nil || o == nil {
		return t == o
	}

	return t.String() == o.String()
}

// Qualifiers returns every package qualifier referenced by the expression.
func (t *TypeExpr) Qualifiers() []string {
	var out []string

	var walk func(e *TypeExpr)

	walk = func(e *TypeExpr) {
		if e == nil {
			return
		}

		if e.Pkg != "" {
			out = append(out, e.Pkg)
		}

		walk(e.Key)
		walk(e.Elem)

		for _, a := range e.Args {
			walk(a)
		}
	}
	walk(t)

	return out
}

// ParseTypeExpr parses a Go type expression such as "*string",
// "map[string][]pb.Item" or "orderedmap.Map[string, int]".
func ParseTypeExpr(s string) (*TypeExpr, error) {
	src := strings.TrimSpace(s)
	if src == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidTypeExpr)
	}

	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidTypeExpr, s, err)
	}

	t, err := fromAST(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidTypeExpr, s, err)
	}

	return t, nil
}

// MustParseTypeExpr is like ParseTypeExpr but panics on error.
func MustParseTypeExpr(s string) *TypeExpr {
	t, err := ParseTypeExpr(s)
	if err != nil {
		panic(err)
	}

	return t
}

func fromAST(e ast.Expr) (*TypeExpr, error) {
	switch x := e.(type) {
	case *ast.Ident:
		return Named(x.Name), nil

	case *ast.SelectorExpr:
		pkg, ok := x.X.(*ast.Ident)
		if !ok {
			return nil, errors.New("qualifier must be a package name")
		}

		return Qualified(pkg.Name, x.Sel.Name), nil

	case *ast.StarExpr:
		elem, err := fromAST(x.X)
		if err != nil {
			return nil, err
		}

		return PointerTo(elem), nil

	case *ast.ParenExpr:
		return fromAST(x.X)

	case *ast.ArrayType:
		elem, err := fromAST(x.Elt)
		if err != nil {
			return nil, err
		}

		if x.Len == nil {
			return SliceOf(elem), nil
		}

		lit, ok := x.Len.(*ast.BasicLit)
		if !ok || lit.Kind != token.INT {
			return nil, errors.New("array length must be an integer literal")
		}

		return &TypeExpr{Kind: ExprArray, Len: lit.Value, Elem: elem}, nil

	case *ast.MapType:
		key, err := fromAST(x.Key)
		if err != nil {
			return nil, err
		}

		val, err := fromAST(x.Value)
		if err != nil {
			return nil, err
		}

		return MapOf(key, val), nil

	case *ast.IndexExpr:
		return genericFromAST(x.X, []ast.Expr{x.Index})

	case *ast.IndexListExpr:
		return genericFromAST(x.X, x.Indices)

	default:
		return nil, fmt.Errorf("unsupported type syntax %T", e)
	}
}

func genericFromAST(base ast.Expr, indices []ast.Expr) (*TypeExpr, error) {
	t, err := fromAST(base)
	if err != nil {
		return nil, err
	}

	if t.Kind != ExprNamed {
		return nil, errors.New("type arguments require a named type")
	}

	for _, idx := range indices {
		arg, err := fromAST(idx)
		if err != nil {
			return nil, err
		}

		t.Args = append(t.Args, arg)
	}

	return t, nil
}
