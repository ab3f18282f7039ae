package gen

import "dto-generator/internal/descriptor"

// basicKind groups predeclared and well-known standard library types by
// what a Go type conversion between them means.
type basicKind int

const (
	basicNone basicKind = iota // not a basic type; left to the compiler
	basicInteger
	basicFloat
	basicBool
	basicString
	basicTime
	basicDuration
)

func (k basicKind) String() string {
	switch k {
	case basicInteger:
		return "integer"
	case basicFloat:
		return "float"
	case basicBool:
		return "bool"
	case basicString:
		return "string"
	case basicTime:
		return "time"
	case basicDuration:
		return "duration"
	default:
		return "none"
	}
}

func (k basicKind) isNumber() bool {
	switch k {
	case basicInteger, basicFloat, basicDuration:
		return true
	default:
		return false
	}
}

func basicKindOf(t *descriptor.TypeExpr) basicKind {
	if t == nil || t.Kind != descriptor.ExprNamed || len(t.Args) > 0 {
		return basicNone
	}

	switch t.QualifiedName() {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"byte", "rune":
		return basicInteger
	case "float32", "float64":
		return basicFloat
	case "bool":
		return basicBool
	case "string":
		return basicString
	case "time.Time":
		return basicTime
	case "time.Duration":
		return basicDuration
	default:
		return basicNone
	}
}

// convertible reports whether a Go type conversion between the two kinds
// keeps the meaning of the value. Integer to string is a rune conversion in
// Go and is rejected along with every other cross-kind pair.
func convertible(from, to basicKind) bool {
	if from == basicNone || to == basicNone {
		return true
	}

	if from.isNumber() && to.isNumber() {
		return true
	}

	return from == to
}
