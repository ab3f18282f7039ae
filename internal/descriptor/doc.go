// Package descriptor holds the already-parsed directive model that drives
// conversion planning.
//
// Descriptors are produced once by a loader (YAML file or Go source) and are
// treated as immutable inputs afterwards. Every planning call is a pure
// function of a descriptor and a Direction.
//
// Key types:
//   - Direction: tagged union of ToExternal and FromExternal, each carrying
//     only the directives that apply to that conversion pass
//   - FieldDescriptor: one record field with rename/skip/required directives
//   - VariantDescriptor: one sum-type arm with its payload shape
//   - TypeDescriptor: a domain type together with its external counterpart
//   - TypeExpr: a parsed Go type expression used for shape classification
package descriptor
