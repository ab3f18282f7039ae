// Package gen renders Go conversion functions from type plans.
//
// Generation uses text/template + go/format. Every planned type gets its own
// file with a <Type>ToExternal and/or <Type>FromExternal function; a shared
// helpers file holds the small generic functions the bodies call.
//
// Function shapes:
//   - records convert pointer to pointer, nil to nil
//   - enums switch over constants
//   - oneofs type-switch over arm wrapper values (domain) and wrapper
//     pointers (external); the external interface must be exported
//
// Field rendering:
//   - generic conversion calls the converter of another planned type, lifts
//     into a pointer, or falls back to a Go type conversion
//   - custom mappers are called as written and must return the destination type
//   - optionals must be pointers, sequences slices, unordered maps built-in
//     maps, ordered maps generic types with All() and Set(k, v) methods and a
//     usable zero value
//   - absent required values panic with the field path
package gen
