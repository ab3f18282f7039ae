// Package match provides identifier normalization, edit distance and
// "did you mean" suggestions for external field and arm names.
//
// Key functions:
//   - NormalizeIdent: folds Go and protobuf spellings of a name together
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names by similarity to an unknown one
package match
