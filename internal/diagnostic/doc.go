// Package diagnostic provides structured errors, warnings and notes produced
// while loading descriptors and planning conversions.
//
// Key capabilities:
//   - Unknown external field and arm reports with "did you mean" suggestions
//   - Unsupported variant shape errors, one per failing type
//   - Directive conflicts that are resolved but worth pointing out
package diagnostic
