// Package plan synthesizes the conversion plan for every field and arm of a
// domain type, in both directions.
//
// Planning pipeline:
//  1. Classify each field's declared type into one container shape
//  2. Build the base plan for that shape (element mapping + collection)
//  3. Apply the required / always-absent adjustments for the direction
//  4. Append the final rename to the destination name
//
// Skipped fields short-circuit to omit (ToExternal) or default
// (FromExternal). Sum-type arms are planned the same way, except that
// multi-field payloads are rejected with ErrUnsupportedShape.
//
// Every call is a pure function of its inputs, so PlanAll plans independent
// types concurrently.
package plan
