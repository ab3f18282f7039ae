// Package directive provides the YAML descriptor file schema, parsing,
// validation and conversion into descriptor.TypeDescriptor values.
//
// # Schema Overview
//
//	version: "1"
//	package: dto                       # package the generated code lives in
//	external: example.com/gen/pb       # external package; aliased by its last element
//	imports:                           # extra qualifiers used by type expressions
//	  orderedmap: github.com/elliotchance/orderedmap/v3
//	types:
//	  - name: Task
//	    target: pb.Task
//	    fields:
//	      - name: Cron
//	        type: "*string"
//	        required: true
//	      - name: Timepoints
//	        rename: RunAt
//	        type: "[]time.Time"
//	        into: timeToProto                 # shorthand for {map: timeToProto}
//	        from: {map: timeFromProto, by_ref: true}
//	      - name: Cache
//	        type: "map[string]int"
//	        skip: true
//	  - name: Method
//	    target: pb.HttpMethod
//	    arm_prefix: HttpMethod_
//	    non_exhaustive: true
//	    variants:
//	      - {name: Get, rename: GET}
//	      - {name: Legacy, skip: true}
//	  - name: Body
//	    target: pb.RequestBody
//	    form: oneof
//	    arm_prefix: Request_
//	    variants:
//	      - name: Text
//	        shape: single
//	        payload: {local_type: string, external_field: Text}
//
// # Field directives
//
//   - rename: external field name (default: name)
//   - skip: omit going out, default coming in
//   - required: external optionality disagrees with the local shape
//   - into / from: direction-scoped custom mapper, optionally by reference
//   - from.always_none: the domain Optional is always empty after conversion
//
// # Forms
//
// A type with fields is a struct; a type with variants is an enum unless
// form: oneof is given. Variant shapes are unit (default), single and
// struct; struct payloads load fine but fail planning.
package directive
