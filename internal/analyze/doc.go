// Package analyze loads descriptors from annotated Go source.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to find
// domain types marked with a //dto:target=... directive and reads their
// field tags, enum constants and oneof arm types into descriptors.
//
// Directives:
//   - type doc: //dto:target=pb.Task, //dto:arm_prefix=X_, //dto:local_arm_prefix=T_,
//     //dto:non_exhaustive, //dto:derive=into|from
//   - const or arm type doc: //dto:name=GET, //dto:skip
//   - field tags: dto:"name=RunAt,required,skip" dto_into:"map=fn,by_ref"
//     dto_from:"map=fn,by_ref,always_none"
//
// When the external package is among the imports, external field and arm
// names are checked against it and missing ones are reported with
// suggestions.
package analyze
