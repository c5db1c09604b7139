// Package binding holds the declaration-level model of the wiring
// engine: type references, keys, contribution declarations, map-key
// descriptors, and scope classification.
//
// Everything in this package is immutable value data. Declarations are
// supplied whole by the declaration-discovery collaborator (a manifest,
// an annotation processor, a test); this package never inspects source
// and never talks to the host type system.
//
// Resolution of declarations into bindings lives in package graph;
// expression synthesis lives in package codegen.
package binding
