// Package graph resolves contribution declarations into a binding
// graph.
//
// Build groups every declaration by key, aggregates map/set
// contributions, validates uniqueness and map-key consistency, and
// checks that every key reachable from a request is satisfiable. All
// problems found in one pass are collected into a Diagnostics value
// and reported together; a graph with any diagnostic never produces
// usable ResolvedBindings.
//
// The resulting ResolvedBindings is immutable and is the sole input
// (besides the type oracle) of the expression synthesizer in package
// codegen.
package graph
