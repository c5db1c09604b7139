// Package dagger resolves a declarative graph of dependency-injection
// requests into a concrete, statically ordered construction plan.
//
// The engine is split along its data flow:
//
//   - binding: keys, contribution declarations, map-key descriptors,
//     and scope classification
//   - graph: the binding-graph builder and multibinding aggregator,
//     with collect-all-errors diagnostics
//   - codegen: per-request expression synthesis (delegate reuse,
//     cast insertion, aggregate literals)
//   - manifest: YAML wiring manifests and the static type oracle
//   - cmd/daggerc: the command-line driver (check / plan)
//
// The engine is single-threaded and pure: graph construction and
// synthesis are functions over immutable inputs, run once per
// compilation unit. Source parsing and code printing are external
// collaborators; this module never emits textual source.
package dagger
