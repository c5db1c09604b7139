// Package codegen synthesizes accessor expressions for resolved
// bindings.
//
// A synthesized Expr is a side-effect-free description of how the
// generated component obtains a requested value: direct construction,
// a cached-field read, a delegate passthrough, or an aggregate
// literal. Each Expr carries its best-known static type; rendering to
// source text is the printing collaborator's job, not this package's.
//
// The interesting decisions live here: whether an alias binding may
// reuse its delegate's expression (scope-strength gate), and whether a
// consuming call site needs an explicit cast (assignability and
// visibility per the external type oracle).
package codegen
