package binding

// TypeOracle is the narrow seam to the host type system. The engine
// calls it synchronously with best-effort static-type questions and
// never second-guesses the answers; full type-checking is explicitly
// not this engine's job.
type TypeOracle interface {
	// IsAssignable reports whether a value of src can be safely
	// assigned to dst.
	IsAssignable(src, dst TypeRef) bool

	// IsVisibleFrom reports whether t can be named in code generated
	// into pkg.
	IsVisibleFrom(t TypeRef, pkg string) bool

	// Erase returns the unparameterized form of t.
	Erase(t TypeRef) TypeRef
}
