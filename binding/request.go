package binding

// RequestKind says in which form a consumption site wants a key.
type RequestKind int

const (
	// Instance requests the value itself.
	Instance RequestKind = iota

	// Provider requests a factory handle producing the value on demand.
	Provider

	// Lazy requests a memoizing handle producing the value at most once.
	Lazy
)

// String returns the kind name used in plans.
func (k RequestKind) String() string {
	switch k {
	case Instance:
		return "instance"
	case Provider:
		return "provider"
	case Lazy:
		return "lazy"
	default:
		return "unknown"
	}
}

// Wrapped returns the requested surface type for a contributed type:
// the contributed type itself for Instance, or the richly-parameterized
// wrapper form for Provider/Lazy.
func (k RequestKind) Wrapped(contributed TypeRef) TypeRef {
	switch k {
	case Provider:
		return Type("dagger", "Provider").Parameterized(contributed)
	case Lazy:
		return Type("dagger", "Lazy").Parameterized(contributed)
	default:
		return contributed
	}
}

// Request is one consumption site for a key.
type Request struct {
	Key  Key
	Kind RequestKind

	// Pkg is the requesting call site's package, used for
	// accessibility checks when deciding casts.
	Pkg string
}
