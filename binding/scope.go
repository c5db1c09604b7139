package binding

// ScopeConfig is the per-compilation-unit scope configuration.
type ScopeConfig struct {
	// Releasable is the set of scope names whose cached references may
	// be released by the generated runtime.
	Releasable []string

	// Reusable is the single designated scope that caches with a
	// single-check strategy.
	Reusable string
}

// IsReleasable reports whether name is in the releasable set.
func (c ScopeConfig) IsReleasable(name string) bool {
	for _, s := range c.Releasable {
		if s == name {
			return true
		}
	}
	return false
}

// ScopeKind is the relative caching strength of a binding.
//
// It is a closed four-variant order: Unscoped is weakest, DoubleCheck
// strongest. The ranking is explicit in rank(), not derived from
// constant declaration order.
type ScopeKind int

const (
	Unscoped ScopeKind = iota
	Releasable
	SingleCheck
	DoubleCheck
)

// rank maps each kind to its position in the strength order.
func (k ScopeKind) rank() int {
	switch k {
	case Unscoped:
		return 0
	case Releasable:
		return 1
	case SingleCheck:
		return 2
	case DoubleCheck:
		return 3
	default:
		return -1
	}
}

// SimilarOrWeaker reports whether k caches no more strongly than other.
//
// This gates the delegate-expression optimization: an alias may reuse
// its delegate's cached expression only when the delegate's cache is at
// least as strong as the alias's own.
func (k ScopeKind) SimilarOrWeaker(other ScopeKind) bool {
	return k.rank() <= other.rank()
}

// String returns the kind name used in plans and diagnostics.
func (k ScopeKind) String() string {
	switch k {
	case Unscoped:
		return "unscoped"
	case Releasable:
		return "releasable"
	case SingleCheck:
		return "single-check"
	case DoubleCheck:
		return "double-check"
	default:
		return "unknown"
	}
}

// ClassifyScope assigns the caching strength for a scope name under the
// given configuration. An empty name is unscoped; a releasable scope is
// Releasable; the designated reusable scope is SingleCheck; any other
// named scope is DoubleCheck.
func ClassifyScope(name string, cfg ScopeConfig) ScopeKind {
	if name == "" {
		return Unscoped
	}
	if cfg.IsReleasable(name) {
		return Releasable
	}
	if name == cfg.Reusable {
		return SingleCheck
	}
	return DoubleCheck
}
