package manifest

import (
	"github.com/digitalbuddha/dagger/binding"
)

// StaticOracle answers type-compatibility questions from the fact
// tables declared in a manifest. It is the stand-in for a live host
// type system: assignability is an explicit edge list, visibility is
// an exported flag per type, erasure drops type arguments.
type StaticOracle struct {
	exported   map[string]bool
	assignable map[string]map[string]bool
}

// NewStaticOracle builds an empty oracle; facts are added with
// Export and Assignable.
func NewStaticOracle() *StaticOracle {
	return &StaticOracle{
		exported:   make(map[string]bool),
		assignable: make(map[string]map[string]bool),
	}
}

// Export records whether the (erased) type is visible outside its own
// package.
func (o *StaticOracle) Export(t binding.TypeRef, exported bool) {
	o.exported[t.Erased().String()] = exported
}

// Assignable records that src values can be assigned to dst.
func (o *StaticOracle) Assignable(src, dst binding.TypeRef) {
	id := src.String()
	if o.assignable[id] == nil {
		o.assignable[id] = make(map[string]bool)
	}
	o.assignable[id][dst.String()] = true
}

// IsAssignable implements binding.TypeOracle. Equal types are always
// assignable, a parameterized type is assignable to its own erased
// form, and everything else consults the declared edges.
func (o *StaticOracle) IsAssignable(src, dst binding.TypeRef) bool {
	if src.Equal(dst) || src.Erased().Equal(dst) {
		return true
	}
	return o.assignable[src.String()][dst.String()]
}

// IsVisibleFrom implements binding.TypeOracle. A type is visible from
// pkg when it is declared there or exported, and all of its type
// arguments are visible too. Types the manifest never mentions default
// to exported: the oracle is best-effort, not a checker.
func (o *StaticOracle) IsVisibleFrom(t binding.TypeRef, pkg string) bool {
	if t.Pkg != "" && t.Pkg != pkg {
		if exported, known := o.exported[t.Erased().String()]; known && !exported {
			return false
		}
	}
	for _, a := range t.Args {
		if !o.IsVisibleFrom(a, pkg) {
			return false
		}
	}
	return true
}

// Erase implements binding.TypeOracle.
func (o *StaticOracle) Erase(t binding.TypeRef) binding.TypeRef { return t.Erased() }
