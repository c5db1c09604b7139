package graph

import (
	"github.com/digitalbuddha/dagger/binding"
)

// Binding is a resolved node of the graph: either a direct
// ContributionBinding or an AggregatedBinding built from many
// contributions. Bindings are owned by ResolvedBindings and are never
// mutated after Build returns.
type Binding interface {
	Key() binding.Key

	// Scope is the caching domain name; empty means unscoped.
	// Aggregated bindings are always unscoped.
	Scope() string

	// Dependencies are the keys this binding needs, in order.
	Dependencies() []binding.Key
}

// ContributionBinding is a direct binding backed by one declaration.
type ContributionBinding struct {
	decl binding.Declaration
}

// Key implements Binding.
func (b *ContributionBinding) Key() binding.Key { return b.decl.Key }

// Scope implements Binding.
func (b *ContributionBinding) Scope() string { return b.decl.Scope }

// Dependencies implements Binding.
func (b *ContributionBinding) Dependencies() []binding.Key {
	return append([]binding.Key(nil), b.decl.Deps...)
}

// Declaration returns the backing declaration.
func (b *ContributionBinding) Declaration() binding.Declaration { return b.decl }

// Contributed is the declared type of the produced value.
func (b *ContributionBinding) Contributed() binding.TypeRef { return b.decl.Contributed }

// Site is the producing declaration site.
func (b *ContributionBinding) Site() binding.Site { return b.decl.Site }

// IsDelegate reports whether this binding is a pass-through alias of
// its single dependency.
func (b *ContributionBinding) IsDelegate() bool { return b.decl.IsDelegate() }

// AggregateKind distinguishes map- and set-shaped aggregated bindings.
type AggregateKind int

const (
	MapAggregate AggregateKind = iota
	SetAggregate
)

// String returns the kind name used in plans and diagnostics.
func (k AggregateKind) String() string {
	if k == MapAggregate {
		return "map"
	}
	return "set"
}

// Entry is one contribution of an aggregated binding. MapKey is set
// for map aggregates and nil for set aggregates.
type Entry struct {
	MapKey       *binding.MapKey
	Contribution binding.Declaration
}

// AggregatedBinding collects the map or set contributions to one key,
// in declaration order as supplied by the discovery collaborator. The
// order is stable so generated output is reproducible.
type AggregatedBinding struct {
	key          binding.Key
	kind         AggregateKind
	entries      []Entry
	annotation   string
	instanceOnly bool
}

// Key implements Binding.
func (b *AggregatedBinding) Key() binding.Key { return b.key }

// Scope implements Binding. Aggregated bindings are never scoped.
func (b *AggregatedBinding) Scope() string { return "" }

// Dependencies implements Binding: the union of all contributions'
// dependencies, in declaration order.
func (b *AggregatedBinding) Dependencies() []binding.Key {
	var deps []binding.Key
	for _, e := range b.entries {
		deps = append(deps, e.Contribution.Deps...)
	}
	return deps
}

// Kind reports whether this is a map or a set aggregate.
func (b *AggregatedBinding) Kind() AggregateKind { return b.kind }

// Entries returns the contributions in declaration order.
func (b *AggregatedBinding) Entries() []Entry { return append([]Entry(nil), b.entries...) }

// MapKeyAnnotation is the single map-key annotation type shared by all
// entries of a map aggregate; empty for sets.
func (b *AggregatedBinding) MapKeyAnnotation() string { return b.annotation }

// InstanceOnly reports the accessibility downgrade: some entry-key or
// element type is not visible from the generated package, so no
// statically-typed cached accessor can be exposed and only an
// instance-form (raw) accessor is synthesized. This is not an error.
func (b *AggregatedBinding) InstanceOnly() bool { return b.instanceOnly }

// ResolvedBindings maps every resolved key to its binding. It is built
// once per compilation unit and read-only afterwards.
type ResolvedBindings struct {
	order []binding.Key
	byID  map[string]Binding
}

// Get returns the binding for key, if resolved.
func (r *ResolvedBindings) Get(key binding.Key) (Binding, bool) {
	b, ok := r.byID[key.ID()]
	return b, ok
}

// Keys returns every resolved key in deterministic (declaration)
// order.
func (r *ResolvedBindings) Keys() []binding.Key {
	return append([]binding.Key(nil), r.order...)
}

// Len is the number of resolved bindings.
func (r *ResolvedBindings) Len() int { return len(r.order) }
