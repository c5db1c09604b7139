package graph

import (
	"github.com/digitalbuddha/dagger/binding"
)

// Config is the per-compilation-unit graph configuration.
type Config struct {
	// Scopes is the scope configuration used to classify caching
	// strength.
	Scopes binding.ScopeConfig

	// GeneratedPkg is the package the generated component lives in.
	// Aggregation uses it for entry-key/element accessibility checks.
	GeneratedPkg string
}

// Build resolves declarations into a binding graph.
//
// Every requested key and every key transitively required by one must
// resolve to exactly one binding. Problems do not abort the pass:
// all diagnostics are collected and returned together, and in that
// case the returned ResolvedBindings is nil.
//
// Build does not detect dependency cycles; acyclicity is a property of
// the broader graph validator. Cyclic shapes resolve normally here and
// rely on provider indirection downstream.
func Build(decls []binding.Declaration, requests []binding.Request, cfg Config, oracle binding.TypeOracle) (*ResolvedBindings, Diagnostics) {
	b := builder{cfg: cfg, oracle: oracle}
	return b.build(decls, requests)
}

type builder struct {
	cfg    Config
	oracle binding.TypeOracle
	diags  Diagnostics
}

func (b *builder) build(decls []binding.Declaration, requests []binding.Request) (*ResolvedBindings, Diagnostics) {
	rb := &ResolvedBindings{byID: make(map[string]Binding)}

	// Group by key, preserving first-occurrence order.
	var order []binding.Key
	groups := make(map[string][]binding.Declaration)
	for _, d := range decls {
		id := d.Key.ID()
		if _, seen := groups[id]; !seen {
			order = append(order, d.Key)
		}
		groups[id] = append(groups[id], d)
	}

	// declared marks keys that have contributions, valid or not, so a
	// key that fails uniqueness is not also reported as unsatisfied.
	declared := make(map[string]bool, len(order))

	for _, key := range order {
		group := groups[key.ID()]
		declared[key.ID()] = true

		resolved := b.resolveGroup(key, group)
		if resolved == nil {
			continue
		}
		rb.order = append(rb.order, key)
		rb.byID[key.ID()] = resolved
	}

	b.checkSatisfied(rb, requests, declared)

	if b.diags.HasErrors() {
		return nil, b.diags
	}
	return rb, nil
}

// resolveGroup turns all contributions to one key into a single
// binding, or records a diagnostic and returns nil.
func (b *builder) resolveGroup(key binding.Key, group []binding.Declaration) Binding {
	var unique, multi []binding.Declaration
	for _, d := range group {
		if d.Kind == binding.Unique {
			unique = append(unique, d)
		} else {
			multi = append(multi, d)
		}
	}

	switch {
	case len(unique) == 1 && len(multi) == 0:
		return &ContributionBinding{decl: unique[0]}

	case len(unique) == 0:
		return b.aggregate(key, multi)

	default:
		// More than one unique contribution, or a unique contribution
		// colliding with multibinding contributions.
		b.report(DuplicateBindingError{Key: key, Sites: sitesOf(group)})
		return nil
	}
}

// aggregate builds one AggregatedBinding from the map/set
// contributions to key, per the multibinding rules: declaration order
// preserved, one consistent map-key annotation type, pairwise-distinct
// entry keys, and no value-level deduplication for sets.
func (b *builder) aggregate(key binding.Key, contributions []binding.Declaration) Binding {
	kind := SetAggregate
	if contributions[0].Kind == binding.MapEntry {
		kind = MapAggregate
	}
	for _, d := range contributions {
		want := binding.SetElement
		if kind == MapAggregate {
			want = binding.MapEntry
		}
		if d.Kind != want {
			// Map entries and set elements feeding one key cannot form
			// a single aggregate.
			b.report(DuplicateBindingError{Key: key, Sites: sitesOf(contributions)})
			return nil
		}
	}

	agg := &AggregatedBinding{key: key, kind: kind}
	ok := true

	if kind == MapAggregate {
		ok = b.aggregateMap(agg, key, contributions)
	} else {
		for _, d := range contributions {
			agg.entries = append(agg.entries, Entry{Contribution: d})
			if !b.visible(d.Contributed) {
				agg.instanceOnly = true
			}
		}
	}

	if !ok {
		return nil
	}
	return agg
}

func (b *builder) aggregateMap(agg *AggregatedBinding, key binding.Key, contributions []binding.Declaration) bool {
	// All contributions must use one map-key annotation type,
	// regardless of unwrap mode.
	var annotations []string
	seenAnnotation := make(map[string]bool)
	for _, d := range contributions {
		a := d.MapKey.Annotation
		if !seenAnnotation[a] {
			seenAnnotation[a] = true
			annotations = append(annotations, a)
		}
	}
	if len(annotations) > 1 {
		b.report(InconsistentMapKeyAnnotationError{
			Key:         key,
			Annotations: annotations,
			Sites:       sitesOf(contributions),
		})
		return false
	}
	agg.annotation = annotations[0]

	// Entry keys must be pairwise distinct: one error per colliding
	// key value, naming every site of the collision group.
	byValue := make(map[string][]binding.Site)
	var valueOrder []string
	for _, d := range contributions {
		v := d.MapKey.Value()
		if _, seen := byValue[v]; !seen {
			valueOrder = append(valueOrder, v)
		}
		byValue[v] = append(byValue[v], d.Site)
	}
	collided := false
	for _, v := range valueOrder {
		if sites := byValue[v]; len(sites) > 1 {
			collided = true
			b.report(DuplicateMapKeyError{Key: key, EntryKey: v, Sites: sites})
		}
	}
	if collided {
		return false
	}

	for _, d := range contributions {
		mk := *d.MapKey
		agg.entries = append(agg.entries, Entry{MapKey: &mk, Contribution: d})
		// An inaccessible entry-key type downgrades the aggregate to
		// instance-only surfacing; the contribution stays in.
		if !b.visible(d.MapKey.KeyType) {
			agg.instanceOnly = true
		}
	}
	return true
}

// checkSatisfied walks the dependency graph from every request and
// reports each unsatisfied key once, with the chain that reached it.
func (b *builder) checkSatisfied(rb *ResolvedBindings, requests []binding.Request, declared map[string]bool) {
	reported := make(map[string]bool)

	var walk func(key binding.Key, chain []binding.Key, visited map[string]bool)
	walk = func(key binding.Key, chain []binding.Key, visited map[string]bool) {
		id := key.ID()
		if visited[id] {
			return
		}
		visited[id] = true

		if !declared[id] {
			if !reported[id] {
				reported[id] = true
				b.report(UnsatisfiedDependencyError{
					Key:   key,
					Chain: append(append([]binding.Key(nil), chain...), key),
				})
			}
			return
		}

		resolved, ok := rb.byID[id]
		if !ok {
			// Declared but invalid (already diagnosed); dependents do
			// not pile on.
			return
		}
		next := append(append([]binding.Key(nil), chain...), key)
		for _, dep := range resolved.Dependencies() {
			walk(dep, next, visited)
		}
	}

	for _, req := range requests {
		walk(req.Key, nil, make(map[string]bool))
	}

	// Dependencies of declared-but-unrequested bindings must resolve
	// too; their chains are rooted at the binding itself.
	for _, key := range rb.order {
		walk(key, nil, make(map[string]bool))
	}
}

func (b *builder) visible(t binding.TypeRef) bool {
	if b.oracle == nil {
		return true
	}
	return b.oracle.IsVisibleFrom(t, b.cfg.GeneratedPkg)
}

func (b *builder) report(d Diagnostic) { b.diags = append(b.diags, d) }

func sitesOf(decls []binding.Declaration) []binding.Site {
	sites := make([]binding.Site, len(decls))
	for i, d := range decls {
		sites[i] = d.Site
	}
	return sites
}
