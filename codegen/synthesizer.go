package codegen

import (
	"strings"

	"github.com/digitalbuddha/dagger/binding"
	"github.com/digitalbuddha/dagger/graph"
)

// UnresolvedKeyError is returned when a request names a key absent
// from the resolved graph. It cannot occur for requests that went
// through graph.Build with the same inputs.
type UnresolvedKeyError struct{ Key binding.Key }

// Error implements the error interface.
func (e UnresolvedKeyError) Error() string {
	return "dagger: no resolved binding for " + e.Key.String()
}

// Synthesizer produces accessor expressions for requests against one
// resolved graph. It is a pure function over immutable inputs:
// synthesizing the same request twice yields structurally identical
// expressions.
type Synthesizer struct {
	rb     *graph.ResolvedBindings
	oracle binding.TypeOracle
	cfg    graph.Config
}

// NewSynthesizer builds a synthesizer over a resolved graph. The
// oracle is the external type-compatibility seam; cfg must be the
// configuration the graph was built with.
func NewSynthesizer(rb *graph.ResolvedBindings, oracle binding.TypeOracle, cfg graph.Config) *Synthesizer {
	return &Synthesizer{rb: rb, oracle: oracle, cfg: cfg}
}

// Synthesize emits the accessor expression for one request.
func (s *Synthesizer) Synthesize(req binding.Request) (Expr, error) {
	b, ok := s.rb.Get(req.Key)
	if !ok {
		return nil, UnresolvedKeyError{Key: req.Key}
	}

	switch b := b.(type) {
	case *graph.ContributionBinding:
		if b.IsDelegate() {
			return s.delegate(b, req)
		}
		return s.standard(b, req), nil
	case *graph.AggregatedBinding:
		return s.aggregate(b, req), nil
	default:
		return nil, UnresolvedKeyError{Key: req.Key}
	}
}

// standard is the plain accessor: direct construction, wrapped in a
// cached-field read when the binding is scoped, then surfaced in the
// requested form.
func (s *Synthesizer) standard(b *graph.ContributionBinding, req binding.Request) Expr {
	var expr Expr = ProvisionExpr{Site: b.Site(), Out: b.Contributed()}

	if kind := binding.ClassifyScope(b.Scope(), s.cfg.Scopes); kind != binding.Unscoped {
		expr = CachedExpr{
			Strategy: kind,
			Field:    fieldName(b.Key()),
			Inner:    expr,
			Out:      b.Contributed(),
		}
	}
	return s.surface(expr, b.Contributed(), req)
}

// delegate handles a pass-through alias. The delegate's expression is
// reused directly iff the alias caches no more strongly than its
// delegate; otherwise the alias gets its own cached accessor wrapping
// the delegate's instance expression. Reuse never fails - when the
// gate rejects, the non-optimized path is taken silently.
func (s *Synthesizer) delegate(b *graph.ContributionBinding, req binding.Request) (Expr, error) {
	depKey := b.Declaration().Deps[0]
	depBinding, ok := s.rb.Get(depKey)
	if !ok {
		return nil, UnresolvedKeyError{Key: depKey}
	}

	aliasScope := binding.ClassifyScope(b.Scope(), s.cfg.Scopes)
	delegateScope := binding.ClassifyScope(depBinding.Scope(), s.cfg.Scopes)

	if !aliasScope.SimilarOrWeaker(delegateScope) {
		// The alias declares a stronger cache than its source: give it
		// its own caching accessor over the delegate's instance.
		inner, err := s.Synthesize(binding.Request{Key: depKey, Kind: binding.Instance, Pkg: req.Pkg})
		if err != nil {
			return nil, err
		}
		cached := CachedExpr{
			Strategy: aliasScope,
			Field:    fieldName(b.Key()),
			Inner:    inner,
			Out:      s.exposedType(b.Contributed(), inner.Type()),
		}
		return s.surface(cached, b.Contributed(), req), nil
	}

	delegateExpr, err := s.Synthesize(binding.Request{Key: depKey, Kind: req.Kind, Pkg: req.Pkg})
	if err != nil {
		return nil, err
	}
	return s.castForRequest(delegateExpr, b.Contributed(), req), nil
}

// aggregate builds the map/set literal expression. An accessibility
// downgrade makes the literal raw-typed; strongly-typed consumers then
// get a cast by the usual insertion rule.
func (s *Synthesizer) aggregate(b *graph.AggregatedBinding, req binding.Request) Expr {
	agg := AggregateExpr{Kind: b.Kind(), Out: b.Key().Type}
	for _, entry := range b.Entries() {
		e := AggregateEntry{
			Value: ProvisionExpr{Site: entry.Contribution.Site, Out: entry.Contribution.Contributed},
		}
		if entry.MapKey != nil {
			e.EntryKey = entry.MapKey.Value()
		}
		agg.Entries = append(agg.Entries, e)
	}
	if b.InstanceOnly() {
		agg.Out = s.erase(b.Key().Type)
	}
	return s.castForRequest(agg, b.Key().Type, req)
}

// castForRequest applies the cast-insertion rules after an expression
// has been obtained for a consumer:
//
//   - Instance requests cast to the exposed contributed type iff the
//     expression's type is not assignable to it AND the contributed
//     type is visible from the requesting package. An invisible
//     contributed type gets no cast even when types disagree -
//     erasure/dynamic behavior at the host level covers it.
//   - Wrapped requests keep an already-assignable expression, else
//     cast to the erased requested wrapper type, never the
//     parameterized form.
func (s *Synthesizer) castForRequest(expr Expr, contributed binding.TypeRef, req binding.Request) Expr {
	switch req.Kind {
	case binding.Instance:
		if s.instanceRequiresCast(expr, contributed, req.Pkg) {
			return CastExpr{To: contributed, Inner: expr}
		}
		return expr
	default:
		desired := req.Kind.Wrapped(contributed)
		if s.assignable(expr.Type(), desired) {
			return expr
		}
		return CastExpr{To: s.erase(desired), Inner: expr}
	}
}

// instanceRequiresCast mirrors the delegate cast rule: the expression's
// type may be raw-provider Object-like, so assignability is asked of
// the oracle, and a cast is only legal when the target is nameable at
// the call site.
func (s *Synthesizer) instanceRequiresCast(expr Expr, contributed binding.TypeRef, pkg string) bool {
	return !s.assignable(expr.Type(), contributed) && s.visibleFrom(contributed, pkg)
}

// surface converts an instance-form expression to the requested form.
func (s *Synthesizer) surface(expr Expr, contributed binding.TypeRef, req binding.Request) Expr {
	if req.Kind == binding.Instance {
		return expr
	}
	return WrapperExpr{Kind: req.Kind, Inner: expr, Out: req.Kind.Wrapped(contributed)}
}

// exposedType picks the static type of a generated cached field: the
// contributed type when the generated package can name it, else the
// inner expression's own type.
func (s *Synthesizer) exposedType(contributed, fallback binding.TypeRef) binding.TypeRef {
	if s.visibleFrom(contributed, s.cfg.GeneratedPkg) {
		return contributed
	}
	return fallback
}

func (s *Synthesizer) assignable(src, dst binding.TypeRef) bool {
	if src.Equal(dst) {
		return true
	}
	if s.oracle == nil {
		return false
	}
	return s.oracle.IsAssignable(src, dst)
}

func (s *Synthesizer) visibleFrom(t binding.TypeRef, pkg string) bool {
	if s.oracle == nil {
		return true
	}
	return s.oracle.IsVisibleFrom(t, pkg)
}

func (s *Synthesizer) erase(t binding.TypeRef) binding.TypeRef {
	if s.oracle == nil {
		return t.Erased()
	}
	return s.oracle.Erase(t)
}

// fieldName derives the generated cache-field name for a key, e.g.
// `@"admin" web.Handler` -> "adminHandler".
func fieldName(key binding.Key) string {
	name := key.Type.Name
	if name == "" {
		name = "value"
	}
	name = strings.ToLower(name[:1]) + name[1:]
	if key.Qualifier == "" {
		return name
	}
	q := key.Qualifier
	return strings.ToLower(q[:1]) + q[1:] + strings.ToUpper(name[:1]) + name[1:]
}
