package codegen

import (
	"strings"

	"github.com/digitalbuddha/dagger/binding"
	"github.com/digitalbuddha/dagger/graph"
)

// Expr is a typed code-fragment descriptor. Implementations are
// immutable; String renders the canonical debug form used for plan
// fingerprints, never emitted as source.
type Expr interface {
	// Type is the expression's best-known static type.
	Type() binding.TypeRef

	// String renders the canonical form.
	String() string
}

// ProvisionExpr invokes a producing site's factory directly.
type ProvisionExpr struct {
	Site binding.Site
	Out  binding.TypeRef
}

// Type implements Expr.
func (e ProvisionExpr) Type() binding.TypeRef { return e.Out }

// String implements Expr.
func (e ProvisionExpr) String() string { return e.Site.Name + "()" }

// CachedExpr reads a memoizing field, constructing on first access
// with the strategy the scope kind demands. The engine only selects
// the strategy; the generated runtime implements it.
type CachedExpr struct {
	Strategy binding.ScopeKind
	Field    string
	Inner    Expr
	Out      binding.TypeRef
}

// Type implements Expr.
func (e CachedExpr) Type() binding.TypeRef { return e.Out }

// String implements Expr.
func (e CachedExpr) String() string {
	return e.Strategy.String() + "(" + e.Field + " := " + e.Inner.String() + ")"
}

// CastExpr wraps an expression in an explicit cast.
type CastExpr struct {
	To    binding.TypeRef
	Inner Expr
}

// Type implements Expr.
func (e CastExpr) Type() binding.TypeRef { return e.To }

// String implements Expr.
func (e CastExpr) String() string { return "(" + e.To.String() + ") " + e.Inner.String() }

// WrapperExpr surfaces an instance expression as the requested
// provider or lazy handle.
type WrapperExpr struct {
	Kind  binding.RequestKind
	Inner Expr
	Out   binding.TypeRef
}

// Type implements Expr.
func (e WrapperExpr) Type() binding.TypeRef { return e.Out }

// String implements Expr.
func (e WrapperExpr) String() string { return e.Kind.String() + "{" + e.Inner.String() + "}" }

// AggregateEntry is one element of an AggregateExpr. EntryKey is empty
// for set aggregates.
type AggregateEntry struct {
	EntryKey string
	Value    Expr
}

// AggregateExpr builds a map or set artifact from its contributions,
// in declaration order.
type AggregateExpr struct {
	Kind    graph.AggregateKind
	Entries []AggregateEntry
	Out     binding.TypeRef
}

// Type implements Expr.
func (e AggregateExpr) Type() binding.TypeRef { return e.Out }

// String implements Expr.
func (e AggregateExpr) String() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	sb.WriteString("Of(")
	for i, entry := range e.Entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		if entry.EntryKey != "" {
			sb.WriteString(entry.EntryKey)
			sb.WriteString(": ")
		}
		sb.WriteString(entry.Value.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
