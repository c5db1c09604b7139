package binding

import (
	"strconv"
	"strings"
)

// TypeRef is a reference to a type in the host type system.
//
// The engine treats types as opaque facts: it never resolves them, it
// only compares them structurally and asks the type-compatibility
// oracle about assignability and visibility. Args carries type
// arguments for parameterized forms (Provider[T], Map[K]V, ...).
type TypeRef struct {
	// Pkg is the declaring package path. Empty for builtins.
	Pkg string

	// Name is the type name within Pkg.
	Name string

	// Args are the type arguments, outermost level only as far as the
	// engine cares; nested parameterization nests TypeRefs.
	Args []TypeRef
}

// Type builds an unparameterized TypeRef.
func Type(pkg, name string) TypeRef { return TypeRef{Pkg: pkg, Name: name} }

// Parameterized returns a copy of t carrying the given type arguments.
func (t TypeRef) Parameterized(args ...TypeRef) TypeRef {
	t.Args = append([]TypeRef(nil), args...)
	return t
}

// Erased returns t without type arguments. This is the engine-local
// notion of erasure; the oracle may refine it.
func (t TypeRef) Erased() TypeRef { return TypeRef{Pkg: t.Pkg, Name: t.Name} }

// IsParameterized reports whether t carries type arguments.
func (t TypeRef) IsParameterized() bool { return len(t.Args) > 0 }

// Equal reports structural equality, including type arguments.
func (t TypeRef) Equal(o TypeRef) bool {
	if t.Pkg != o.Pkg || t.Name != o.Name || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// String renders the canonical form, e.g. "app/web.Handler" or
// "dagger.Provider[app/web.Handler]".
func (t TypeRef) String() string {
	var sb strings.Builder
	if t.Pkg != "" {
		sb.WriteString(t.Pkg)
		sb.WriteByte('.')
	}
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteByte('[')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(a.String())
		}
		sb.WriteByte(']')
	}
	return sb.String()
}

// Key identifies a requested artifact by type plus optional qualifier.
//
// Two keys are equal iff type and qualifier are equal. Keys are
// immutable; ID() is the canonical map-index form.
type Key struct {
	Type      TypeRef
	Qualifier string
}

// KeyOf builds an unqualified key.
func KeyOf(t TypeRef) Key { return Key{Type: t} }

// Qualified builds a qualified key.
func Qualified(t TypeRef, qualifier string) Key { return Key{Type: t, Qualifier: qualifier} }

// Equal reports key equality (type and qualifier).
func (k Key) Equal(o Key) bool { return k.Qualifier == o.Qualifier && k.Type.Equal(o.Type) }

// ID returns the canonical index form, e.g. `@"admin" app/web.Handler`.
func (k Key) ID() string {
	if k.Qualifier == "" {
		return k.Type.String()
	}
	return "@" + strconv.Quote(k.Qualifier) + " " + k.Type.String()
}

// String is the same as ID; keys render identically everywhere.
func (k Key) String() string { return k.ID() }
