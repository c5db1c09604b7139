package binding

import (
	"sort"
	"strings"
)

// ContributionKind says how a declaration feeds its key.
type ContributionKind int

const (
	// Unique is a plain one-producer binding.
	Unique ContributionKind = iota

	// MapEntry contributes one keyed entry to an aggregated map.
	MapEntry

	// SetElement contributes one element to an aggregated set.
	SetElement
)

// String returns the kind name used in diagnostics.
func (k ContributionKind) String() string {
	switch k {
	case Unique:
		return "unique"
	case MapEntry:
		return "map entry"
	case SetElement:
		return "set element"
	default:
		return "unknown"
	}
}

// Site identifies one producing declaration site, for diagnostics and
// for visibility checks of the code the site would appear in.
type Site struct {
	// Name is the human identity, e.g. "HandlerModule.provideAdminHandler".
	Name string

	// Pkg is the package the site is declared in.
	Pkg string
}

// String returns the site name.
func (s Site) String() string { return s.Name }

// MapKeyMember is one named annotation member value of a map key.
type MapKeyMember struct {
	Name  string
	Value string
}

// MapKey is the extracted entry key of a MapEntry contribution.
//
// Annotation names the map-key annotation type the value was extracted
// from. All contributions to one aggregated map must agree on it.
//
// Unwrap=true means the single member value is the runtime key
// directly; Unwrap=false means the key is a composite synthesized from
// all members.
type MapKey struct {
	Annotation string
	Unwrap     bool
	Members    []MapKeyMember

	// KeyType is the runtime type of the map key (the unwrapped member
	// type, or the annotation type itself for composite keys).
	KeyType TypeRef
}

// Value returns the canonical key value used for duplicate detection
// and for declaration-order-independent equality. Composite keys sort
// members by name so member ordering at the declaration site does not
// affect identity.
func (m MapKey) Value() string {
	if m.Unwrap {
		if len(m.Members) == 0 {
			return ""
		}
		return m.Members[0].Value
	}
	members := append([]MapKeyMember(nil), m.Members...)
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })

	var sb strings.Builder
	sb.WriteString(m.Annotation)
	sb.WriteByte('(')
	for i, mm := range members {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(mm.Name)
		sb.WriteByte('=')
		sb.WriteString(mm.Value)
	}
	sb.WriteByte(')')
	return sb.String()
}

// Declaration is one producer site contributing to a key.
//
// Declarations are read-only input from the discovery collaborator;
// the builder groups and validates them but never mutates them.
type Declaration struct {
	Site Site
	Kind ContributionKind

	// Key the contribution feeds. For MapEntry/SetElement this is the
	// aggregated key (the map or set key), not the entry itself.
	Key Key

	// Contributed is the declared type of the produced value.
	Contributed TypeRef

	// Deps are the keys required to produce the value, in declaration
	// order.
	Deps []Key

	// Scope is the caching domain name; empty means unscoped.
	Scope string

	// Delegate marks a pass-through alias declaration: the value is
	// exactly its single dependency, unchanged.
	Delegate bool

	// MapKey is set iff Kind == MapEntry.
	MapKey *MapKey
}

// IsDelegate reports whether d is a well-formed alias: declared as a
// delegate and forwarding to exactly one dependency.
func (d Declaration) IsDelegate() bool { return d.Delegate && len(d.Deps) == 1 }
