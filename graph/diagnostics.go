package graph

import (
	"strconv"
	"strings"

	"github.com/digitalbuddha/dagger/binding"
)

// Diagnostic is one build-time problem, naming the declaration sites
// involved. All diagnostics are non-recoverable for the compilation
// unit; there is no retry path.
type Diagnostic interface {
	error

	// Subject is the key the diagnostic is about.
	Subject() binding.Key
}

// Diagnostics is every problem found while building one compilation
// unit's graph. It implements error so a whole unit's findings travel
// as one value.
type Diagnostics []Diagnostic

// Error joins all diagnostics, one per line.
func (d Diagnostics) Error() string {
	msgs := make([]string, len(d))
	for i, diag := range d {
		msgs[i] = diag.Error()
	}
	return strings.Join(msgs, "\n")
}

// HasErrors reports whether any diagnostic was collected.
func (d Diagnostics) HasErrors() bool { return len(d) > 0 }

// DuplicateBindingError reports more than one unique contribution for
// the same key. Sites lists every offending producer.
type DuplicateBindingError struct {
	Key   binding.Key
	Sites []binding.Site
}

// Subject implements Diagnostic.
func (e DuplicateBindingError) Subject() binding.Key { return e.Key }

// Error implements the error interface.
func (e DuplicateBindingError) Error() string {
	// Example: dagger: app.Config is bound multiple times (sites: A.provide, B.provide)
	return "dagger: " + e.Key.String() + " is bound multiple times (sites: " + siteList(e.Sites) + ")"
}

// DuplicateMapKeyError reports two or more map contributions sharing
// one entry key. Exactly one error is emitted per colliding key, no
// matter how many sites collide.
type DuplicateMapKeyError struct {
	Key      binding.Key
	EntryKey string
	Sites    []binding.Site
}

// Subject implements Diagnostic.
func (e DuplicateMapKeyError) Subject() binding.Key { return e.Key }

// Error implements the error interface.
func (e DuplicateMapKeyError) Error() string {
	// Example: dagger: the same map key is bound more than once for web.Map[...]: "ADMIN" (sites: ...)
	return "dagger: the same map key is bound more than once for " + e.Key.String() +
		": " + strconv.Quote(e.EntryKey) + " (sites: " + siteList(e.Sites) + ")"
}

// InconsistentMapKeyAnnotationError reports contributions to one
// aggregated map using differing map-key annotation types.
type InconsistentMapKeyAnnotationError struct {
	Key         binding.Key
	Annotations []string
	Sites       []binding.Site
}

// Subject implements Diagnostic.
func (e InconsistentMapKeyAnnotationError) Subject() binding.Key { return e.Key }

// Error implements the error interface.
func (e InconsistentMapKeyAnnotationError) Error() string {
	// Example: dagger: web.Map[...] uses more than one map-key annotation type: PathKey, NameKey (sites: ...)
	return "dagger: " + e.Key.String() + " uses more than one map-key annotation type: " +
		strings.Join(e.Annotations, ", ") + " (sites: " + siteList(e.Sites) + ")"
}

// UnsatisfiedDependencyError reports a requested or transitively
// required key with no contribution. Chain is the requesting path,
// ending at the unsatisfied key.
type UnsatisfiedDependencyError struct {
	Key   binding.Key
	Chain []binding.Key
}

// Subject implements Diagnostic.
func (e UnsatisfiedDependencyError) Subject() binding.Key { return e.Key }

// Error implements the error interface.
func (e UnsatisfiedDependencyError) Error() string {
	// Example: dagger: web.Auth cannot be provided without a binding (required by: web.Server -> web.Auth)
	msg := "dagger: " + e.Key.String() + " cannot be provided without a binding"
	if len(e.Chain) > 0 {
		parts := make([]string, len(e.Chain))
		for i, k := range e.Chain {
			parts[i] = k.String()
		}
		msg += " (required by: " + strings.Join(parts, " -> ") + ")"
	}
	return msg
}

func siteList(sites []binding.Site) string {
	names := make([]string, len(sites))
	for i, s := range sites {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
