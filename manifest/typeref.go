package manifest

import (
	"fmt"
	"strings"

	"github.com/digitalbuddha/dagger/binding"
)

// ParseType parses the manifest type syntax into a TypeRef.
//
// Syntax: an optional package path, a dot, the type name, and optional
// bracketed type arguments:
//
//	web.Handler
//	collections.Map[web.PathEnum,web.Handler]
//	Handler              (no package)
//
// The package path is everything before the last dot outside brackets;
// arguments split at top-level commas and parse recursively.
func ParseType(s string) (binding.TypeRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return binding.TypeRef{}, fmt.Errorf("manifest: empty type")
	}

	base, args, err := splitArgs(s)
	if err != nil {
		return binding.TypeRef{}, err
	}

	t := binding.TypeRef{Name: base}
	if i := strings.LastIndex(base, "."); i >= 0 {
		t.Pkg = base[:i]
		t.Name = base[i+1:]
	}
	if t.Name == "" {
		return binding.TypeRef{}, fmt.Errorf("manifest: malformed type %q", s)
	}

	for _, a := range args {
		at, err := ParseType(a)
		if err != nil {
			return binding.TypeRef{}, err
		}
		t.Args = append(t.Args, at)
	}
	return t, nil
}

// splitArgs separates "base[a,b]" into base and its top-level argument
// strings. A missing bracket suffix returns base unchanged and no args.
func splitArgs(s string) (string, []string, error) {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		return s, nil, nil
	}
	if !strings.HasSuffix(s, "]") {
		return "", nil, fmt.Errorf("manifest: malformed type %q: unterminated type arguments", s)
	}

	base := s[:open]
	inner := s[open+1 : len(s)-1]

	var args []string
	depth := 0
	start := 0
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return "", nil, fmt.Errorf("manifest: malformed type %q: unbalanced brackets", s)
			}
		case ',':
			if depth == 0 {
				args = append(args, inner[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return "", nil, fmt.Errorf("manifest: malformed type %q: unbalanced brackets", s)
	}
	if strings.TrimSpace(inner) == "" {
		return "", nil, fmt.Errorf("manifest: malformed type %q: empty type arguments", s)
	}
	args = append(args, inner[start:])
	return base, args, nil
}
