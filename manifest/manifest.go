package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/digitalbuddha/dagger/binding"
	"github.com/digitalbuddha/dagger/graph"
)

// Manifest is the validated, engine-ready form of one wiring manifest.
type Manifest struct {
	Config       graph.Config
	Declarations []binding.Declaration
	Requests     []binding.Request
	Oracle       *StaticOracle
}

// ---- Internal YAML parsing structs ----------------------------------------
//
// These mirror the engine types but carry YAML tags and handle
// format-specific concerns (polymorphic key refs, type strings). They
// are converted to binding/graph values before being returned.

type yamlManifest struct {
	Package string `yaml:"package"`

	Scopes struct {
		Reusable   string   `yaml:"reusable,omitempty"`
		Releasable []string `yaml:"releasable,omitempty"`
	} `yaml:"scopes,omitempty"`

	Types []struct {
		Name     string `yaml:"name"`
		Exported bool   `yaml:"exported"`
	} `yaml:"types,omitempty"`

	Assignable []struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"assignable,omitempty"`

	Declarations []yamlDeclaration `yaml:"declarations"`
	Requests     []yamlRequest     `yaml:"requests,omitempty"`
}

type yamlDeclaration struct {
	Site        string      `yaml:"site"`
	SitePkg     string      `yaml:"sitePkg,omitempty"`
	Kind        string      `yaml:"kind,omitempty"` // unique (default) | map-entry | set-element
	Key         yamlKey     `yaml:"key"`
	Contributed string      `yaml:"contributed"`
	Deps        []yamlKey   `yaml:"deps,omitempty"`
	Scope       string      `yaml:"scope,omitempty"`
	Delegate    bool        `yaml:"delegate,omitempty"`
	MapKey      *yamlMapKey `yaml:"mapKey,omitempty"`
}

type yamlMapKey struct {
	Annotation string `yaml:"annotation"`
	Unwrap     bool   `yaml:"unwrap"`
	KeyType    string `yaml:"keyType"`
	Members    []struct {
		Name  string `yaml:"name"`
		Value string `yaml:"value"`
	} `yaml:"members"`
}

type yamlRequest struct {
	Key  yamlKey `yaml:"key"`
	Kind string  `yaml:"kind,omitempty"` // instance (default) | provider | lazy
	Pkg  string  `yaml:"pkg,omitempty"`
}

// yamlKey accepts either a bare type string or a mapping with type and
// qualifier. A non-pointer yaml.Node would also work here, but a
// custom unmarshaller reads better for a two-form scalar/mapping split.
type yamlKey struct {
	Type      string
	Qualifier string
}

func (k *yamlKey) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		k.Type = node.Value
		return nil
	case yaml.MappingNode:
		var m struct {
			Type      string `yaml:"type"`
			Qualifier string `yaml:"qualifier,omitempty"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		k.Type = m.Type
		k.Qualifier = m.Qualifier
		return nil
	default:
		return fmt.Errorf("manifest: key must be a type string or a mapping, got YAML kind %d", node.Kind)
	}
}

// ---- Load / Parse ----------------------------------------------------------

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates one YAML manifest.
func Parse(raw []byte) (*Manifest, error) {
	var ym yamlManifest
	if err := yaml.Unmarshal(raw, &ym); err != nil {
		return nil, err
	}
	return convert(ym)
}

func convert(ym yamlManifest) (*Manifest, error) {
	if ym.Package == "" {
		return nil, fmt.Errorf("manifest: missing 'package'")
	}
	if len(ym.Declarations) == 0 {
		return nil, fmt.Errorf("manifest: missing or empty 'declarations'")
	}

	m := &Manifest{
		Config: graph.Config{
			GeneratedPkg: ym.Package,
			Scopes: binding.ScopeConfig{
				Reusable:   ym.Scopes.Reusable,
				Releasable: append([]string(nil), ym.Scopes.Releasable...),
			},
		},
		Oracle: NewStaticOracle(),
	}

	for _, t := range ym.Types {
		tr, err := ParseType(t.Name)
		if err != nil {
			return nil, fmt.Errorf("types: %w", err)
		}
		m.Oracle.Export(tr, t.Exported)
	}
	for _, a := range ym.Assignable {
		from, err := ParseType(a.From)
		if err != nil {
			return nil, fmt.Errorf("assignable: %w", err)
		}
		to, err := ParseType(a.To)
		if err != nil {
			return nil, fmt.Errorf("assignable: %w", err)
		}
		m.Oracle.Assignable(from, to)
	}

	for i, yd := range ym.Declarations {
		d, err := convertDeclaration(yd)
		if err != nil {
			return nil, fmt.Errorf("declarations[%d] (%s): %w", i, yd.Site, err)
		}
		m.Declarations = append(m.Declarations, d)
	}

	for i, yr := range ym.Requests {
		r, err := convertRequest(yr, ym.Package)
		if err != nil {
			return nil, fmt.Errorf("requests[%d]: %w", i, err)
		}
		m.Requests = append(m.Requests, r)
	}

	return m, nil
}

func convertDeclaration(yd yamlDeclaration) (binding.Declaration, error) {
	if yd.Site == "" {
		return binding.Declaration{}, fmt.Errorf("missing 'site'")
	}

	kind, err := contributionKind(yd.Kind)
	if err != nil {
		return binding.Declaration{}, err
	}
	key, err := convertKey(yd.Key)
	if err != nil {
		return binding.Declaration{}, fmt.Errorf("key: %w", err)
	}
	contributed, err := ParseType(yd.Contributed)
	if err != nil {
		return binding.Declaration{}, fmt.Errorf("contributed: %w", err)
	}

	d := binding.Declaration{
		Site:        binding.Site{Name: yd.Site, Pkg: yd.SitePkg},
		Kind:        kind,
		Key:         key,
		Contributed: contributed,
		Scope:       yd.Scope,
		Delegate:    yd.Delegate,
	}

	for _, yk := range yd.Deps {
		dk, err := convertKey(yk)
		if err != nil {
			return binding.Declaration{}, fmt.Errorf("deps: %w", err)
		}
		d.Deps = append(d.Deps, dk)
	}

	if yd.Delegate && len(d.Deps) != 1 {
		return binding.Declaration{}, fmt.Errorf("delegate declarations need exactly one dep, got %d", len(d.Deps))
	}

	switch kind {
	case binding.MapEntry:
		if yd.MapKey == nil {
			return binding.Declaration{}, fmt.Errorf("map-entry declarations need a 'mapKey'")
		}
		mk, err := convertMapKey(*yd.MapKey)
		if err != nil {
			return binding.Declaration{}, fmt.Errorf("mapKey: %w", err)
		}
		d.MapKey = mk
	default:
		if yd.MapKey != nil {
			return binding.Declaration{}, fmt.Errorf("'mapKey' is only valid on map-entry declarations")
		}
	}

	return d, nil
}

func convertMapKey(ym yamlMapKey) (*binding.MapKey, error) {
	if ym.Annotation == "" {
		return nil, fmt.Errorf("missing 'annotation'")
	}
	if len(ym.Members) == 0 {
		return nil, fmt.Errorf("missing 'members'")
	}
	if ym.Unwrap && len(ym.Members) != 1 {
		return nil, fmt.Errorf("unwrap=true needs exactly one member, got %d", len(ym.Members))
	}

	keyType, err := ParseType(ym.KeyType)
	if err != nil {
		return nil, fmt.Errorf("keyType: %w", err)
	}

	mk := &binding.MapKey{
		Annotation: ym.Annotation,
		Unwrap:     ym.Unwrap,
		KeyType:    keyType,
	}
	for _, mm := range ym.Members {
		if mm.Name == "" {
			return nil, fmt.Errorf("member missing 'name'")
		}
		mk.Members = append(mk.Members, binding.MapKeyMember{Name: mm.Name, Value: mm.Value})
	}
	return mk, nil
}

func convertRequest(yr yamlRequest, defaultPkg string) (binding.Request, error) {
	key, err := convertKey(yr.Key)
	if err != nil {
		return binding.Request{}, fmt.Errorf("key: %w", err)
	}
	kind, err := requestKind(yr.Kind)
	if err != nil {
		return binding.Request{}, err
	}
	pkg := yr.Pkg
	if pkg == "" {
		pkg = defaultPkg
	}
	return binding.Request{Key: key, Kind: kind, Pkg: pkg}, nil
}

func convertKey(yk yamlKey) (binding.Key, error) {
	t, err := ParseType(yk.Type)
	if err != nil {
		return binding.Key{}, err
	}
	return binding.Key{Type: t, Qualifier: yk.Qualifier}, nil
}

func contributionKind(s string) (binding.ContributionKind, error) {
	switch s {
	case "", "unique":
		return binding.Unique, nil
	case "map-entry":
		return binding.MapEntry, nil
	case "set-element":
		return binding.SetElement, nil
	default:
		return 0, fmt.Errorf("unknown contribution kind %q (want unique, map-entry, or set-element)", s)
	}
}

func requestKind(s string) (binding.RequestKind, error) {
	switch s {
	case "", "instance":
		return binding.Instance, nil
	case "provider":
		return binding.Provider, nil
	case "lazy":
		return binding.Lazy, nil
	default:
		return 0, fmt.Errorf("unknown request kind %q (want instance, provider, or lazy)", s)
	}
}
