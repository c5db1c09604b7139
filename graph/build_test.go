package graph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalbuddha/dagger/binding"
	"github.com/digitalbuddha/dagger/graph"
)

var (
	handlerType = binding.Type("web", "Handler")
	pathEnum    = binding.Type("web", "PathEnum")
	dbType      = binding.Type("web", "DB")

	handlerKey = binding.KeyOf(handlerType)
	dbKey      = binding.KeyOf(dbType)
	mapKey     = binding.KeyOf(binding.Type("collections", "Map").Parameterized(pathEnum, handlerType))
	setKey     = binding.KeyOf(binding.Type("collections", "Set").Parameterized(handlerType))
)

// stubOracle answers visibility from a deny-list and assignability
// from an edge set; erasure drops type arguments.
type stubOracle struct {
	hidden map[string]bool            // erased type -> invisible outside its pkg
	assign map[[2]string]bool         // src -> dst
}

func (o *stubOracle) IsAssignable(src, dst binding.TypeRef) bool {
	if o == nil || o.assign == nil {
		return false
	}
	return o.assign[[2]string{src.String(), dst.String()}]
}

func (o *stubOracle) IsVisibleFrom(t binding.TypeRef, pkg string) bool {
	if o == nil {
		return true
	}
	if t.Pkg != "" && t.Pkg != pkg && o.hidden[t.Erased().String()] {
		return false
	}
	for _, a := range t.Args {
		if !o.IsVisibleFrom(a, pkg) {
			return false
		}
	}
	return true
}

func (o *stubOracle) Erase(t binding.TypeRef) binding.TypeRef { return t.Erased() }

func uniqueDecl(site string, key binding.Key, deps ...binding.Key) binding.Declaration {
	return binding.Declaration{
		Site:        binding.Site{Name: site, Pkg: "web"},
		Kind:        binding.Unique,
		Key:         key,
		Contributed: key.Type,
		Deps:        deps,
	}
}

func mapEntryDecl(site, annotation, value string, deps ...binding.Key) binding.Declaration {
	return binding.Declaration{
		Site:        binding.Site{Name: site, Pkg: "web"},
		Kind:        binding.MapEntry,
		Key:         mapKey,
		Contributed: handlerType,
		Deps:        deps,
		MapKey: &binding.MapKey{
			Annotation: annotation,
			Unwrap:     true,
			KeyType:    pathEnum,
			Members:    []binding.MapKeyMember{{Name: "value", Value: value}},
		},
	}
}

func setElementDecl(site string) binding.Declaration {
	return binding.Declaration{
		Site:        binding.Site{Name: site, Pkg: "web"},
		Kind:        binding.SetElement,
		Key:         setKey,
		Contributed: handlerType,
	}
}

func instanceReq(key binding.Key) binding.Request {
	return binding.Request{Key: key, Kind: binding.Instance, Pkg: "app"}
}

func TestBuild_SingleUniqueContribution(t *testing.T) {
	t.Parallel()

	decls := []binding.Declaration{uniqueDecl("Module.provideHandler", handlerKey)}

	rb, diags := graph.Build(decls, []binding.Request{instanceReq(handlerKey)}, graph.Config{}, nil)
	require.False(t, diags.HasErrors())
	require.NotNil(t, rb)
	require.Equal(t, 1, rb.Len())

	b, ok := rb.Get(handlerKey)
	require.True(t, ok)
	cb, ok := b.(*graph.ContributionBinding)
	require.True(t, ok)
	assert.Equal(t, "Module.provideHandler", cb.Site().Name)
	assert.Equal(t, handlerType, cb.Contributed())
}

func TestBuild_DuplicateUniqueContributions(t *testing.T) {
	t.Parallel()

	decls := []binding.Declaration{
		uniqueDecl("ModuleA.provideHandler", handlerKey),
		uniqueDecl("ModuleB.provideHandler", handlerKey),
	}

	rb, diags := graph.Build(decls, []binding.Request{instanceReq(handlerKey)}, graph.Config{}, nil)
	assert.Nil(t, rb)
	require.Len(t, diags, 1)

	var dup graph.DuplicateBindingError
	require.True(t, errors.As(diags[0], &dup))
	assert.True(t, dup.Key.Equal(handlerKey))
	require.Len(t, dup.Sites, 2)
	assert.Equal(t, "ModuleA.provideHandler", dup.Sites[0].Name)
	assert.Equal(t, "ModuleB.provideHandler", dup.Sites[1].Name)
	assert.Contains(t, dup.Error(), "is bound multiple times")
}

func TestBuild_UniqueCollidingWithMultibinding(t *testing.T) {
	t.Parallel()

	// A unique contribution and a map entry for the same key cannot
	// coexist.
	unique := uniqueDecl("Module.provideMap", mapKey)
	entry := mapEntryDecl("Module.provideAdmin", "PathKey", "ADMIN")

	rb, diags := graph.Build(
		[]binding.Declaration{unique, entry},
		[]binding.Request{instanceReq(mapKey)},
		graph.Config{}, nil,
	)
	assert.Nil(t, rb)
	require.Len(t, diags, 1)

	var dup graph.DuplicateBindingError
	require.True(t, errors.As(diags[0], &dup))
	assert.Len(t, dup.Sites, 2)
}

func TestBuild_MapAggregationPreservesDeclarationOrder(t *testing.T) {
	t.Parallel()

	// LOGIN sorts before ADMIN alphabetically; declaration order must
	// win regardless.
	decls := []binding.Declaration{
		mapEntryDecl("HandlerModule.provideAdminHandler", "PathKey", "ADMIN"),
		mapEntryDecl("HandlerModule.provideLoginHandler", "PathKey", "LOGIN"),
	}

	rb, diags := graph.Build(decls, []binding.Request{instanceReq(mapKey)}, graph.Config{}, nil)
	require.False(t, diags.HasErrors())

	b, ok := rb.Get(mapKey)
	require.True(t, ok)
	agg, ok := b.(*graph.AggregatedBinding)
	require.True(t, ok)

	assert.Equal(t, graph.MapAggregate, agg.Kind())
	assert.Equal(t, "PathKey", agg.MapKeyAnnotation())
	assert.False(t, agg.InstanceOnly())

	entries := agg.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "ADMIN", entries[0].MapKey.Value())
	assert.Equal(t, "LOGIN", entries[1].MapKey.Value())
	assert.Equal(t, "HandlerModule.provideAdminHandler", entries[0].Contribution.Site.Name)
	assert.Equal(t, "HandlerModule.provideLoginHandler", entries[1].Contribution.Site.Name)
}

func TestBuild_DuplicateMapKey_OneErrorPerCollisionGroup(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		decls     []binding.Declaration
		wantSites int
	}{
		{
			name: "two colliding sites",
			decls: []binding.Declaration{
				mapEntryDecl("ModuleA.provideA", "PathKey", "AKey"),
				mapEntryDecl("ModuleB.provideB", "PathKey", "AKey"),
			},
			wantSites: 2,
		},
		{
			name: "three colliding sites still one error",
			decls: []binding.Declaration{
				mapEntryDecl("ModuleA.provideA", "PathKey", "AKey"),
				mapEntryDecl("ModuleB.provideB", "PathKey", "AKey"),
				mapEntryDecl("ModuleC.provideC", "PathKey", "AKey"),
			},
			wantSites: 3,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rb, diags := graph.Build(tc.decls, []binding.Request{instanceReq(mapKey)}, graph.Config{}, nil)
			assert.Nil(t, rb)
			require.Len(t, diags, 1)

			var dup graph.DuplicateMapKeyError
			require.True(t, errors.As(diags[0], &dup))
			assert.Equal(t, "AKey", dup.EntryKey)
			assert.Len(t, dup.Sites, tc.wantSites)
			assert.Contains(t, dup.Error(), "the same map key is bound more than once")
		})
	}
}

func TestBuild_InconsistentMapKeyAnnotation(t *testing.T) {
	t.Parallel()

	decls := []binding.Declaration{
		mapEntryDecl("ModuleA.provideAdmin", "PathKey", "ADMIN"),
		mapEntryDecl("ModuleB.provideLogin", "NameKey", "LOGIN"),
	}

	rb, diags := graph.Build(decls, []binding.Request{instanceReq(mapKey)}, graph.Config{}, nil)
	assert.Nil(t, rb)
	require.Len(t, diags, 1)

	var inc graph.InconsistentMapKeyAnnotationError
	require.True(t, errors.As(diags[0], &inc))
	assert.Equal(t, []string{"PathKey", "NameKey"}, inc.Annotations)
	assert.Len(t, inc.Sites, 2)
	assert.Contains(t, inc.Error(), "uses more than one map-key annotation type")
}

func TestBuild_SetAggregationKeepsDuplicates(t *testing.T) {
	t.Parallel()

	// Set contributions are unioned with no value-level dedup; equal
	// elements keep their multiplicity.
	decls := []binding.Declaration{
		setElementDecl("ModuleA.provideHandler"),
		setElementDecl("ModuleB.provideHandler"),
		setElementDecl("ModuleA.provideHandlerAgain"),
	}

	rb, diags := graph.Build(decls, []binding.Request{instanceReq(setKey)}, graph.Config{}, nil)
	require.False(t, diags.HasErrors())

	b, ok := rb.Get(setKey)
	require.True(t, ok)
	agg := b.(*graph.AggregatedBinding)
	assert.Equal(t, graph.SetAggregate, agg.Kind())
	assert.Len(t, agg.Entries(), 3)
	for _, e := range agg.Entries() {
		assert.Nil(t, e.MapKey)
	}
}

func TestBuild_UnsatisfiedDependencyChain(t *testing.T) {
	t.Parallel()

	authKey := binding.KeyOf(binding.Type("web", "Auth"))
	decls := []binding.Declaration{
		uniqueDecl("Module.provideHandler", handlerKey, dbKey),
		uniqueDecl("Module.provideDB", dbKey, authKey),
	}

	rb, diags := graph.Build(decls, []binding.Request{instanceReq(handlerKey)}, graph.Config{}, nil)
	assert.Nil(t, rb)
	require.Len(t, diags, 1)

	var unsat graph.UnsatisfiedDependencyError
	require.True(t, errors.As(diags[0], &unsat))
	assert.True(t, unsat.Key.Equal(authKey))
	require.Len(t, unsat.Chain, 3)
	assert.True(t, unsat.Chain[0].Equal(handlerKey))
	assert.True(t, unsat.Chain[1].Equal(dbKey))
	assert.True(t, unsat.Chain[2].Equal(authKey))
	assert.Contains(t, unsat.Error(), "cannot be provided without a binding")
}

func TestBuild_UndeclaredAggregatedKeyIsUnsatisfied(t *testing.T) {
	t.Parallel()

	// Zero contributions never form an aggregated binding: the key is
	// simply absent and any requester sees UnsatisfiedDependency.
	rb, diags := graph.Build(nil, []binding.Request{instanceReq(mapKey)}, graph.Config{}, nil)
	assert.Nil(t, rb)
	require.Len(t, diags, 1)

	var unsat graph.UnsatisfiedDependencyError
	require.True(t, errors.As(diags[0], &unsat))
	assert.True(t, unsat.Key.Equal(mapKey))
	require.Len(t, unsat.Chain, 1)
}

func TestBuild_InvalidKeyNotAlsoUnsatisfied(t *testing.T) {
	t.Parallel()

	// A key that failed uniqueness is declared: requesters must not
	// pile an UnsatisfiedDependency on top of the DuplicateBinding.
	decls := []binding.Declaration{
		uniqueDecl("ModuleA.provideHandler", handlerKey),
		uniqueDecl("ModuleB.provideHandler", handlerKey),
		uniqueDecl("Module.provideServer", binding.KeyOf(binding.Type("web", "Server")), handlerKey),
	}
	requests := []binding.Request{
		instanceReq(binding.KeyOf(binding.Type("web", "Server"))),
		instanceReq(handlerKey),
	}

	_, diags := graph.Build(decls, requests, graph.Config{}, nil)
	require.Len(t, diags, 1)

	var dup graph.DuplicateBindingError
	assert.True(t, errors.As(diags[0], &dup))
}

func TestBuild_MultipleIndependentProblemsReportedTogether(t *testing.T) {
	t.Parallel()

	decls := []binding.Declaration{
		uniqueDecl("ModuleA.provideHandler", handlerKey),
		uniqueDecl("ModuleB.provideHandler", handlerKey),
		mapEntryDecl("ModuleC.provideA", "PathKey", "AKey"),
		mapEntryDecl("ModuleD.provideA", "PathKey", "AKey"),
	}
	requests := []binding.Request{
		instanceReq(handlerKey),
		instanceReq(mapKey),
		instanceReq(dbKey), // never declared
	}

	_, diags := graph.Build(decls, requests, graph.Config{}, nil)
	require.Len(t, diags, 3)

	var dup graph.DuplicateBindingError
	var dupMap graph.DuplicateMapKeyError
	var unsat graph.UnsatisfiedDependencyError
	assert.True(t, errors.As(diags[0], &dup))
	assert.True(t, errors.As(diags[1], &dupMap))
	assert.True(t, errors.As(diags[2], &unsat))
}

func TestBuild_InaccessibleEntryKeyDowngradesNotErrors(t *testing.T) {
	t.Parallel()

	oracle := &stubOracle{hidden: map[string]bool{"web.PathEnum": true}}
	decls := []binding.Declaration{
		mapEntryDecl("HandlerModule.provideAdminHandler", "PathKey", "ADMIN"),
		mapEntryDecl("HandlerModule.provideLoginHandler", "PathKey", "LOGIN"),
	}
	cfg := graph.Config{GeneratedPkg: "app/component"}

	rb, diags := graph.Build(decls, []binding.Request{instanceReq(mapKey)}, cfg, oracle)
	require.False(t, diags.HasErrors())

	b, _ := rb.Get(mapKey)
	agg := b.(*graph.AggregatedBinding)
	assert.True(t, agg.InstanceOnly())
	// The contribution is still in.
	assert.Len(t, agg.Entries(), 2)
}

func TestBuild_ToleratesCycles(t *testing.T) {
	t.Parallel()

	// a -> b -> a; no cycle detection here, resolution terminates.
	aKey := binding.KeyOf(binding.Type("web", "A"))
	bKey := binding.KeyOf(binding.Type("web", "B"))
	decls := []binding.Declaration{
		uniqueDecl("Module.provideA", aKey, bKey),
		uniqueDecl("Module.provideB", bKey, aKey),
	}

	rb, diags := graph.Build(decls, []binding.Request{instanceReq(aKey)}, graph.Config{}, nil)
	require.False(t, diags.HasErrors())
	assert.Equal(t, 2, rb.Len())
}

func TestDiagnostics_ErrorJoinsAll(t *testing.T) {
	t.Parallel()

	d := graph.Diagnostics{
		graph.DuplicateBindingError{Key: handlerKey, Sites: []binding.Site{{Name: "A"}, {Name: "B"}}},
		graph.UnsatisfiedDependencyError{Key: dbKey, Chain: []binding.Key{dbKey}},
	}
	msg := d.Error()
	assert.Contains(t, msg, "web.Handler is bound multiple times (sites: A, B)")
	assert.Contains(t, msg, "web.DB cannot be provided without a binding")
}
