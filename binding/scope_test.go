package binding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalbuddha/dagger/binding"
)

func TestClassifyScope(t *testing.T) {
	t.Parallel()

	cfg := binding.ScopeConfig{
		Releasable: []string{"RequestReleasable", "SessionReleasable"},
		Reusable:   "Reusable",
	}

	cases := []struct {
		name  string
		scope string
		want  binding.ScopeKind
	}{
		{name: "empty scope is unscoped", scope: "", want: binding.Unscoped},
		{name: "releasable set member", scope: "RequestReleasable", want: binding.Releasable},
		{name: "second releasable member", scope: "SessionReleasable", want: binding.Releasable},
		{name: "designated reusable scope", scope: "Reusable", want: binding.SingleCheck},
		{name: "any other named scope", scope: "Singleton", want: binding.DoubleCheck},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, binding.ClassifyScope(tc.scope, cfg))
		})
	}
}

func TestClassifyScope_EmptyConfig(t *testing.T) {
	t.Parallel()

	// Without a reusable scope configured, every named scope is
	// double-check.
	assert.Equal(t, binding.DoubleCheck, binding.ClassifyScope("Singleton", binding.ScopeConfig{}))
	assert.Equal(t, binding.Unscoped, binding.ClassifyScope("", binding.ScopeConfig{}))
}

func TestScopeKind_SimilarOrWeaker(t *testing.T) {
	t.Parallel()

	order := []binding.ScopeKind{
		binding.Unscoped,
		binding.Releasable,
		binding.SingleCheck,
		binding.DoubleCheck,
	}

	// The full 4x4 matrix: weaker-or-equal iff position is not later.
	for i, a := range order {
		for j, b := range order {
			want := i <= j
			assert.Equalf(t, want, a.SimilarOrWeaker(b), "%s vs %s", a, b)
		}
	}
}

func TestScopeKind_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "unscoped", binding.Unscoped.String())
	require.Equal(t, "releasable", binding.Releasable.String())
	require.Equal(t, "single-check", binding.SingleCheck.String())
	require.Equal(t, "double-check", binding.DoubleCheck.String())
}
