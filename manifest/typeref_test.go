package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalbuddha/dagger/binding"
	"github.com/digitalbuddha/dagger/manifest"
)

func TestParseType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want binding.TypeRef
	}{
		{
			name: "plain type",
			in:   "web.Handler",
			want: binding.Type("web", "Handler"),
		},
		{
			name: "no package",
			in:   "Handler",
			want: binding.TypeRef{Name: "Handler"},
		},
		{
			name: "dotted package path",
			in:   "net.http.Handler",
			want: binding.Type("net.http", "Handler"),
		},
		{
			name: "parameterized",
			in:   "collections.Map[web.PathEnum,web.Handler]",
			want: binding.Type("collections", "Map").Parameterized(
				binding.Type("web", "PathEnum"),
				binding.Type("web", "Handler"),
			),
		},
		{
			name: "nested arguments",
			in:   "dagger.Provider[collections.Map[web.PathEnum,web.Handler]]",
			want: binding.Type("dagger", "Provider").Parameterized(
				binding.Type("collections", "Map").Parameterized(
					binding.Type("web", "PathEnum"),
					binding.Type("web", "Handler"),
				),
			),
		},
		{
			name: "surrounding whitespace",
			in:   "  web.Handler ",
			want: binding.Type("web", "Handler"),
		},
		{
			name: "whitespace around arguments",
			in:   "collections.Map[web.PathEnum, web.Handler]",
			want: binding.Type("collections", "Map").Parameterized(
				binding.Type("web", "PathEnum"),
				binding.Type("web", "Handler"),
			),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := manifest.ParseType(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseType_RoundTripsThroughString(t *testing.T) {
	t.Parallel()

	in := "collections.Map[web.PathEnum,dagger.Provider[web.Handler]]"
	parsed, err := manifest.ParseType(in)
	require.NoError(t, err)
	assert.Equal(t, in, parsed.String())
}

func TestParseType_Malformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "whitespace only", in: "   "},
		{name: "unterminated arguments", in: "collections.Map[web.Handler"},
		{name: "unbalanced nesting", in: "a.B[c.D[e.F]"},
		{name: "empty arguments", in: "collections.Map[]"},
		{name: "trailing dot", in: "web."},
		{name: "bad argument", in: "collections.Map[web.]"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := manifest.ParseType(tc.in)
			assert.Error(t, err)
		})
	}
}
