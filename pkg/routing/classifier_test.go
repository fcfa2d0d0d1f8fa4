package routing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyPath(t *testing.T) {
	c := NewClassifier(DefaultRules())

	cases := []struct {
		path string
		want RouteClass
	}{
		{"/api/v1/calendar/events", RouteClassPublicAPI},
		{"/api/v1", RouteClassPublicAPI},
		{"/api/v1beta/events", RouteClassUnknown},
		{"/health", RouteClassOps},
		{"/metrics", RouteClassOps},
		{"/static/app.css", RouteClassStatic},
		{"/", RouteClassUnknown},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, c.ClassifyPath(tc.path), "path %s", tc.path)
	}
}

func TestClassifierLongestPrefixWins(t *testing.T) {
	c := NewClassifier([]AllowlistRule{
		{Prefix: "/api/v1", Class: RouteClassPublicAPI},
		{Prefix: "/api/v1/internal", Class: RouteClassOps},
	})

	require.Equal(t, RouteClassOps, c.ClassifyPath("/api/v1/internal/dump"))
	require.Equal(t, RouteClassPublicAPI, c.ClassifyPath("/api/v1/calendar/events"))
}

func TestHasPathPrefixOnBoundary(t *testing.T) {
	require.True(t, HasPathPrefixOnBoundary("/health", "/health"))
	require.True(t, HasPathPrefixOnBoundary("/health/live", "/health"))
	require.False(t, HasPathPrefixOnBoundary("/healthz", "/health"))
	require.False(t, HasPathPrefixOnBoundary("/metrics", ""))
}

func TestLoadAllowlist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "allowlist.yaml")
	content := `
version: 1
rules:
  - prefix: /exports
    class: static
  - prefix: /api/v1/admin
    class: ops
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rules, err := LoadAllowlist(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	require.Equal(t, RouteClassStatic, rules[0].Class)

	_, err = LoadAllowlist(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, ErrAllowlistNotFound)
}

func TestLoadAllowlistRejectsBadRules(t *testing.T) {
	dir := t.TempDir()

	for name, content := range map[string]string{
		"bad-version.yaml": "version: 2\nrules: []\n",
		"bad-prefix.yaml":  "version: 1\nrules:\n  - prefix: api\n    class: ops\n",
		"bad-class.yaml":   "version: 1\nrules:\n  - prefix: /x\n    class: websocket\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		_, err := LoadAllowlist(path)
		require.Error(t, err, name)
	}
}
