package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	require.Equal(t, "RISKMESH_NODE_HOME", Name("node-home"))
	require.Equal(t, "RISKMESH_LOG_LEVEL", Name("log_level"))
}

func TestLookup(t *testing.T) {
	t.Setenv("RISKMESH_OPERATOR_ADDRESS", "  riskmesh1abc ")
	t.Setenv("RISKMESH_DENOM", "   ")

	v, ok := Lookup("operator-address")
	require.True(t, ok)
	require.Equal(t, "riskmesh1abc", v)

	_, ok = Lookup("denom")
	require.False(t, ok)
}

func TestFindAndLoad_SearchesParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("RISKMESH_TEST_FROM_FILE=yes\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("RISKMESH_TEST_FROM_FILE") })

	path := findAndLoad(nested)
	require.Equal(t, filepath.Join(root, ".env"), path)
	require.Equal(t, "yes", os.Getenv("RISKMESH_TEST_FROM_FILE"))
}

func TestFindAndLoad_NoFile(t *testing.T) {
	require.Empty(t, findAndLoad(t.TempDir()))
}
