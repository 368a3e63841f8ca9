package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "whack.config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefault_MatchesSchemaDefaults(t *testing.T) {
	opts := Default()
	assert.Equal(t, "js", opts.Target)
	assert.False(t, opts.Strict)
	assert.Equal(t, 512, opts.MaxCycles)
	assert.Equal(t, []string{"src"}, opts.SourcePath)
}

func TestLoad_EmptyDocumentIsValid(t *testing.T) {
	path := writeTempConfig(t, "")
	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "js", opts.Target)
}

func TestLoad_ValidDocumentOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
target: swf
strict: true
maxCycles: 10
defines:
  DEBUG: "true"
sourcePath:
  - src
  - generated
`)
	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "swf", opts.Target)
	assert.True(t, opts.Strict)
	assert.Equal(t, 10, opts.MaxCycles)
	assert.Equal(t, "true", opts.Defines["DEBUG"])
	assert.Equal(t, []string{"src", "generated"}, opts.SourcePath)
}

func TestLoad_RejectsUnknownTarget(t *testing.T) {
	path := writeTempConfig(t, "target: flash9\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_RejectsZeroMaxCycles(t *testing.T) {
	path := writeTempConfig(t, "maxCycles: 0\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingFileReturnsLoadError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestResolvedSourcePaths_JoinsAgainstConfigDir(t *testing.T) {
	path := writeTempConfig(t, "sourcePath: [src]\n")
	opts, err := Load(path)
	require.NoError(t, err)

	resolved := opts.ResolvedSourcePaths()
	require.Len(t, resolved, 1)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "src"), resolved[0])
}

func TestIsWarningPromoted_StrictPromotesEverything(t *testing.T) {
	opts := Default()
	opts.Strict = true
	assert.True(t, opts.IsWarningPromoted("Unused"))
}

func TestIsWarningPromoted_ExplicitListWithoutStrict(t *testing.T) {
	opts := Default()
	opts.WarningsAsErrors = []string{"UnusedImport"}
	assert.True(t, opts.IsWarningPromoted("UnusedImport"))
	assert.False(t, opts.IsWarningPromoted("Unused"))
}
