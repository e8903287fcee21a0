package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MinimalValid(t *testing.T) {
	path := writeTempConfig(t, `{"input_header_path": "foo.h", "target_triple": "x86_64-unknown-linux-gnu"}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "foo.h", cfg.InputHeaderPath)
	assert.Equal(t, PerPlatform, cfg.OnPlatformDivergence)
}

func TestLoad_MissingInputHeaderPathIsConfigError(t *testing.T) {
	path := writeTempConfig(t, `{"target_triple": "x86_64-unknown-linux-gnu"}`)
	_, err := Load(path)
	require.Error(t, err)
	var configErr *Error
	assert.True(t, errors.As(err, &configErr), "expected a *config.Error, got %T", err)
}

func TestLoad_InvalidOnPlatformDivergence(t *testing.T) {
	path := writeTempConfig(t, `{"input_header_path": "foo.h", "on_platform_divergence": "Nonsense"}`)
	_, err := Load(path)
	require.Error(t, err)
	var configErr *Error
	assert.True(t, errors.As(err, &configErr), "expected a *config.Error, got %T", err)
}

func TestLoad_UnreadableFileIsConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.Error(t, err)
	var configErr *Error
	assert.True(t, errors.As(err, &configErr), "expected a *config.Error, got %T", err)
}

func TestConfig_AliasMapAndIgnoredNameSet(t *testing.T) {
	cfg := &Config{
		Aliases:      []Alias{{From: "MyInt", To: "i32"}},
		IgnoredNames: []string{"Secret"},
	}
	assert.Equal(t, map[string]string{"MyInt": "i32"}, cfg.AliasMap())
	assert.Equal(t, map[string]bool{"Secret": true}, cfg.IgnoredNameSet())
}

func TestParseTriple_ThreeFields(t *testing.T) {
	tr, err := ParseTriple("aarch64-apple-darwin")
	require.NoError(t, err)
	assert.Equal(t, Triple{Arch: "aarch64", Vendor: "apple", OS: "darwin"}, tr)
	assert.Equal(t, "aarch64-apple-darwin", tr.String())
}

func TestParseTriple_FourFields(t *testing.T) {
	tr, err := ParseTriple("x86_64-unknown-linux-gnu")
	require.NoError(t, err)
	assert.Equal(t, Triple{Arch: "x86_64", Vendor: "unknown", OS: "linux", Environment: "gnu"}, tr)
}

func TestParseTriple_WrongFieldCount(t *testing.T) {
	_, err := ParseTriple("just-two")
	assert.Error(t, err)
}
