package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.True(t, c.Transpile.WithTypes)
	assert.False(t, c.Transpile.Canonical)
	assert.Equal(t, "info", c.LSP.LogLevel)
	assert.True(t, c.LSP.FormatWithTypes)
	assert.NoError(t, c.Validate())
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	c := Default()
	c.Transpile.Canonical = true
	c.LSP.LogFile = "/tmp/luau-lsp.log"
	c.LSP.LogLevel = "debug"
	require.NoError(t, c.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[transpile]")
	assert.Contains(t, string(data), "with_types = true")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
	assert.Equal(t, zapcore.DebugLevel, loaded.LogLevel())
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "[transpile]\ncanonical = true\n")

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.Transpile.Canonical)
	assert.True(t, c.Transpile.WithTypes)
	assert.Equal(t, "info", c.LSP.LogLevel)
}

func TestLoadRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.toml")
	writeFile(t, unknown, "[transpile]\nindent = 4\n")
	_, err := Load(unknown)
	assert.Error(t, err)

	level := filepath.Join(dir, "level.toml")
	writeFile(t, level, "[lsp]\nlog_level = \"loud\"\n")
	_, err = Load(level)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lsp.log_level")

	syntax := filepath.Join(dir, "syntax.toml")
	writeFile(t, syntax, "[transpile\n")
	_, err = Load(syntax)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, FileName)
	writeFile(t, path, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	want, err := filepath.Abs(path)
	require.NoError(t, err)

	assert.Equal(t, want, Find(nested))

	file := filepath.Join(nested, "main.luau")
	writeFile(t, file, "return nil")
	assert.Equal(t, want, Find(file))

	assert.Empty(t, Find(filepath.Join(root, "does-not-exist")))
}

func TestResolve(t *testing.T) {
	root := t.TempDir()

	c, path, err := Resolve("", root)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), c)

	explicit := filepath.Join(root, "custom.toml")
	writeFile(t, explicit, "[transpile]\nwith_types = false\n")
	c, path, err = Resolve(explicit, root)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)
	assert.False(t, c.Transpile.WithTypes)

	_, _, err = Resolve(filepath.Join(root, "missing.toml"), root)
	assert.Error(t, err)
}
