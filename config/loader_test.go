package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoaderLayers(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvConfigPath, "")

	project := t.TempDir()
	nested := filepath.Join(project, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), "terms:\n  max_length: 500\nview:\n  language: de\n")
	writeFile(t, filepath.Join(project, ProjectConfigFile), "view:\n  language: fr\n")

	loader := NewLoader(nil)
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Terms.MaxLength, "user layer survives a project file that does not set it")
	assert.Equal(t, "fr", cfg.View.Language, "project layer wins")
	assert.Equal(t, BackendNATS, cfg.Storage.Backend)

	resolved, err := filepath.EvalSymlinks(loader.ProjectConfigPath())
	require.NoError(t, err)
	expected, err := filepath.EvalSymlinks(filepath.Join(project, ProjectConfigFile))
	require.NoError(t, err)
	assert.Equal(t, expected, resolved)

	require.Len(t, loader.Sources(), 2)
	assert.Equal(t, filepath.Join(home, UserConfigDir, UserConfigFile), loader.Sources()[0])
	assert.Equal(t, loader.ProjectConfigPath(), loader.WatchPath())
}

func TestLoaderEnvLayer(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, ProjectConfigFile), "view:\n  language: fr\n")

	env := filepath.Join(t.TempDir(), "override.yaml")
	writeFile(t, env, "view:\n  language: ar\n")
	t.Setenv(EnvConfigPath, env)

	loader := NewLoader(nil)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "ar", cfg.View.Language)
	assert.Equal(t, env, loader.WatchPath())

	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = NewLoader(nil).Load()
	assert.Error(t, err)
}

func TestLoaderDefaultsWithoutFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvConfigPath, "")
	t.Chdir(t.TempDir())

	loader := NewLoader(nil)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Empty(t, loader.Sources())
	assert.Empty(t, loader.WatchPath())
}

func TestLoaderRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvConfigPath, "")
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, ProjectConfigFile), "storage:\n  backend: postgres\n")

	_, err := NewLoader(nil).Load()
	assert.Error(t, err)
}

func TestLoadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "semlex.yaml")
	writeFile(t, path, "export:\n  format: ntriples\n")

	loader := NewLoader(nil)
	cfg, err := loader.LoadPath(path)
	require.NoError(t, err)
	assert.Equal(t, "ntriples", cfg.Export.Format)
	assert.Equal(t, path, loader.WatchPath())

	writeFile(t, path, "export:\n  format: xml\n")
	_, err = NewLoader(nil).LoadPath(path)
	assert.Error(t, err)
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	loader := NewLoader(nil)
	path, err := loader.EnsureUserConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, UserConfigDir, UserConfigFile), path)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	// An existing file is left alone.
	writeFile(t, path, "view:\n  language: de\n")
	_, err = loader.EnsureUserConfig()
	require.NoError(t, err)
	cfg, err = LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.View.Language)
}
