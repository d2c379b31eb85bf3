package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type configuration struct {
	Database    string            `yaml:"database" validate:"nonzero"`
	Concurrency int               `yaml:"concurrency" validate:"min=1"`
	Roots       []string          `yaml:"roots"`
	Labels      map[string]string `yaml:"labels"`
	Log         struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "base.yaml", `
database: /var/lib/mediameta/index.db
concurrency: 4
roots:
  - /music
`)

	var cfg configuration
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, "/var/lib/mediameta/index.db", cfg.Database)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, []string{"/music"}, cfg.Roots)
}

func TestLoadExtendsChain(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	writeFile(t, dir, "base.yaml", `
database: base.db
concurrency: 2
roots: [/music]
labels:
  owner: ops
log:
  level: info
`)
	writeFile(t, dir, "dev.yaml", `
extends: base.yaml
concurrency: 8
labels:
  env: dev
`)
	leaf := writeFile(t, dir, "local.yaml", `
extends: dev.yaml
roots: [/home/me/Music, /home/me/Videos]
log:
  level: debug
`)

	var cfg configuration
	require.NoError(Load(leaf, &cfg))
	require.Equal("base.db", cfg.Database)
	require.Equal(8, cfg.Concurrency)
	require.Equal([]string{"/home/me/Music", "/home/me/Videos"}, cfg.Roots)
	require.Equal(map[string]string{"owner": "ops", "env": "dev"}, cfg.Labels)
	require.Equal("debug", cfg.Log.Level)
}

func TestLoadCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "extends: b.yaml\n")
	b := writeFile(t, dir, "b.yaml", "extends: a.yaml\n")

	var cfg configuration
	err := Load(b, &cfg)
	require.True(t, errors.Is(err, ErrCycleRef), "got %v", err)
}

func TestLoadSelfReference(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "self.yaml", "extends: ./self.yaml\n")

	var cfg configuration
	require.True(t, errors.Is(Load(path, &cfg), ErrCycleRef))
}

func TestLoadMissingBase(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "leaf.yaml", "extends: nowhere.yaml\ndatabase: x\n")

	var cfg configuration
	require.Error(t, Load(path, &cfg))
}

func TestLoadValidation(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "concurrency: 0\n")

	var cfg configuration
	err := Load(path, &cfg)
	require.Error(err)

	var verr ValidationError
	require.True(errors.As(err, &verr))
	require.Error(verr.ErrForField("Database"))
	require.Error(verr.ErrForField("Concurrency"))
	require.Contains(err.Error(), "Concurrency")
}

func TestLoadFilesValidateOnce(t *testing.T) {
	dir := t.TempDir()
	// Invalid on its own, fixed by the second file.
	first := writeFile(t, dir, "first.yaml", "concurrency: 0\n")
	second := writeFile(t, dir, "second.yaml", "database: x.db\nconcurrency: 3\n")

	var cfg configuration
	require.NoError(t, LoadFiles(&cfg, first, second))
	assert.Equal(t, 3, cfg.Concurrency)
}

func TestResolveExtends(t *testing.T) {
	chain := map[string]string{
		"/etc/mediameta/leaf.yaml": "mid.yaml",
		"/etc/mediameta/mid.yaml":  "/opt/base.yaml",
		"/opt/base.yaml":           "",
	}
	got, err := resolveExtends("/etc/mediameta/leaf.yaml", func(f string) (string, error) {
		return chain[f], nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/base.yaml", "/etc/mediameta/mid.yaml", "/etc/mediameta/leaf.yaml"}, got)
}
