package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kinkonnect.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
database:
  path: /tmp/family.db
server:
  addr: ":9090"
tree:
  max_ancestor_generations: 5
discovery:
  fingerprint_depth: 6
  weights:
    surname: 0.2
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/family.db", cfg.Database.Path)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "X-User-ID", cfg.Server.IdentityHeader, "unset keys keep defaults")
	assert.Equal(t, 5, cfg.Tree.MaxAncestorGenerations)
	assert.Equal(t, 2, cfg.Tree.MaxDescendantGenerations)
	assert.Equal(t, 6, cfg.Discovery.FingerprintDepth)
	assert.Equal(t, 0.2, cfg.Discovery.Weights.Surname)
	assert.Equal(t, 0.5, cfg.Discovery.Weights.Ancestors)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("KINKONNECT_ADDR", "127.0.0.1:7000")
	t.Setenv("KINKONNECT_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(writeFile(t, "server:\n  addr: \":9090\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeFile(t, "log:\n  level: loud\n"))
	require.Error(t, err)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = LoadConfig(writeFile(t, "discovery:\n  chunk_size: 0\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "tree: [1, 2"))
	assert.Error(t, err)
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, validator.New().Struct(Default()))
}
