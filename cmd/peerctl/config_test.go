package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, "peerctl.db", cfg.Replica.Path)
	d, err := cfg.timeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	_, err = cfg.userID()
	assert.Error(t, err)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peerctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
base_url = "http://api.internal:9000"
timeout = "3s"

[user]
id = "00000000-0000-0000-0000-000000000001"

[replica]
path = "/tmp/a.db"
`), 0o600))

	t.Setenv("PEERMATCH_SERVER_BASE_URL", "http://override:8080")
	t.Setenv("PEERMATCH_REPLICA_SESSION", "shared")

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://override:8080", cfg.Server.BaseURL)
	assert.Equal(t, "/tmp/a.db", cfg.Replica.Path)
	assert.Equal(t, "shared", cfg.Replica.Session)

	id, err := cfg.userID()
	require.NoError(t, err)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", id.String())

	d, err := cfg.timeout()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, d)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	t.Setenv("PEERMATCH_SERVER_TIMEOUT", "soon")
	cfg, err := loadConfig("")
	require.NoError(t, err)
	_, err = cfg.timeout()
	assert.Error(t, err)
}

func TestInitConfig_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peerctl.toml")
	require.NoError(t, initConfig(path))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)

	assert.Error(t, initConfig(path))
}
