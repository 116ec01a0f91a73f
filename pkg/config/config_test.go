package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFrom(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, filepath.Join(dir, "tasks.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "taskdeck.log"), cfg.LogFile)
	assert.Equal(t, filepath.Join(dir, "session.json"), cfg.SessionFile)
	assert.False(t, cfg.ShowComments)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	want := &Config{
		Driver:       "postgres",
		DBPath:       "/tmp/ignored.db",
		DSN:          "host=localhost user=tasks dbname=tasks sslmode=disable",
		LogFile:      "/tmp/taskdeck.log",
		ShowComments: true,
		SessionFile:  "/tmp/session.json",
	}

	require.NoError(t, SaveTo(path, want))
	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /data/work.db\n"), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/work.db", cfg.DBPath)
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Equal(t, filepath.Join(dir, "taskdeck.log"), cfg.LogFile)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /data/work.db\n"), 0600))
	t.Setenv("TASKDECK_DB_PATH", "/env/tasks.db")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/env/tasks.db", cfg.DBPath)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("driver: [unterminated\n"), 0600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}
