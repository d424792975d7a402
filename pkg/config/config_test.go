package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "/admin", cfg.BasePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Wizard.StrictJumps)
	assert.False(t, cfg.Wizard.GuardedAdvance)
	assert.Equal(t, 1500*time.Millisecond, cfg.Refunds.MockDelay)
	assert.Equal(t, "spotadmin", cfg.Activity.Channel)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "admin.yml")
	content := []byte("addr: \":9000\"\nlog_level: debug\nwizard:\n  strict_jumps: false\nrefunds:\n  endpoint: https://pay.example.com\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	t.Setenv("SPOTADMIN_LOG_LEVEL", "warn")
	t.Setenv("SPOTADMIN_REFUNDS_TIMEOUT", "3s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr, "file overrides default")
	assert.Equal(t, "warn", cfg.LogLevel, "env overrides file")
	assert.False(t, cfg.Wizard.StrictJumps)
	assert.Equal(t, "https://pay.example.com", cfg.Refunds.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Refunds.Timeout)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spotadmin.yml")
	cfg := Default()
	cfg.Addr = ":7000"
	require.NoError(t, Write(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", loaded.Addr)
	assert.Equal(t, cfg.Wizard, loaded.Wizard)
}
