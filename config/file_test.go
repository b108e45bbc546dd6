package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes content to ~/.ntuapi/config.yaml under a fresh HOME.
func writeConfig(t *testing.T, content string) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	dir := filepath.Join(tmpDir, ".ntuapi")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
}

func TestLoadConfigFile_NoFile(t *testing.T) {
	// Point HOME at a directory that definitely has no config file
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	assert.Nil(t, cfg, "Should return nil when config file doesn't exist")
}

func TestLoadConfigFile_ValidConfig(t *testing.T) {
	writeConfig(t, `storage:
  dsn: "/var/lib/ntuapi/ntuapi.db"
portal:
  timeout: 45s
  requests_per_second: 0.5
  endpoints:
    vacancy: "http://localhost:9000/vacancy"
scrape:
  concurrency: 4
  recent_years: 3
  schedules:
    exams: ""
api:
  addr: ":9090"
log:
  level: debug
`)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/var/lib/ntuapi/ntuapi.db", cfg.Storage.DSN)
	assert.Equal(t, 45*time.Second, cfg.Portal.Timeout)
	assert.Equal(t, 0.5, cfg.Portal.RequestsPerSecond)
	assert.Equal(t, "http://localhost:9000/vacancy", cfg.Portal.Endpoints.Vacancy)
	assert.Equal(t, 4, cfg.Scrape.Concurrency)
	assert.Equal(t, 3, cfg.Scrape.RecentYears)
	assert.Equal(t, "", cfg.Scrape.Schedules["exams"], "exams job should be disabled")
	assert.Equal(t, ":9090", cfg.API.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFile_PartialConfig(t *testing.T) {
	writeConfig(t, `scrape:
  schedules:
    content: "0 1 * * *"
`)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	defaults := Default()
	assert.Equal(t, "0 1 * * *", cfg.Scrape.Schedules["content"])
	assert.Equal(t, defaults.Scrape.Schedules["schedule"], cfg.Scrape.Schedules["schedule"],
		"unspecified schedules should keep their defaults")
	assert.Equal(t, defaults.Storage.DSN, cfg.Storage.DSN)
	assert.Equal(t, defaults.Portal.Endpoints.ContentIndex, cfg.Portal.Endpoints.ContentIndex)
	assert.Equal(t, defaults.Scrape.Concurrency, cfg.Scrape.Concurrency)
}

func TestLoadConfigFile_InvalidYAML(t *testing.T) {
	writeConfig(t, `storage:
  - this is invalid yaml because storage should be an object not a list
`)

	cfg, err := LoadConfigFile()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestWriteDefaultFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	path, err := Path()
	require.NoError(t, err)
	require.NoError(t, WriteDefaultFile(path))

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, Default(), cfg, "written defaults should load back unchanged")

	err = WriteDefaultFile(path)
	assert.ErrorIs(t, err, ErrConfigExists)
}
