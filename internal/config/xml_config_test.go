package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATA_DIR", "FAULTLOG_EXPORT_PATH", "FAULTLOG_LOADER", "LOG_LEVEL", "ANDROID_ARGUMENT"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_CreatesDefault(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "FaultLogbook.exe.config")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "<FaultLogbook>"))

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "csv", cfg.Loader.Engine)
	assert.Equal(t, filepath.Join(dir, "mappings.csv"), cfg.Storage.MappingsFile)
	assert.Equal(t, filepath.Join(dir, "daily_log.csv"), cfg.Storage.DailyLogFile)
	assert.Equal(t, 2*time.Hour, cfg.IdleTimeout())
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval())
}

func TestLoadConfig_ReadsExisting(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "app.config")

	cfg := DefaultConfig()
	cfg.Server.Port = 9100
	cfg.Loader.Engine = "duckdb"
	cfg.Storage.DataDirectory = "store"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, loaded.Server.Port)
	assert.Equal(t, "duckdb", loaded.Loader.Engine)
	assert.Equal(t, filepath.Join(dir, "store"), loaded.GetDataDir())
	assert.Equal(t, filepath.Join(dir, "store", "fault_types.csv"), loaded.Storage.FaultTypesFile)
}

func TestLoadConfig_InvalidXML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.config")
	require.NoError(t, os.WriteFile(path, []byte("<FaultLogbook><Server>"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	dataDir := t.TempDir()
	t.Setenv("PORT", "9999")
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("FAULTLOG_LOADER", "duckdb")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FAULTLOG_EXPORT_PATH", "/tmp/out.xlsx")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "app.config"))
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, dataDir, cfg.GetDataDir())
	assert.Equal(t, "duckdb", cfg.Loader.Engine)
	assert.Equal(t, "debug", cfg.Advanced.LogLevel)
	assert.Equal(t, "/tmp/out.xlsx", cfg.GetExportPath())
}

func TestGetExportPath(t *testing.T) {
	clearEnv(t)
	cfg := DefaultConfig()
	cfg.Storage.DataDirectory = "/data"

	assert.Equal(t, filepath.Join("/data", "logbook_data.xlsx"), cfg.GetExportPath())

	t.Setenv("ANDROID_ARGUMENT", "1")
	assert.Equal(t, AndroidExportPath, cfg.GetExportPath())

	cfg.Storage.ExportPath = "/custom/x.xlsx"
	assert.Equal(t, "/custom/x.xlsx", cfg.GetExportPath())
}

func TestEnsureDirectories(t *testing.T) {
	clearEnv(t)
	base := t.TempDir()
	cfg := DefaultConfig()
	cfg.Storage.DataDirectory = filepath.Join(base, "a", "b")
	cfg.Storage.DailyLogFile = filepath.Join(base, "logs", "daily_log.csv")

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.Storage.DataDirectory)
	assert.DirExists(t, filepath.Join(base, "logs"))
}

func TestGetServerAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.BindAddress = "127.0.0.1"
	cfg.Server.Port = 8000
	assert.Equal(t, "127.0.0.1:8000", cfg.GetServerAddr())
}
