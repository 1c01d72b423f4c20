package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT", "CACHE_DIR", "MAX_FILE_SIZE_MB", "REQUEST_TIMEOUT_SECS",
		"WORKER_THREADS", "INITIAL_BATCH_SIZE", "MAX_BATCH_SIZE", "BATCH_SIZE",
		"CACHE_MAX_AGE_DAYS", "CORS_ORIGINS", "CONFIG_FILE",
	}
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 500, cfg.MaxFileSizeMB)
	require.Equal(t, 300, cfg.RequestTimeoutSecs)
	require.Equal(t, 100, cfg.InitialBatchSize)
	require.Equal(t, 1000, cfg.MaxBatchSize)
	require.Equal(t, 200, cfg.BatchSize)
	require.Equal(t, 7, cfg.CacheMaxAgeDays)
	require.Contains(t, cfg.CORSOrigins, "http://localhost:3000")
}

func TestFromEnvReadsOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("WORKER_THREADS", "4")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 4, cfg.WorkerThreads)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestFromEnvInvalidIntFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "not-a-number")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
}

func TestConfigFileOverlaysFields(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 7777\ncache_dir: /tmp/ifc-cache\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, 7777, cfg.Port)
	require.Equal(t, "/tmp/ifc-cache", cfg.CacheDir)
}
