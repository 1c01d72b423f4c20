// Package appconfig loads server configuration from the environment,
// mirroring apps/server/src/config.rs field-for-field. An optional .env
// file (joho/godotenv) overlays the process environment before reading,
// and an optional YAML file (CONFIG_FILE) overlays individual fields on
// top of that for deployments that prefer a checked-in config file over
// a flat env list.
package appconfig

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the server's runtime configuration, loaded once at startup.
type Config struct {
	Port               int      `yaml:"port"`
	CacheDir           string   `yaml:"cache_dir"`
	MaxFileSizeMB      int      `yaml:"max_file_size_mb"`
	RequestTimeoutSecs int      `yaml:"request_timeout_secs"`
	WorkerThreads      int      `yaml:"worker_threads"`
	InitialBatchSize   int      `yaml:"initial_batch_size"`
	MaxBatchSize       int      `yaml:"max_batch_size"`
	BatchSize          int      `yaml:"batch_size"`
	CacheMaxAgeDays    int      `yaml:"cache_max_age_days"`
	CORSOrigins        []string `yaml:"cors_origins"`
}

const defaultCORSOrigins = "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173"

// FromEnv loads configuration from the process environment, after first
// merging in a .env file if present (missing .env is not an error — it's
// a dev convenience, never required). If CONFIG_FILE names a YAML file,
// its fields overlay the env-derived defaults.
func FromEnv() (*Config, error) {
	_ = godotenv.Load() // no .env file present is fine

	cfg := &Config{
		Port:               envInt("PORT", 8080),
		CacheDir:           envOrDefaultCacheDir(),
		MaxFileSizeMB:      envInt("MAX_FILE_SIZE_MB", 500),
		RequestTimeoutSecs: envInt("REQUEST_TIMEOUT_SECS", 300),
		WorkerThreads:      envInt("WORKER_THREADS", runtime.NumCPU()),
		InitialBatchSize:   envInt("INITIAL_BATCH_SIZE", 100),
		MaxBatchSize:       envInt("MAX_BATCH_SIZE", 1000),
		BatchSize:          envInt("BATCH_SIZE", 200),
		CacheMaxAgeDays:    envInt("CACHE_MAX_AGE_DAYS", 7),
		CORSOrigins:        splitCSV(envString("CORS_ORIGINS", defaultCORSOrigins)),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := overlayYAML(cfg, path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func overlayYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func envOrDefaultCacheDir() string {
	if v := os.Getenv("CACHE_DIR"); v != "" {
		return v
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return "/app/cache"
	}
	if dir, err := os.Getwd(); err == nil {
		return filepath.Join(dir, ".cache")
	}
	return "./.cache"
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
