package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir resets viper and runs the test from an empty directory so no
// stray .spmtorc file is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	inTempDir(t)

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "", config.Catalog)
	assert.Equal(t, "console", config.Format)
	assert.False(t, config.Quiet)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "console", config.Log.Format)
	assert.Equal(t, 10, config.Log.MaxSizeMB)
	assert.True(t, config.Log.Compress)
	assert.False(t, config.Cache.Enabled)
	assert.Equal(t, 24*time.Hour, config.Cache.TTL)
	assert.Equal(t, "spmto:result:", config.Cache.Prefix)
	assert.Equal(t, "", config.Store.DSN)
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := inTempDir(t)
	content := `format: markdown
catalog: /srv/instruments
log:
  level: debug
  format: json
cache:
  enabled: true
  addr: redis:6379
  ttl: 15m
store:
  dsn: postgres://spmto@db/spmto?sslmode=disable
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".spmtorc.yaml"), []byte(content), 0644))

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "markdown", config.Format)
	assert.Equal(t, "/srv/instruments", config.Catalog)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.True(t, config.Cache.Enabled)
	assert.Equal(t, "redis:6379", config.Cache.Addr)
	assert.Equal(t, 15*time.Minute, config.Cache.TTL)
	assert.Equal(t, "postgres://spmto@db/spmto?sslmode=disable", config.Store.DSN)
}

func TestLoadConfigFromJSON(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".spmtorc.json"),
		[]byte(`{"format": "json", "quiet": true}`), 0644))

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "json", config.Format)
	assert.True(t, config.Quiet)
}

func TestLoadConfigCatalogOverride(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".spmtorc.yml"), []byte("catalog: /from/file\n"), 0644))

	config, err := LoadConfig("/from/flag")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", config.Catalog)
}

func TestLoadConfigEnvironmentVariables(t *testing.T) {
	inTempDir(t)
	t.Setenv("SPMTO_FORMAT", "json")
	t.Setenv("SPMTO_CACHE_ADDR", "cache:6380")
	t.Setenv("SPMTO_LOG_LEVEL", "warn")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "cache:6380", config.Cache.Addr)
	assert.Equal(t, "warn", config.Log.Level)
}

func TestLoadConfigValidationError(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".spmtorc.yaml"), []byte("format: html\n"), 0644))

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format: html")
}

func validConfig() Config {
	return Config{
		Format: "console",
		Log:    LogConfig{Level: "info", Format: "console"},
		Cache:  CacheConfig{Addr: "localhost:6379", TTL: time.Hour},
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"json to stdout", func(c *Config) { c.Format = "json" }, ""},
		{"markdown to stdout", func(c *Config) { c.Format = "markdown" }, ""},
		{"xlsx with output", func(c *Config) { c.Format = "xlsx"; c.Output = "r.xlsx" }, ""},
		{"xlsx without output", func(c *Config) { c.Format = "xlsx" }, "output file is required"},
		{"unknown format", func(c *Config) { c.Format = "pdf" }, "invalid format"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "invalid log level"},
		{"log format", func(c *Config) { c.Log.Format = "logfmt" }, "invalid log format"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "ttl must not be negative"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, ""},
		{"cache without addr", func(c *Config) { c.Cache.Enabled = true; c.Cache.Addr = "" }, "cache address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := validateConfig(&c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	c := validConfig()
	c.Store.DSN = "postgres://secret"
	c.Cache.Password = "hunter2"

	require.NoError(t, SaveConfig(&c, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "hunter2")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "console", decoded["Format"])
}

func TestSaveConfigInvalidPath(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	err := SaveConfig(&Config{}, filepath.Join(file, "sub", "config.json"))
	assert.Error(t, err)
}
