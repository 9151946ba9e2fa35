package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("LISTEN_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "/static/uploads", cfg.UploadURLPath)
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBytes)
	assert.Equal(t, []string{"technology"}, cfg.News.Queries)
	assert.True(t, cfg.SeedMemory)
	assert.False(t, cfg.News.Enabled(), "news job needs an api key")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sitecms.yaml")
	content := []byte(`
port: "9000"
database_driver: postgres
database_url: postgres://file
smtp:
  host: smtp.file.test
  from: web@file.test
news:
  api_key: file-key
  queries: [cloud, ai]
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("NEWS_QUERIES", "robotics, , energy")
	t.Setenv("UPLOAD_URL_PATH", "media/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, "/media", cfg.UploadURLPath)
	assert.Equal(t, []string{"robotics", "energy"}, cfg.News.Queries)
	assert.Equal(t, "web@file.test", cfg.SMTP.ContactRecipient)
	assert.True(t, cfg.SMTP.Enabled())
	assert.True(t, cfg.News.Enabled())
}

func TestLoadRejectsInvalidNumbers(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SMTP_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_PORT")
}

func TestEmptyScheduleDisablesNews(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("NEWS_API_KEY", "key")
	t.Setenv("NEWS_SCHEDULE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.News.Enabled())
}

func TestUnknownGinModeFallsBackToRelease(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("GIN_MODE", "Verbose")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.GinMode)
}
