package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "STORAGE_BACKEND", "RECORDS_FILE_PATH", "STORAGE_KEY",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "MONGODB_URI", "MONGODB_DB_NAME",
		"REPORT_CRON_SCHEDULE", "SNAPSHOT_CRON_SCHEDULE", "TIMEZONE", "EXPORT_DIR",
		"NOTIFY_WEBHOOK_URL", "NOTIFY_TOKEN", "GOOGLE_SHEETS_CREDENTIALS_PATH",
		"GOOGLE_SHEET_DATABASE_ID", "GOOGLE_SHEET_RANGE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "vessel_sounding_records", cfg.Storage.Key)
	assert.Equal(t, "sounding_records.json", filepath.Base(cfg.Storage.FilePath))
	assert.Equal(t, "0 20 * * 5", cfg.Reporting.CronSchedule)
	assert.Equal(t, "UTC", cfg.Reporting.Timezone)
	assert.False(t, cfg.Sheets.Enabled())
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	for _, key := range []string{"APP_PORT", "STORAGE_BACKEND", "REDIS_ADDR", "REDIS_DB", "TIMEZONE"} {
		require.NoError(t, os.Unsetenv(key))
	}

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nSTORAGE_BACKEND=browser-local\nREDIS_ADDR=localhost:6379\nREDIS_DB=2\nTIMEZONE=Asia/Colombo\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	t.Cleanup(func() {
		for _, key := range []string{"APP_PORT", "STORAGE_BACKEND", "REDIS_ADDR", "REDIS_DB", "TIMEZONE"} {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, BackendBrowserLocal, cfg.Storage.Backend)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)

	loc, err := cfg.Reporting.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Colombo", loc.String())
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_DB", "two")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Server:    ServerConfig{Port: "8080"},
			Storage:   StorageConfig{Backend: BackendFile, FilePath: "/tmp/records.json", Key: "k"},
			Reporting: ReportingConfig{CronSchedule: "0 20 * * 5", Timezone: "UTC"},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "sqlite" }},
		{name: "file without path", mutate: func(c *Config) { c.Storage.FilePath = "" }},
		{name: "browser-local without redis", mutate: func(c *Config) { c.Storage.Backend = BackendBrowserLocal }},
		{name: "mongodb without uri", mutate: func(c *Config) { c.Storage.Backend = BackendMongoDB }},
		{name: "empty key", mutate: func(c *Config) { c.Storage.Key = "" }},
		{name: "bad timezone", mutate: func(c *Config) { c.Reporting.Timezone = "Mars/Olympus" }},
		{name: "half sheets config", mutate: func(c *Config) { c.Sheets.SpreadsheetID = "sheet" }},
	}

	ok := base()
	require.NoError(t, ok.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
