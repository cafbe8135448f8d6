package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"PLATELOG_CONFIG", "PORT", "TZ", "DB_DRIVER", "DB_PATH", "DB_HOST", "DB_PORT", "DB_USER",
	"DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "GOOGLE_API_KEY", "GEMINI_MODEL", "ESTIMATION_TIMEOUT",
	"CORS_ORIGINS", "MAX_UPLOAD_BYTES", "PHOTO_BUCKET", "PHOTO_REGION", "PHOTO_ENDPOINT",
}

// isolateConfigEnv runs the test in an empty directory with every config variable
// unset. Setenv first so the original values come back on cleanup.
func isolateConfigEnv(t *testing.T) string {
	t.Helper()

	for _, key := range configEnvKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, filepath.Join("data", "platelog.db"), cfg.Database.Path)
	assert.Equal(t, "gemini-2.5-flash", cfg.Estimation.Model)
	assert.Equal(t, 20*time.Second, cfg.Estimation.Timeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins())
	assert.Equal(t, 10<<20, cfg.HTTP.MaxUploadBytes)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadEnvironmentSelectsPostgres(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "meals")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "platelog")
	t.Setenv("ESTIMATION_TIMEOUT", "45s")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, http://localhost:5173")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "meals", cfg.Database.User)
	assert.Equal(t, 45*time.Second, cfg.Estimation.Timeout)
	assert.Equal(t, []string{"https://app.example.com", "http://localhost:5173"}, cfg.CORSOrigins())
}

func TestLoadLayersYAMLDotEnvAndEnvironment(t *testing.T) {
	dir := isolateConfigEnv(t)

	yamlConfig := `
port: "9000"
tz: Europe/Berlin
database:
  path: /var/lib/platelog/meals.db
estimation:
  model: gemini-2.5-pro
  timeout: 30s
photos:
  bucket: yaml-bucket
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "platelog.yaml"), []byte(yamlConfig), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GOOGLE_API_KEY=from-dotenv\nPHOTO_BUCKET=dotenv-bucket\n"), 0o600))
	t.Setenv("PORT", "9100")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "Europe/Berlin", cfg.TimeZone)
	assert.Equal(t, "/var/lib/platelog/meals.db", cfg.Database.Path)
	assert.Equal(t, "gemini-2.5-pro", cfg.Estimation.Model)
	assert.Equal(t, 30*time.Second, cfg.Estimation.Timeout)
	assert.Equal(t, "from-dotenv", cfg.Estimation.APIKey)
	assert.Equal(t, "dotenv-bucket", cfg.Photos.Bucket)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("DB_PORT", "not-a-port")
	_, err := Load("")
	require.Error(t, err)

	isolateConfigEnv(t)
	t.Setenv("ESTIMATION_TIMEOUT", "soon")
	_, err = Load("")
	require.Error(t, err)

	isolateConfigEnv(t)
	t.Setenv("DB_DRIVER", "mysql")
	_, err = Load("")
	require.Error(t, err)

	isolateConfigEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	_, err = Load("")
	require.Error(t, err)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	isolateConfigEnv(t)

	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
}
