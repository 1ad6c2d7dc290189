package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: sqlite
  dsn: "file::memory:"
jwt:
  access_ttl: 5m
`)
	t.Setenv("APP_CONFIG", path)
	t.Setenv("APP_JWT_ACCESS_SECRET", "a-secret")
	t.Setenv("APP_JWT_REFRESH_SECRET", "r-secret")
	t.Setenv("APP_SESSION_SECRET", "s-secret")
	t.Setenv("APP_SERVER_PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port, "env overrides file")
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL, "default kept")
	assert.Equal(t, "a-secret", cfg.JWT.AccessSecret)
	assert.Equal(t, ":9191", cfg.Addr())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.LLM.Enabled())
	assert.Empty(t, cfg.Server.TrustedProxies, "no proxy is trusted by default")
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.EqualValues(t, 40_000_000, cfg.Storage.MaxImagePixels)
}

func TestLoad_S3FromEnv(t *testing.T) {
	t.Setenv("APP_CONFIG", writeConfig(t, `
database:
  driver: sqlite
storage:
  driver: s3
  s3:
    use_ssl: false
server:
  trusted_proxies: ["10.0.0.1"]
`))
	t.Setenv("APP_JWT_ACCESS_SECRET", "a-secret")
	t.Setenv("APP_JWT_REFRESH_SECRET", "r-secret")
	t.Setenv("APP_SESSION_SECRET", "s-secret")
	t.Setenv("APP_STORAGE_S3_ENDPOINT", "minio:9000")
	t.Setenv("APP_STORAGE_S3_BUCKET", "media")
	t.Setenv("APP_STORAGE_S3_ACCESS_KEY", "ak")
	t.Setenv("APP_STORAGE_S3_SECRET_KEY", "sk")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "minio:9000", cfg.Storage.S3.Endpoint)
	assert.Equal(t, "media", cfg.Storage.S3.Bucket)
	assert.Equal(t, "ak", cfg.Storage.S3.AccessKey)
	assert.Equal(t, "sk", cfg.Storage.S3.SecretKey)
	assert.Equal(t, "us-east-1", cfg.Storage.S3.Region)
	assert.False(t, cfg.Storage.S3.UseSSL)
	assert.Equal(t, []string{"10.0.0.1"}, cfg.Server.TrustedProxies)
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("APP_CONFIG", writeConfig(t, "server:\n  port: 8080\n"))
	t.Setenv("APP_JWT_ACCESS_SECRET", "")
	t.Setenv("APP_JWT_REFRESH_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.access_secret")
}

func TestValidate(t *testing.T) {
	base := Config{
		Database: DatabaseConfig{Driver: "postgres"},
		JWT:      JWTConfig{AccessSecret: "a", RefreshSecret: "b"},
		Session:  SessionConfig{Secret: "s"},
	}
	require.NoError(t, base.Validate())

	same := base
	same.JWT.RefreshSecret = "a"
	assert.Error(t, same.Validate())

	noSession := base
	noSession.Session.Secret = ""
	assert.Error(t, noSession.Validate())

	badDriver := base
	badDriver.Database.Driver = "mysql"
	assert.ErrorContains(t, badDriver.Validate(), "mysql")

	badStorage := base
	badStorage.Storage.Driver = "ftp"
	assert.ErrorContains(t, badStorage.Validate(), "ftp")

	s3NoCreds := base
	s3NoCreds.Storage = StorageConfig{Driver: "s3", S3: S3Config{Endpoint: "minio:9000", Bucket: "media"}}
	assert.ErrorContains(t, s3NoCreds.Validate(), "access_key")

	s3 := s3NoCreds
	s3.Storage.S3.AccessKey, s3.Storage.S3.SecretKey = "ak", "sk"
	assert.NoError(t, s3.Validate())
}
