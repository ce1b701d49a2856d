package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Load config from file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")

		configContent := `
server:
  port: 9000
  host: 127.0.0.1
database:
  type: sqlite
  sqlite:
    path: /tmp/test.db
jwt:
  secret: test-secret
  expiration: 48h
  issuer: test-educert
platform:
  metadata_base_uri: https://certs.test/meta/
  reissue_after_revoke: true
logging:
  level: debug
  format: console
  output: stdout
`
		err := os.WriteFile(configPath, []byte(configContent), 0644)
		require.NoError(t, err)

		cfg, err := Load(configPath, nil)
		require.NoError(t, err)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, "sqlite", cfg.Database.Type)
		assert.Equal(t, "test-secret", cfg.JWT.Secret)
		assert.Equal(t, 48*time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, "https://certs.test/meta/", cfg.Platform.MetadataBaseURI)
		assert.True(t, cfg.Platform.ReissueAfterRevoke)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("Load with non-existent file uses defaults", func(t *testing.T) {
		t.Setenv("EDUCERT_JWT_SECRET", "env-secret")

		cfg, err := Load("/non/existent/path.yaml", nil)
		require.NoError(t, err)
		assert.Equal(t, 8000, cfg.Server.Port)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, "sqlite", cfg.Database.Type)
		assert.Equal(t, "env-secret", cfg.JWT.Secret)
		assert.False(t, cfg.Platform.ReissueAfterRevoke)
	})

	t.Run("Environment overrides file values", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")

		configContent := `
server:
  port: 9000
jwt:
  secret: file-secret
`
		err := os.WriteFile(configPath, []byte(configContent), 0644)
		require.NoError(t, err)

		t.Setenv("EDUCERT_SERVER_PORT", "9500")
		t.Setenv("EDUCERT_JWT_SECRET", "env-secret")

		cfg, err := Load(configPath, nil)
		require.NoError(t, err)
		assert.Equal(t, 9500, cfg.Server.Port)
		assert.Equal(t, "env-secret", cfg.JWT.Secret)
	})

	t.Run("Load with invalid YAML fails", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")

		configContent := `invalid: yaml: content:`
		err := os.WriteFile(configPath, []byte(configContent), 0644)
		require.NoError(t, err)

		_, err = Load(configPath, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("Load with invalid config values fails validation", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")

		configContent := `
server:
  port: 70000
jwt:
  secret: test-secret
`
		err := os.WriteFile(configPath, []byte(configContent), 0644)
		require.NoError(t, err)

		_, err = Load(configPath, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.JWT.Secret = "test-secret"
		return cfg
	}

	t.Run("Valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("Missing JWT secret fails", func(t *testing.T) {
		cfg := valid()
		cfg.JWT.Secret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("Invalid database type fails", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Type = "mysql"
		assert.Error(t, cfg.Validate())
	})

	t.Run("SQLite without path fails", func(t *testing.T) {
		cfg := valid()
		cfg.Database.SQLite.Path = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("Postgres without host fails", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Type = "postgres"
		assert.Error(t, cfg.Validate())
	})

	t.Run("TLS without cert fails", func(t *testing.T) {
		cfg := valid()
		cfg.Server.TLSEnabled = true
		assert.Error(t, cfg.Validate())
	})

	t.Run("Invalid log level fails", func(t *testing.T) {
		cfg := valid()
		cfg.Logging.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})
}

func TestGetDSN(t *testing.T) {
	t.Run("SQLite DSN is the file path", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Database.SQLite.Path = "/tmp/educert.db"
		assert.Equal(t, "/tmp/educert.db", cfg.GetDSN())
	})

	t.Run("Postgres DSN includes connection parameters", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Database.Type = "postgres"
		cfg.Database.Postgres = PostgresConfig{
			Host:     "dbhost",
			Port:     5432,
			Database: "educert",
			User:     "svc",
			Password: "secret",
			SSLMode:  "require",
		}

		dsn := cfg.GetDSN()
		assert.Contains(t, dsn, "host=dbhost")
		assert.Contains(t, dsn, "port=5432")
		assert.Contains(t, dsn, "dbname=educert")
		assert.Contains(t, dsn, "sslmode=require")
	})
}
