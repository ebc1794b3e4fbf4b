package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
server:
  port: 9090
database:
  driver: postgres
  host: db
  user: app
  name: insight
minio:
  endpoint: minio:9000
  bucketName: reports
ai:
  provider: openai
  apiKey: from-file
  model: gpt-4o-mini
auth:
  apiKeys:
    alice: key-a
log:
  level: debug
`

func TestParse_DefaultsAndValues(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "reports", cfg.Minio.BucketName)
	assert.Equal(t, "us-east-1", cfg.Minio.Region)
	assert.True(t, cfg.ArchiveEnabled())
	assert.Equal(t, 10, cfg.Analysis.BatchSize)
	assert.Equal(t, 3, cfg.Analysis.MaxAttempts)
	assert.Equal(t, 3000, cfg.Analysis.ContentLimit)
	assert.Equal(t, "key-a", cfg.Auth.APIKeys["alice"])
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParse_EnvOverrides(t *testing.T) {
	t.Setenv("AI_API_KEY", "from-env")
	t.Setenv("GITHUB_TOKEN", "ghp_env")
	t.Setenv("JWT_SECRET", "jwt-env")
	t.Setenv("DB_PASSWORD", "db-env")
	t.Setenv("MINIO_SECRET_KEY", "minio-env")

	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AI.APIKey)
	assert.Equal(t, "ghp_env", cfg.GitHub.Token)
	assert.Equal(t, "jwt-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "db-env", cfg.Database.Password)
	assert.Equal(t, "minio-env", cfg.Minio.SecretKey)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "server: [\n"},
		{"bad driver", "database:\n  driver: sqlite\nai:\n  apiKey: k\n"},
		{"bad provider", "ai:\n  provider: claude\n  apiKey: k\n"},
		{"missing key", "ai:\n  provider: gemini\n"},
		{"ollama without model", "ai:\n  provider: ollama\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AI_API_KEY", "")
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadAndPath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(sample), 0o600))

	t.Setenv("CONFIG_PATH", p)
	assert.Equal(t, p, Path())

	cfg, err := Load(Path())
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.AI.Provider)

	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, DefaultPath, Path())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
