package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "argon2id", cfg.Security.PasswordHasher)
	assert.NotEmpty(t, cfg.JWT.Secret, "debug mode falls back to a development secret")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TASKFORGE_DATABASE_DRIVER", "sqlite")
	t.Setenv("TASKFORGE_JWT_SECRET", "from-env")
	t.Setenv("TASKFORGE_JWT_ACCESS_TOKEN_TTL", "15m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  gin_mode: release
jwt:
  secret: file-secret
  algorithm: HS512
database:
  driver: mysql
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsRelease())
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, "HS512", cfg.JWT.Algorithm)
	assert.Equal(t, "mysql", cfg.Database.Driver)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"TASKFORGE_DATABASE_DRIVER": "oracle"}},
		{"asymmetric algorithm", map[string]string{"TASKFORGE_JWT_ALGORITHM": "RS256"}},
		{"unknown hasher", map[string]string{"TASKFORGE_SECURITY_PASSWORD_HASHER": "md5"}},
		{"release without secret", map[string]string{"TASKFORGE_SERVER_GIN_MODE": "release"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
