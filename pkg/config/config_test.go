package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Set test environment variables
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("AUTH_MODE", "SESSION")
	t.Setenv("REQUIRE_CURRENT_PASSWORD", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.NotNil(t, cfg)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "testuser", cfg.DBUser)
	assert.Equal(t, "testpass", cfg.DBPassword)
	assert.Equal(t, "testdb", cfg.DBName)
	assert.Equal(t, "cache.internal", cfg.RedisHost)
	assert.Equal(t, "6380", cfg.RedisPort)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, AuthModeSession, cfg.AuthMode)
	assert.True(t, cfg.RequireCurrentPassword)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "DB_HOST", "DB_PORT", "AUTH_MODE", "STORAGE_DRIVER", "MAX_PAGE_SIZE", "JWT_TTL"} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, AuthModeToken, cfg.AuthMode)
	assert.Equal(t, StorageLocal, cfg.StorageDriver)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
}

func TestLoadConfig_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("MAX_PAGE_SIZE", "lots")
	t.Setenv("JWT_TTL", "forever")
	t.Setenv("DB_AUTO_MIGRATE", "maybe")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.DBAutoMigrate)
}

func TestValidate(t *testing.T) {
	cfg := &Config{AuthMode: AuthModeToken, JWTSecret: defaultJWTSecret, StorageDriver: StorageLocal, MaxPageSize: 10}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "real-secret"
	assert.NoError(t, cfg.Validate())

	cfg.AuthMode = AuthModeSession
	cfg.JWTSecret = ""
	assert.NoError(t, cfg.Validate())

	cfg.AuthMode = "cookie-jar"
	assert.Error(t, cfg.Validate())

	cfg.AuthMode = AuthModeSession
	cfg.StorageDriver = "ftp"
	assert.Error(t, cfg.Validate())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "h", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "1", DBSSLMode: "disable"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=1 sslmode=disable", cfg.PostgresDSN())
}
