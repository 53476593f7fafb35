package config

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":3001", c.HTTPAddr)
	assert.Equal(t, DevSecretKey, c.SecretKey)
	assert.Equal(t, 7*24*time.Hour, c.SessionTTL)
	assert.Equal(t, []string{"auth_token", "token", "auth"}, c.SessionCookieNames)
	assert.Equal(t, "lax", c.CookieSameSite)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Empty(t, c.S3Bucket, "signature storage disabled by default")
	require.NoError(t, c.Validate())
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	c, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), c))
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"http_addr":            ":9000",
		"database_dsn":         "json-dsn",
		"session_ttl":          "2h",
		"session_cookie_names": []string{"sid"},
		"cookie_secure":        true,
		"s3_bucket":            "json-bucket",
	})
	t.Setenv("DATABASE_URL", "env-dsn")
	t.Setenv("SESSION_TTL", "3h")
	t.Setenv("S3_BUCKET", "env-bucket")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	c, err := LoadConfig([]string{"-config", path, "-t", "4h", "-b", "flag-bucket", "-status"})
	require.NoError(t, err)

	want := defaults()
	want.HTTPAddr = ":9000"
	want.DatabaseDSN = "env-dsn"
	want.SessionTTL = 4 * time.Hour
	want.SessionCookieNames = []string{"sid"}
	want.CookieSecure = true
	want.S3Bucket = "flag-bucket"
	want.CORSAllowedOrigins = []string{"https://a.example", "https://b.example"}

	assert.Empty(t, cmp.Diff(want, c))
}

func TestParseEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8081")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SESSION_COOKIE_NAMES", "a, b")
	t.Setenv("COOKIE_SAMESITE", "none")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("APP_ENV", "production")

	c := defaults()
	require.NoError(t, parseEnv(c))

	assert.Equal(t, ":8081", c.HTTPAddr)
	assert.Equal(t, "env-secret", c.SecretKey)
	assert.Equal(t, []string{"a", "b"}, c.SessionCookieNames)
	assert.Equal(t, "none", c.CookieSameSite)
	assert.True(t, c.CookieSecure)
	assert.Equal(t, 12, c.BcryptCost)
	assert.True(t, c.IsProduction())
}

func TestParseEnv_BadValues(t *testing.T) {
	for key, val := range map[string]string{
		"BCRYPT_COST":   "lots",
		"COOKIE_SECURE": "maybe",
		"SESSION_TTL":   "forever",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			assert.ErrorContains(t, parseEnv(defaults()), key)
		})
	}
}

func TestParseJson(t *testing.T) {
	t.Run("no flag, no changes", func(t *testing.T) {
		c := defaults()
		require.NoError(t, parseJson(c, []string{"-a", ":1"}))
		assert.Empty(t, cmp.Diff(defaults(), c))
	})

	t.Run("missing file", func(t *testing.T) {
		err := parseJson(defaults(), []string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		assert.ErrorContains(t, err, "read config")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		assert.ErrorContains(t, parseJson(defaults(), []string{"-c", bad}), "parse config")
	})

	t.Run("bad duration", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"session_ttl": "soon"})
		assert.ErrorContains(t, parseJson(defaults(), []string{"-c", path}), "session_ttl")
	})
}

func TestParseFlags(t *testing.T) {
	c := defaults()
	err := parseFlags(c, []string{
		"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "30m", "-l", "debug",
		"-m", "./migrations", "-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
		"-unrelated", "x",
	})
	require.NoError(t, err)

	want := defaults()
	want.HTTPAddr = "127.0.0.1:9090"
	want.DatabaseDSN = "db"
	want.SecretKey = "secret"
	want.SessionTTL = 30 * time.Minute
	want.LogLevel = "debug"
	want.MigrationsDir = "./migrations"
	want.S3RootUser = "user"
	want.S3RootPassword = "password"
	want.S3Bucket = "bucket"
	want.S3Region = "us-west-1"
	want.S3BaseEndpoint = "http://endpoint"
	assert.Empty(t, cmp.Diff(want, c))
}

func TestParseFlags_BadDuration(t *testing.T) {
	assert.Error(t, parseFlags(defaults(), []string{"-t", "soon"}))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults ok", mutate: func(c *Config) {}},
		{name: "empty secret", mutate: func(c *Config) { c.SecretKey = "" }, wantErr: "JWT_SECRET must be set"},
		{name: "dev secret in production", mutate: func(c *Config) { c.Env = "production" }, wantErr: "development default"},
		{name: "real secret in production", mutate: func(c *Config) { c.Env = "production"; c.SecretKey = "s3cr3t" }},
		{name: "no cookies", mutate: func(c *Config) { c.SessionCookieNames = nil }, wantErr: "SESSION_COOKIE_NAMES"},
		{name: "bad samesite", mutate: func(c *Config) { c.CookieSameSite = "sometimes" }, wantErr: "COOKIE_SAMESITE"},
		{name: "cost too low", mutate: func(c *Config) { c.BcryptCost = 3 }, wantErr: "BCRYPT_COST"},
		{name: "cost too high", mutate: func(c *Config) { c.BcryptCost = 32 }, wantErr: "BCRYPT_COST"},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: "SESSION_TTL"},
		{name: "no dsn", mutate: func(c *Config) { c.DatabaseDSN = "" }, wantErr: "DATABASE_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfig_ValidationFails(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, err := LoadConfig(nil)
	assert.ErrorContains(t, err, "development default")
}

func TestCookieAttributes(t *testing.T) {
	c := defaults()
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite())
	assert.False(t, c.SecureCookie())

	c.CookieSameSite = "Strict"
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite())

	c.CookieSameSite = "none"
	assert.Equal(t, http.SameSiteNoneMode, c.SameSite())
	assert.True(t, c.SecureCookie(), "SameSite=None forces Secure")
}
