package config

import (
	"fmt"
	"strconv"

	"github.com/spf13/viper"
)

// parseEnv overlays environment variables onto config. Unset variables
// leave the current value in place.
func parseEnv(config *Config) error {
	v := viper.New()
	v.AutomaticEnv()

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	list := func(key string, dst *[]string) {
		if v.IsSet(key) {
			*dst = splitList(v.GetString(key))
		}
	}
	num := func(key string, dst *int) error {
		if !v.IsSet(key) {
			return nil
		}
		n, err := strconv.Atoi(v.GetString(key))
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = n
		return nil
	}
	boolean := func(key string, dst *bool) error {
		if !v.IsSet(key) {
			return nil
		}
		b, err := strconv.ParseBool(v.GetString(key))
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("DATABASE_URL", &config.DatabaseDSN)
	str("JWT_SECRET", &config.SecretKey)
	list("SESSION_COOKIE_NAMES", &config.SessionCookieNames)
	str("COOKIE_SAMESITE", &config.CookieSameSite)
	list("CORS_ALLOWED_ORIGINS", &config.CORSAllowedOrigins)
	str("LOG_LEVEL", &config.LogLevel)
	str("LOG_FORMAT", &config.LogFormat)
	str("MIGRATIONS_DIR", &config.MigrationsDir)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("APP_ENV", &config.Env)

	for _, err := range []error{
		num("DB_MAX_OPEN_CONNS", &config.DBMaxOpenConns),
		num("DB_MAX_IDLE_CONNS", &config.DBMaxIdleConns),
		num("BCRYPT_COST", &config.BcryptCost),
		boolean("COOKIE_SECURE", &config.CookieSecure),
		boolean("S3_USE_PATH_STYLE", &config.S3UsePathStyle),
	} {
		if err != nil {
			return err
		}
	}

	if v.IsSet("SESSION_TTL") {
		if err := setDuration(&config.SessionTTL, v.GetString("SESSION_TTL")); err != nil {
			return fmt.Errorf("config: SESSION_TTL: %w", err)
		}
	}
	if v.IsSet("SHUTDOWN_TIMEOUT") {
		if err := setDuration(&config.ShutdownTimeout, v.GetString("SHUTDOWN_TIMEOUT")); err != nil {
			return fmt.Errorf("config: SHUTDOWN_TIMEOUT: %w", err)
		}
	}

	return nil
}
