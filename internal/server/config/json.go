package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/kitchenkeeper/internal/flagx"
)

// JsonConfig is the on-disk form of Config. Durations are strings such as
// "168h". Zero values leave the current setting untouched.
type JsonConfig struct {
	HTTPAddr           string   `json:"http_addr"`
	DatabaseDSN        string   `json:"database_dsn"`
	DBMaxOpenConns     int      `json:"db_max_open_conns"`
	DBMaxIdleConns     int      `json:"db_max_idle_conns"`
	ShutdownTimeout    string   `json:"shutdown_timeout"`
	SecretKey          string   `json:"secret_key"`
	SessionTTL         string   `json:"session_ttl"`
	SessionCookieNames []string `json:"session_cookie_names"`
	CookieSameSite     string   `json:"cookie_samesite"`
	CookieSecure       *bool    `json:"cookie_secure"`
	BcryptCost         int      `json:"bcrypt_cost"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins"`
	LogLevel           string   `json:"log_level"`
	LogFormat          string   `json:"log_format"`
	MigrationsDir      string   `json:"migrations_dir"`
	S3RootUser         string   `json:"s3_root_user"`
	S3RootPassword     string   `json:"s3_root_password"`
	S3Bucket           string   `json:"s3_bucket"`
	S3Region           string   `json:"s3_region"`
	S3BaseEndpoint     string   `json:"s3_base_endpoint"`
	S3UsePathStyle     *bool    `json:"s3_use_path_style"`
	Env                string   `json:"app_env"`
}

// parseJson overlays the JSON file named by -c/-config in args onto config.
// No flag means no file.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setInt(&config.DBMaxOpenConns, c.DBMaxOpenConns)
	setInt(&config.DBMaxIdleConns, c.DBMaxIdleConns)
	if err := setDuration(&config.ShutdownTimeout, c.ShutdownTimeout); err != nil {
		return fmt.Errorf("config %s: shutdown_timeout: %w", path, err)
	}
	setString(&config.SecretKey, c.SecretKey)
	if err := setDuration(&config.SessionTTL, c.SessionTTL); err != nil {
		return fmt.Errorf("config %s: session_ttl: %w", path, err)
	}
	if len(c.SessionCookieNames) > 0 {
		config.SessionCookieNames = c.SessionCookieNames
	}
	setString(&config.CookieSameSite, c.CookieSameSite)
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	setInt(&config.BcryptCost, c.BcryptCost)
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.MigrationsDir, c.MigrationsDir)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.S3UsePathStyle != nil {
		config.S3UsePathStyle = *c.S3UsePathStyle
	}
	setString(&config.Env, c.Env)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
