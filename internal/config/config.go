package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Fiscal FiscalConfig
	Log    LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT verification settings for the capability boundary.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// FiscalConfig holds the statutory constants and engine policy knobs.
// This replaces the legacy practice of smuggling sequence metadata
// through free-text business settings: every field is typed.
type FiscalConfig struct {
	ITBISRate          float64       `mapstructure:"itbis_rate"`
	IssuerRNC          string        `mapstructure:"issuer_rnc"`
	IssuerName         string        `mapstructure:"issuer_name"`
	AnonymousTaxID     string        `mapstructure:"anonymous_tax_id"`
	RegistryStaleAfter time.Duration `mapstructure:"registry_stale_after"`
	AllocateRetries    int           `mapstructure:"allocate_retries"`
	ExhaustionWarnAt   int64         `mapstructure:"exhaustion_warn_at"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the COLMADO_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COLMADO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "colmado")
	v.SetDefault("db.password", "colmado_secret")
	v.SetDefault("db.name", "colmado_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "colmado")

	// Fiscal defaults. The ITBIS rate is the general 18% rate; reduced
	// rates are out of scope for line-level taxation here.
	v.SetDefault("fiscal.itbis_rate", 0.18)
	v.SetDefault("fiscal.issuer_rnc", "")
	v.SetDefault("fiscal.issuer_name", "")
	v.SetDefault("fiscal.anonymous_tax_id", "00000000000")
	v.SetDefault("fiscal.registry_stale_after", "720h")
	v.SetDefault("fiscal.allocate_retries", 3)
	v.SetDefault("fiscal.exhaustion_warn_at", 100)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "COLMADO_SERVER_PORT",
		"server.read_timeout":         "COLMADO_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "COLMADO_SERVER_WRITE_TIMEOUT",
		"server.environment":          "COLMADO_SERVER_ENVIRONMENT",
		"db.host":                     "COLMADO_DB_HOST",
		"db.port":                     "COLMADO_DB_PORT",
		"db.user":                     "COLMADO_DB_USER",
		"db.password":                 "COLMADO_DB_PASSWORD",
		"db.name":                     "COLMADO_DB_NAME",
		"db.sslmode":                  "COLMADO_DB_SSLMODE",
		"db.max_open":                 "COLMADO_DB_MAX_OPEN",
		"db.max_idle":                 "COLMADO_DB_MAX_IDLE",
		"jwt.secret":                  "COLMADO_JWT_SECRET",
		"jwt.issuer":                  "COLMADO_JWT_ISSUER",
		"fiscal.itbis_rate":           "COLMADO_FISCAL_ITBIS_RATE",
		"fiscal.issuer_rnc":           "COLMADO_FISCAL_ISSUER_RNC",
		"fiscal.issuer_name":          "COLMADO_FISCAL_ISSUER_NAME",
		"fiscal.anonymous_tax_id":     "COLMADO_FISCAL_ANONYMOUS_TAX_ID",
		"fiscal.registry_stale_after": "COLMADO_FISCAL_REGISTRY_STALE_AFTER",
		"fiscal.allocate_retries":     "COLMADO_FISCAL_ALLOCATE_RETRIES",
		"fiscal.exhaustion_warn_at":   "COLMADO_FISCAL_EXHAUSTION_WARN_AT",
		"log.level":                   "COLMADO_LOG_LEVEL",
		"log.format":                  "COLMADO_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.Server = ServerConfig{
		Port:         v.GetString("server.port"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.Fiscal = FiscalConfig{
		ITBISRate:          v.GetFloat64("fiscal.itbis_rate"),
		IssuerRNC:          v.GetString("fiscal.issuer_rnc"),
		IssuerName:         v.GetString("fiscal.issuer_name"),
		AnonymousTaxID:     v.GetString("fiscal.anonymous_tax_id"),
		RegistryStaleAfter: v.GetDuration("fiscal.registry_stale_after"),
		AllocateRetries:    v.GetInt("fiscal.allocate_retries"),
		ExhaustionWarnAt:   v.GetInt64("fiscal.exhaustion_warn_at"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
