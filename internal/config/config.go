package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sethvargo/go-envconfig"
)

const devJWTSecret = "dev-secret-change-in-production"

var ErrProductionSecret = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port      string        `env:"PORT, default=4000"`
	Env       string        `env:"ENV, default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	LogPretty bool          `env:"LOG_PRETTY, default=false"`
	JWTSecret string        `env:"JWT_SECRET, default=dev-secret-change-in-production"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY, default=1h"`

	// AdminCode grants the admin role at registration. Empty disables it.
	AdminCode string `env:"ADMIN_SECRET"`

	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`

	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Enable only behind a reverse proxy that overwrites those headers.
	TrustProxy bool `env:"TRUST_PROXY, default=false"`

	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS, default=5"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST, default=10"`

	DB DBConfig
}

type DBConfig struct {
	Host         string `env:"DB_HOST, default=127.0.0.1:3306"`
	User         string `env:"DB_USER, default=root"`
	Password     string `env:"DB_PASS"`
	Name         string `env:"DB_NAME, default=eventmate_db"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS, default=10"`
	Migrate      bool   `env:"DB_MIGRATE, default=true"`
}

// DSN builds a go-sql-driver DSN. ClientFoundRows makes UPDATE report matched
// rows, so an update that changes nothing is not mistaken for a missing row.
func (c DBConfig) DSN() string {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = c.Host
	mc.User = c.User
	mc.Passwd = c.Password
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.ClientFoundRows = true
	return mc.FormatDSN()
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from the given lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.Env == "production" && cfg.JWTSecret == devJWTSecret {
		return nil, ErrProductionSecret
	}

	return &cfg, nil
}
