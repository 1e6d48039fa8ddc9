// Package config loads the application configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
)

type Server struct {
	Addr string `env:"SERVER_ADDR" envDefault:":3000"`
	// BaseURL is the externally reachable origin embedded in emailed links.
	BaseURL string `env:"SERVER_BASE_URL" envDefault:"http://localhost:3000"`
}

type Database struct {
	DSN string `env:"DATABASE_DSN" envDefault:"storefront.db"`
}

type JWT struct {
	Secret string        `env:"JWT_SECRET,required"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"storefront"`
}

type SMTP struct {
	// Host left empty disables outgoing mail; links are logged instead.
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM" envDefault:"no-reply@storefront.local"`
}

type Config struct {
	Server   Server
	Database Database
	JWT      JWT
	SMTP     SMTP
}

// New reads the configuration from the process environment.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse environment configuration")
	}
	return cfg, nil
}

// MailEnabled reports whether an SMTP relay is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTP.Host != ""
}
