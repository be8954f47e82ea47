package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is read once at startup from the environment.
type Config struct {
	Env             string        `env:"APP_ENV" envDefault:"production"`
	Port            int           `env:"PORT" envDefault:"5000"`
	DatabaseURL     string        `env:"DATABASE_URL" envDefault:"sqlite:///posts.db"`
	EventsChannel   string        `env:"EVENTS_CHANNEL" envDefault:"posts.events"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	Redis           RedisConfig   `envPrefix:"REDIS_"`

	// DotEnvLoaded reports whether a .env file was found.
	DotEnvLoaded bool
}

type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

func (c *Config) Development() bool {
	return c.Env == EnvDevelopment
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	loaded := godotenv.Load() == nil

	conf, err := Parse(nil)
	if err != nil {
		return nil, err
	}
	conf.DotEnvLoaded = loaded
	return conf, nil
}

// Parse builds a Config from environ, or from the process environment when
// environ is nil.
func Parse(environ map[string]string) (*Config, error) {
	conf := &Config{}
	if err := env.ParseWithOptions(conf, env.Options{Environment: environ}); err != nil {
		return nil, errors.Wrap(err, "could not parse configuration")
	}
	if conf.Port <= 0 || conf.Port > 65535 {
		return nil, errors.Errorf("invalid port %d", conf.Port)
	}
	return conf, nil
}
