package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env    string       `env:"ENV" env-default:"local" yaml:"env"`
	HTTP   HTTPConfig   `yaml:"http"`
	Ledger LedgerConfig `yaml:"ledger"`
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"localhost" yaml:"host"`
	Port            string        `env:"HTTP_PORT" env-default:"8080" yaml:"port"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s" yaml:"shutdown_timeout"`
}

type LedgerConfig struct {
	// SeedFile is an optional JSON fixture loaded into the in-memory
	// ledger at startup. Empty disables seeding.
	SeedFile string `env:"LEDGER_SEED_FILE" yaml:"seed_file"`
}
