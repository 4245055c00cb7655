package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	JWTSecret       string
	TokenTTLMinutes int
}

// envConfig mirrors Config for environment parsing.
type envConfig struct {
	Port            int    `env:"PORT"`
	DatabaseURL     string `env:"DATABASE_URL"`
	DatabaseType    string `env:"DATABASE_TYPE"`
	JWTSecret       string `env:"JWT_SECRET"`
	TokenTTLMinutes int    `env:"ACCESS_TOKEN_TTL_MINUTES"`
}

// fileConfig is the optional YAML configuration file shape.
type fileConfig struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL  string `yaml:"url"`
		Type string `yaml:"type"`
	} `yaml:"database"`
	Auth struct {
		Secret          string `yaml:"secret"`
		TokenTTLMinutes int    `yaml:"tokenTtlMinutes"`
	} `yaml:"auth"`
}

// ParseFlags builds the configuration from, in order of precedence:
// CLI flags, environment variables, an optional YAML config file, defaults.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var configPath string

	fs := flag.NewFlagSet("voting-system", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&configPath, "config", "", "Path to YAML config file")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Access token signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var fromEnv envConfig
	if err := env.Parse(&fromEnv); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	var fromFile fileConfig
	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &fromFile); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Flag > env > file > default for each setting.
	if cfg.Port == 0 {
		cfg.Port = fromEnv.Port
	}
	if cfg.Port == 0 {
		cfg.Port = fromFile.Server.Port
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fromEnv.DatabaseURL
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fromFile.Database.URL
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "voting_system.db"
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = fromEnv.DatabaseType
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = fromFile.Database.Type
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = "sqlite"
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	// Secret - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = fromEnv.JWTSecret
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = fromFile.Auth.Secret
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	cfg.TokenTTLMinutes = fromEnv.TokenTTLMinutes
	if cfg.TokenTTLMinutes == 0 {
		cfg.TokenTTLMinutes = fromFile.Auth.TokenTTLMinutes
	}
	if cfg.TokenTTLMinutes == 0 {
		cfg.TokenTTLMinutes = 30
	}

	return cfg, nil
}
