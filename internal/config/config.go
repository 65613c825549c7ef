package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" validate:"omitempty,numeric"`
	} `yaml:"server"`
	Storage struct {
		Backend    string `yaml:"backend" validate:"oneof=csv memory redis postgres sqlite"`
		Dir        string `yaml:"dir"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		Source string `yaml:"source" validate:"oneof=builtin file postgres"`
		Path   string `yaml:"path" validate:"required_if=Source file"`
	} `yaml:"catalog"`
	Admin struct {
		User      string `yaml:"user"`
		Pass      string `yaml:"pass"`
		PassHash  string `yaml:"pass_hash"`
		JWTSecret string `yaml:"jwt_secret"`
		TokenTTL  string `yaml:"token_ttl"`
	} `yaml:"admin"`
	CORS struct {
		Origins []string `yaml:"origins"`
	} `yaml:"cors"`
}

const (
	DefaultAdminUser = "admin"
	DefaultAdminPass = "admin"
)

var validate = validator.New()

// LoadEnv reads a .env file into the process environment when one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
}

// Load reads YAML config from path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("config %s not found, using defaults", path)
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Default is the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Storage.Backend = "csv"
	cfg.Storage.Dir = "data"
	cfg.Storage.SQLitePath = "data/quiz.db"
	cfg.Redis.TTL = "30m"
	cfg.Catalog.Source = "builtin"
	cfg.Admin.TokenTTL = "8h"
	return cfg
}

// applyEnv fills admin credentials left empty by the file from ADMIN_USER / ADMIN_PASS, then admin/admin.
func (c *Config) applyEnv() {
	if c.Admin.User == "" {
		c.Admin.User = os.Getenv("ADMIN_USER")
	}
	if c.Admin.Pass == "" && c.Admin.PassHash == "" {
		c.Admin.Pass = os.Getenv("ADMIN_PASS")
	}
	if c.Admin.JWTSecret == "" {
		c.Admin.JWTSecret = os.Getenv("ADMIN_JWT_SECRET")
	}
	if c.Postgres.URL == "" {
		c.Postgres.URL = os.Getenv("DATABASE_URL")
	}
	if c.Admin.User == "" {
		c.Admin.User = DefaultAdminUser
	}
	if c.Admin.Pass == "" && c.Admin.PassHash == "" {
		c.Admin.Pass = DefaultAdminPass
	}
}

// Validate checks field tags and the cross-section requirements.
func (c Config) Validate() error {
	for _, section := range []any{c.Server, c.Storage, c.Catalog} {
		if err := validate.Struct(section); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	if c.Storage.Backend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("invalid config: redis.addr is required for the redis backend")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid config: redis.db must not be negative")
	}
	if (c.Storage.Backend == "postgres" || c.Catalog.Source == "postgres") && c.Postgres.URL == "" {
		return fmt.Errorf("invalid config: postgres.url is required")
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
