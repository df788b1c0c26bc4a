package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Environment string `yaml:"env"`
	LogLevel    string `yaml:"log_level"`

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`

	HTTP HTTPConfig `yaml:"http"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Environment: "development",
		DBDriver:    DriverPostgres,
		HTTP: HTTPConfig{
			Addr:            ":3001",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitRPS:    10,
			RateLimitBurst:  20,
		},
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML файл из CONFIG_FILE (если задан),
// затем переменные окружения (.env подгружается заранее).
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Environment, "ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.DBDriver, "DB_DRIVER")
	setString(&c.DBDSN, "DB_DSN")
	setString(&c.HTTP.Addr, "HTTP_ADDR")

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.HTTP.CORSOrigins = splitList(origins)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTP_READ_TIMEOUT", &c.HTTP.ReadTimeout},
		{"HTTP_WRITE_TIMEOUT", &c.HTTP.WriteTimeout},
		{"SHUTDOWN_TIMEOUT", &c.HTTP.ShutdownTimeout},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", d.key, err)
			}
			*d.dst = parsed
		}
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		c.HTTP.RateLimitRPS = rps
	}

	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		c.HTTP.RateLimitBurst = burst
	}

	return nil
}

// Validate проверяет обязательные поля и подставляет зависящие от драйвера значения
func (c *Config) Validate() error {
	if c.Environment == "" {
		c.Environment = "development"
	}

	switch c.DBDriver {
	case DriverPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required but not set")
		}
	case DriverSQLite:
		if c.DBDSN == "" {
			c.DBDSN = "file:slots.db"
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.HTTP.Addr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if c.HTTP.RateLimitRPS < 0 || c.HTTP.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}

	return nil
}

// IsProduction checks if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
