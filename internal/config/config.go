package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
)

// Env представляет окружение приложения
type Env string

const (
	// EnvLocal - локальное окружение (для разработки на хосте)
	EnvLocal Env = "local"
	// EnvDocker - Docker окружение (для запуска в контейнерах)
	EnvDocker Env = "docker"
)

// Config содержит конфигурацию Product Catalog Service
// Значения парсятся из переменных окружения через caarlos0/env,
// дефолты, зависящие от APP_ENV, доставляет applyEnvDefaults
type Config struct {
	AppEnv   Env    `env:"APP_ENV" envDefault:"local"`
	HTTPAddr string `env:"HTTP_ADDR"`

	// LogFormat пустой - формат выберет platform/logging по окружению
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT"`

	// CatalogPath - необязательный путь к JSON-файлу каталога
	// Пустое значение означает встроенный каталог из пяти товаров
	CatalogPath string `env:"CATALOG_PATH"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	// Имитация задержки хранилища; оба нуля - задержка выключена
	SimulatedDelayMin time.Duration `env:"SIMULATED_DELAY_MIN" envDefault:"0s"`
	SimulatedDelayMax time.Duration `env:"SIMULATED_DELAY_MAX" envDefault:"0s"`

	// OpenTelemetry
	OTelEnabled       bool    `env:"OTEL_ENABLED"`
	OTelEndpoint      string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelSamplingRatio float64 `env:"OTEL_SAMPLING_RATIO" envDefault:"1.0"`

	// ServiceVersion попадает в resource-атрибут service.version
	ServiceVersion string `env:"SERVICE_VERSION"`
}

// Load загружает конфигурацию из переменных окружения
// Читает APP_ENV и устанавливает дефолты в зависимости от окружения
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.AppEnv != EnvLocal && cfg.AppEnv != EnvDocker {
		return Config{}, fmt.Errorf("invalid APP_ENV: %s (must be 'local' or 'docker')", cfg.AppEnv)
	}

	cfg.applyEnvDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// applyEnvDefaults заполняет значения, дефолт которых зависит от APP_ENV
func (c *Config) applyEnvDefaults() {
	if c.HTTPAddr == "" {
		if c.AppEnv == EnvLocal {
			c.HTTPAddr = "127.0.0.1:7000"
		} else {
			c.HTTPAddr = "0.0.0.0:7000"
		}
	}

	if c.OTelEndpoint == "" {
		if c.AppEnv == EnvLocal {
			c.OTelEndpoint = "127.0.0.1:4317"
		} else {
			c.OTelEndpoint = "otel-collector:4317"
		}
	}
}

// Validate проверяет корректность конфигурации
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.SimulatedDelayMin < 0 || c.SimulatedDelayMax < 0 {
		return fmt.Errorf("SIMULATED_DELAY_MIN and SIMULATED_DELAY_MAX must be non-negative")
	}
	if c.SimulatedDelayMax < c.SimulatedDelayMin {
		return fmt.Errorf("SIMULATED_DELAY_MAX must be >= SIMULATED_DELAY_MIN")
	}
	if c.OTelEnabled && (c.OTelSamplingRatio < 0 || c.OTelSamplingRatio > 1) {
		return fmt.Errorf("OTEL_SAMPLING_RATIO must be in [0, 1]")
	}
	return nil
}

// Log выводит конфигурацию в лог
func (c Config) Log() {
	log.Printf("Config loaded:")
	log.Printf("  APP_ENV: %s", c.AppEnv)
	log.Printf("  HTTP_ADDR: %s", c.HTTPAddr)
	log.Printf("  LOG_LEVEL: %s", c.LogLevel)
	log.Printf("  LOG_FORMAT: %s", c.LogFormat)
	log.Printf("  CATALOG_PATH: %s", c.CatalogPath)
	log.Printf("  SHUTDOWN_TIMEOUT: %s", c.ShutdownTimeout)
	log.Printf("  SIMULATED_DELAY_MIN: %s", c.SimulatedDelayMin)
	log.Printf("  SIMULATED_DELAY_MAX: %s", c.SimulatedDelayMax)
	log.Printf("  OTEL_ENABLED: %v", c.OTelEnabled)
	log.Printf("  OTEL_EXPORTER_OTLP_ENDPOINT: %s", c.OTelEndpoint)
	log.Printf("  OTEL_SAMPLING_RATIO: %f", c.OTelSamplingRatio)
	log.Printf("  SERVICE_VERSION: %s", c.ServiceVersion)
}
