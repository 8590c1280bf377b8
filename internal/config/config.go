package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	API        APIConfig        `yaml:"api"`
	PDF        PDFConfig        `yaml:"pdf"`
	QR         QRConfig         `yaml:"qr"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	HeaderExtra  string         `yaml:"header_extra"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Extra       string   `yaml:"extra"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// PDFConfig drives the headless browser renderer.
type PDFConfig struct {
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	BrowserBin     string  `yaml:"browser_bin"`
	NoSandbox      bool    `yaml:"no_sandbox"`
	MarginTop      float64 `yaml:"margin_top"`    // pixels
	MarginBottom   float64 `yaml:"margin_bottom"` // pixels
	MarginLeft     float64 `yaml:"margin_left"`   // pixels
	MarginRight    float64 `yaml:"margin_right"`  // pixels
}

type QRConfig struct {
	BaseURL string `yaml:"base_url"`
	Size    string `yaml:"size"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment may already be populated
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.PDF.TimeoutSeconds < 0 {
		return errors.New("pdf timeout cannot be negative")
	}

	switch c.QR.Size {
	case "", "small", "medium", "large":
	default:
		return fmt.Errorf("unknown qr size %q", c.QR.Size)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if !c.API.HTTP.Enabled && c.API.Enabled {
		c.API.HTTP.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.Auth.HeaderExtra == "" {
		c.API.Auth.HeaderExtra = "x-api-extra"
	}

	// PDF defaults: the checklist layout assumes these margins
	if c.PDF.TimeoutSeconds == 0 {
		c.PDF.TimeoutSeconds = 30
	}
	if c.PDF.MarginTop == 0 {
		c.PDF.MarginTop = 80
	}
	if c.PDF.MarginBottom == 0 {
		c.PDF.MarginBottom = 30
	}
	if c.PDF.MarginLeft == 0 {
		c.PDF.MarginLeft = 20
	}
	if c.PDF.MarginRight == 0 {
		c.PDF.MarginRight = 20
	}

	if c.QR.Size == "" {
		c.QR.Size = "small"
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
