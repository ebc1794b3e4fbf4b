package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "config.yaml"

type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"readTimeout"`
		WriteTimeout time.Duration `yaml:"writeTimeout"`
		IdleTimeout  time.Duration `yaml:"idleTimeout"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
		Migrate  bool   `yaml:"migrate"`
	} `yaml:"database"`

	// Minio kosong = arsip laporan dimatikan
	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	GitHub struct {
		Token   string        `yaml:"token"`
		BaseURL string        `yaml:"baseURL"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"github"`

	AI struct {
		Provider    string  `yaml:"provider"` // gemini | openai | ollama
		APIKey      string  `yaml:"apiKey"`
		Model       string  `yaml:"model"`
		Host        string  `yaml:"host"` // base URL override / ollama host
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"maxTokens"`
	} `yaml:"ai"`

	Analysis struct {
		BatchSize    int `yaml:"batchSize"`
		MaxAttempts  int `yaml:"maxAttempts"`
		ContentLimit int `yaml:"contentLimit"`
	} `yaml:"analysis"`

	Auth struct {
		APIKeys   map[string]string `yaml:"apiKeys"` // owner -> key
		JWTSecret string            `yaml:"jwtSecret"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity   int     `yaml:"capacity"`
		RefillRate float64 `yaml:"refillRate"` // tokens per second
	} `yaml:"rateLimit"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

// Path returns CONFIG_PATH or the default file name.
func Path() string {
	if p := strings.TrimSpace(os.Getenv("CONFIG_PATH")); p != "" {
		return p
	}
	return DefaultPath
}

// Load baca file config.yaml, lalu env override dan default
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML bytes and applies env overrides and defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	override(&c.GitHub.Token, "GITHUB_TOKEN")
	override(&c.AI.APIKey, "AI_API_KEY")
	override(&c.Auth.JWTSecret, "JWT_SECRET")
	override(&c.Database.Password, "DB_PASSWORD")
	override(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	// pipeline berjalan sinkron di dalam request
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Minute
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		if c.Database.Driver == "postgres" {
			c.Database.Port = 5432
		} else {
			c.Database.Port = 3306
		}
	}

	if c.Minio.BucketName == "" {
		c.Minio.BucketName = "repo-insight"
	}
	if c.Minio.Region == "" {
		c.Minio.Region = "us-east-1"
	}

	if c.GitHub.Timeout == 0 {
		c.GitHub.Timeout = 30 * time.Second
	}

	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.AI.Temperature == 0 {
		c.AI.Temperature = 0.2
	}
	if c.AI.MaxTokens == 0 {
		c.AI.MaxTokens = 2048
	}

	if c.Analysis.BatchSize <= 0 {
		c.Analysis.BatchSize = 10
	}
	if c.Analysis.MaxAttempts <= 0 {
		c.Analysis.MaxAttempts = 3
	}
	if c.Analysis.ContentLimit <= 0 {
		c.Analysis.ContentLimit = 3000
	}

	if c.RateLimit.Capacity <= 0 {
		c.RateLimit.Capacity = 10
	}
	if c.RateLimit.RefillRate <= 0 {
		c.RateLimit.RefillRate = 0.2
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver: unsupported %q", c.Database.Driver))
	}
	switch c.AI.Provider {
	case "gemini", "openai":
		if c.AI.APIKey == "" {
			errs = append(errs, fmt.Errorf("ai.apiKey: required for provider %s", c.AI.Provider))
		}
	case "ollama":
		if c.AI.Model == "" {
			errs = append(errs, errors.New("ai.model: required for provider ollama"))
		}
	default:
		errs = append(errs, fmt.Errorf("ai.provider: unsupported %q", c.AI.Provider))
	}
	return errors.Join(errs...)
}

// ArchiveEnabled reports whether report archiving is configured.
func (c *Config) ArchiveEnabled() bool { return strings.TrimSpace(c.Minio.Endpoint) != "" }
