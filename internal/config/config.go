package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	AI        AIConfig        `yaml:"ai"`
	Minio     MinioConfig     `yaml:"minio"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
	// WriteTimeout must cover a full LLM round trip.
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
}

type AIConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
	BaseURL  string `yaml:"baseURL"`
}

type MinioConfig struct {
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"accessKey"`
	SecretKey  string `yaml:"secretKey"`
	BucketName string `yaml:"bucketName"`
	Region     string `yaml:"region"`
	UseSSL     bool   `yaml:"useSSL"`
	// PresignTTL > 0 makes published report links presigned.
	PresignTTL time.Duration `yaml:"presignTTL"`
}

// Enabled reports whether report publishing is configured.
func (m MinioConfig) Enabled() bool { return m.Endpoint != "" }

type AuthConfig struct {
	// Keys maps operator name to API key. Empty disables authentication.
	Keys map[string]string `yaml:"keys"`
}

type RateLimitConfig struct {
	Enabled    bool `yaml:"enabled"`
	Capacity   int  `yaml:"capacity"`
	RefillRate int  `yaml:"refillRate"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load baca file config.yaml. Path kosong berarti pakai default saja.
// Environment variables override the file.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolvePath picks CONFIG_PATH, else config.yaml when it exists, else "".
func ResolvePath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

func (c *Config) applyEnv() {
	if p := os.Getenv("AI_PROVIDER"); p != "" {
		c.AI.Provider = p
	}
	if c.AI.Provider == "" && os.Getenv("OPENAI_API_KEY") == "" && os.Getenv("GEMINI_API_KEY") != "" {
		c.AI.Provider = ProviderGemini
	}
	switch strings.ToLower(c.AI.Provider) {
	case ProviderGemini:
		if k := os.Getenv("GEMINI_API_KEY"); k != "" {
			c.AI.APIKey = k
		}
	default:
		if k := os.Getenv("OPENAI_API_KEY"); k != "" {
			c.AI.APIKey = k
		}
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.Minio.SecretKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 3 * time.Minute
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 2 * time.Minute
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	c.AI.Provider = strings.ToLower(c.AI.Provider)
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderOpenAI
	}
	if c.Minio.BucketName == "" {
		c.Minio.BucketName = "ai-act-reports"
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 60
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch c.AI.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("ai.provider %q must be %s or %s", c.AI.Provider, ProviderOpenAI, ProviderGemini))
	}
	if c.RateLimit.Capacity < 0 || c.RateLimit.RefillRate < 0 {
		errs = append(errs, errors.New("rateLimit values must not be negative"))
	}
	for op, key := range c.Auth.Keys {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, fmt.Errorf("auth.keys.%s is empty", op))
		}
	}
	return errors.Join(errs...)
}
