package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port            string        `yaml:"port"`
	APIKey          string        `yaml:"api_key"`
	BaseURL         string        `yaml:"base_url"`
	Model           string        `yaml:"model"`
	Temperature     float64       `yaml:"temperature"`
	MaxTokens       int           `yaml:"max_tokens"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
	CompletionTTL   time.Duration `yaml:"completion_ttl"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	Debug           bool          `yaml:"debug"`
}

func defaultConfig() *Config {
	return &Config{
		Port:           "8080",
		BaseURL:        "https://api.deepseek.com/v1",
		Model:          "deepseek-chat",
		Temperature:    0.7,
		MaxTokens:      8000,
		AllowedOrigins: []string{"*"},
	}
}

// LoadConfig reads .env, then the optional YAML file named by
// FITPLAN_CONFIG, then environment variables. Later sources win.
func LoadConfig() (*Config, error) {
	godotenv.Load()

	cfg := defaultConfig()
	if path := os.Getenv("FITPLAN_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("PORT", &c.Port)
	setString("DEEPSEEK_API_KEY", &c.APIKey)
	setString("DEEPSEEK_BASE_URL", &c.BaseURL)
	setString("DEEPSEEK_MODEL", &c.Model)

	if v := os.Getenv("TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TEMPERATURE: %w", err)
		}
		c.Temperature = t
	}
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_TOKENS: %w", err)
		}
		c.MaxTokens = n
	}
	for key, dst := range map[string]*time.Duration{
		"UPSTREAM_TIMEOUT": &c.UpstreamTimeout,
		"COMPLETION_TTL":   &c.CompletionTTL,
	} {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, origin)
			}
		}
	}
	if v := os.Getenv("DEBUG"); v == "1" || strings.EqualFold(v, "true") {
		c.Debug = true
	}
	return nil
}
