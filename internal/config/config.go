package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type SupabaseConfig struct {
	// URL is the Postgres connection string of the hosted database.
	URL string `yaml:"url"`
	// Key is the API key handed to the hosted identity endpoints.
	Key string `yaml:"key"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type MQConfig struct {
	// URL is optional; without it lifecycle events are not published.
	URL string `yaml:"url"`
}

type Config struct {
	Supabase SupabaseConfig `yaml:"supabase"`
	Server   ServerConfig   `yaml:"server"`
	MQ       MQConfig       `yaml:"mq"`
}

// Load reads config.yaml when present and applies environment overrides on
// top. Running purely from the environment is supported.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	cfg := &Config{}
	cfg.Server.Port = "3000"

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	overrideFromEnv(cfg)

	if cfg.Supabase.URL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is not configured")
	}
	return cfg, nil
}

// overrideFromEnv 从环境变量覆盖配置
func overrideFromEnv(cfg *Config) {
	if url := os.Getenv("SUPABASE_URL"); url != "" {
		cfg.Supabase.URL = url
	}
	if key := os.Getenv("SUPABASE_KEY"); key != "" {
		cfg.Supabase.Key = key
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.MQ.URL = url
	}
}
