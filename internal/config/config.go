package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bedrock   BedrockConfig   `yaml:"bedrock"`
	Paces     PacesConfig     `yaml:"paces"`
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Garmin    GarminConfig    `yaml:"garmin"`
}

type BedrockConfig struct {
	Region      string  `yaml:"region"`
	ModelID     string  `yaml:"model_id"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// PacesConfig holds the advisory pace assumptions used to estimate a duration
// for distance-only steps.
type PacesConfig struct {
	SwimSecsPerYard    float64 `yaml:"swim_secs_per_yard"`
	RunSecsPerMile     float64 `yaml:"run_secs_per_mile"`
	CyclingSecsPerMile float64 `yaml:"cycling_secs_per_mile"`
}

type ServerConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	APIKey             string `yaml:"api_key"`
	ConvertTimeoutSecs int    `yaml:"convert_timeout_secs"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type GarminConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

// Default returns the built-in configuration with environment variable
// overrides applied. Used by the one-shot CLI when no config file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg
}

// Load reads config from a YAML file, fills defaults, then applies
// environment variable overrides. Env vars use the prefix GARMIN_WORKOUT_
// and underscore-separated paths:
//
//	GARMIN_WORKOUT_BEDROCK_REGION, GARMIN_WORKOUT_BEDROCK_MODEL_ID,
//	GARMIN_WORKOUT_SERVER_HOST, GARMIN_WORKOUT_SERVER_PORT,
//	GARMIN_WORKOUT_SERVER_API_KEY, GARMIN_WORKOUT_GARMIN_BASE_URL,
//	GARMIN_WORKOUT_GARMIN_TOKEN
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bedrock.Region == "" {
		cfg.Bedrock.Region = "us-east-1"
	}
	if cfg.Bedrock.MaxTokens == 0 {
		cfg.Bedrock.MaxTokens = 4096
	}
	if cfg.Bedrock.Temperature == 0 {
		cfg.Bedrock.Temperature = 0.1
	}
	if cfg.Paces.SwimSecsPerYard == 0 {
		cfg.Paces.SwimSecsPerYard = 1.2
	}
	if cfg.Paces.RunSecsPerMile == 0 {
		cfg.Paces.RunSecsPerMile = 600
	}
	if cfg.Paces.CyclingSecsPerMile == 0 {
		cfg.Paces.CyclingSecsPerMile = 180
	}
	if cfg.Server.ConvertTimeoutSecs == 0 {
		cfg.Server.ConvertTimeoutSecs = 120
	}
	if cfg.Garmin.BaseURL == "" {
		cfg.Garmin.BaseURL = "https://connectapi.garmin.com"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GARMIN_WORKOUT_BEDROCK_REGION"); v != "" {
		cfg.Bedrock.Region = v
	}
	if v := os.Getenv("GARMIN_WORKOUT_BEDROCK_MODEL_ID"); v != "" {
		cfg.Bedrock.ModelID = v
	}
	if v := os.Getenv("GARMIN_WORKOUT_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("GARMIN_WORKOUT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GARMIN_WORKOUT_SERVER_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("GARMIN_WORKOUT_GARMIN_BASE_URL"); v != "" {
		cfg.Garmin.BaseURL = v
	}
	if v := os.Getenv("GARMIN_WORKOUT_GARMIN_TOKEN"); v != "" {
		cfg.Garmin.Token = v
	}
}

func (c *Config) validate() error {
	if c.Bedrock.Region == "" {
		return fmt.Errorf("bedrock.region is required")
	}
	if c.Paces.SwimSecsPerYard <= 0 || c.Paces.RunSecsPerMile <= 0 || c.Paces.CyclingSecsPerMile <= 0 {
		return fmt.Errorf("paces must be positive")
	}
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Server.APIKey == "" {
		return fmt.Errorf("server.api_key is required (each convert request costs a model invocation)")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
