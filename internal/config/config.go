// Package config loads bot settings from an optional YAML file with
// environment variable overrides. Environment wins over file, file wins over
// defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultModel = "claude-sonnet-4-5-20250929"

// Config is the full runtime configuration.
type Config struct {
	SlackBotToken   string `yaml:"slack_bot_token"`
	SlackAppToken   string `yaml:"slack_app_token"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	Model           string `yaml:"model"`

	// AgentsRootPath holds the per-team knowledge documents (and their git
	// repository when auto-commit is on).
	AgentsRootPath string `yaml:"agents_root_path"`
	// DataDir holds the flat-file conversation and settings tables.
	DataDir string `yaml:"data_dir"`

	LogLevel string `yaml:"log_level"`
	LogPath  string `yaml:"log_path"`

	// MetricsAddr enables the /metrics endpoint when non-empty.
	MetricsAddr string `yaml:"metrics_addr"`

	GitAutoCommit bool `yaml:"git_auto_commit"`
	GitPush       bool `yaml:"git_push"`
}

func defaults() Config {
	return Config{
		Model:          DefaultModel,
		AgentsRootPath: "./agents",
		DataDir:        "./data",
		LogLevel:       "info",
		GitAutoCommit:  true,
		GitPush:        true,
	}
}

// Load builds the configuration: defaults, then the YAML file at path (when
// non-empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setBool := func(dst *bool, key string) {
		if v := os.Getenv(key); v != "" {
			if parsed, err := strconv.ParseBool(v); err == nil {
				*dst = parsed
			}
		}
	}

	setString(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	setString(&cfg.SlackAppToken, "SLACK_APP_TOKEN")
	setString(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&cfg.Model, "CLAUDE_MODEL")
	setString(&cfg.AgentsRootPath, "AGENTS_ROOT_PATH")
	setString(&cfg.DataDir, "DATA_DIR")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogPath, "LOG_PATH")
	setString(&cfg.MetricsAddr, "METRICS_ADDR")
	setBool(&cfg.GitAutoCommit, "GIT_AUTO_COMMIT")
	setBool(&cfg.GitPush, "GIT_PUSH")
}

// Validate checks the fields the bot cannot run without.
func (c Config) Validate() error {
	var missing []string
	if c.SlackBotToken == "" {
		missing = append(missing, "slack_bot_token")
	}
	if c.SlackAppToken == "" {
		missing = append(missing, "slack_app_token")
	}
	if c.AnthropicAPIKey == "" {
		missing = append(missing, "anthropic_api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}
