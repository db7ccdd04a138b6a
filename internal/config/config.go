// Package config loads bot configuration from .env files, environment
// variables, and an optional YAML file. Environment variables win over
// the YAML file; .env files never override variables that are already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the bot needs at startup.
type Config struct {
	// Slack credentials.
	SlackBotToken      string `yaml:"slack_bot_token"`
	SlackAppToken      string `yaml:"slack_app_token"`
	SlackSigningSecret string `yaml:"slack_signing_secret"`
	SlackAPIBase       string `yaml:"slack_api_base"`

	// Model access.
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIModel   string `yaml:"openai_model"`

	// Storage.
	DBPath string `yaml:"db_path"`

	// HTTP listener for the events endpoint and /metrics.
	ListenAddr string `yaml:"listen_addr"`

	// Run mode: "events" (HTTP Events API) or "socket" (Socket Mode).
	Mode string `yaml:"mode"`

	// Outbound proxy policy: "", "env", a proxy URL, or socks5://host:port.
	Proxy string `yaml:"proxy"`

	// Timeout for outbound Slack Web API calls.
	SlackTimeout time.Duration `yaml:"slack_timeout"`
}

const (
	defaultListenAddr = ":3000"
	defaultDBPath     = "attendance.db"
	defaultModel      = "gpt-4o"
	defaultMode       = "events"
)

// LoadDotEnv loads .env.local then .env from the working directory. It only
// sets vars that are not already set, matching godotenv's behavior. Set
// ATTENDANCE_DOTENV=0 to disable.
func LoadDotEnv(logPrefix string) {
	if isDotEnvDisabled() {
		return
	}
	for _, p := range []string{".env.local", ".env"} {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			log.Fatalf("%s failed to load %s: %v", logPrefix, p, err)
		} else {
			log.Printf("%s loaded env from %s", logPrefix, p)
		}
	}
}

func isDotEnvDisabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ATTENDANCE_DOTENV"))) {
	case "0", "false", "off", "no":
		return true
	}
	return false
}

// Load builds the config from the optional YAML file named by
// ATTENDANCE_CONFIG, then overlays environment variables on top.
func Load() (*Config, error) {
	cfg := &Config{
		SlackAPIBase: "https://slack.com/api",
		DBPath:       defaultDBPath,
		ListenAddr:   defaultListenAddr,
		OpenAIModel:  defaultModel,
		Mode:         defaultMode,
		SlackTimeout: 15 * time.Second,
	}

	if path := strings.TrimSpace(os.Getenv("ATTENDANCE_CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	overlayEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overlayEnv(cfg *Config) {
	setIfEnv(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	setIfEnv(&cfg.SlackAppToken, "SLACK_APP_TOKEN")
	setIfEnv(&cfg.SlackSigningSecret, "SLACK_SIGNING_SECRET")
	setIfEnv(&cfg.SlackAPIBase, "SLACK_API_BASE")
	setIfEnv(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setIfEnv(&cfg.OpenAIBaseURL, "OPENAI_BASE_URL")
	setIfEnv(&cfg.OpenAIModel, "OPENAI_MODEL")
	setIfEnv(&cfg.DBPath, "ATTENDANCE_DB_PATH")
	setIfEnv(&cfg.ListenAddr, "ATTENDANCE_LISTEN_ADDR")
	setIfEnv(&cfg.Mode, "ATTENDANCE_MODE")
	setIfEnv(&cfg.Proxy, "ATTENDANCE_PROXY")

	if v := strings.TrimSpace(os.Getenv("ATTENDANCE_SLACK_TIMEOUT_SECONDS")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.SlackTimeout = time.Duration(secs) * time.Second
		}
	}
}

func setIfEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c *Config) validate() error {
	if c.SlackBotToken == "" {
		return errors.New("SLACK_BOT_TOKEN is required")
	}
	if c.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}
	switch c.Mode {
	case "events":
		if c.SlackSigningSecret == "" {
			return errors.New("SLACK_SIGNING_SECRET is required in events mode")
		}
	case "socket":
		if c.SlackAppToken == "" {
			return errors.New("SLACK_APP_TOKEN is required in socket mode")
		}
	default:
		return fmt.Errorf("unknown mode %q (want events or socket)", c.Mode)
	}
	c.SlackAPIBase = strings.TrimRight(c.SlackAPIBase, "/")
	return nil
}
