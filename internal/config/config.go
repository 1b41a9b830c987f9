package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/reqguard/internal/agent"
	"github.com/JaimeStill/reqguard/internal/scoring"
	"github.com/JaimeStill/reqguard/pkg/database"
	"github.com/JaimeStill/reqguard/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvReqGuardEnv             = "REQGUARD_ENV"
	EnvReqGuardShutdownTimeout = "REQGUARD_SHUTDOWN_TIMEOUT"
	EnvReqGuardVersion         = "REQGUARD_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "REQGUARD_DB_HOST",
	Port:            "REQGUARD_DB_PORT",
	Name:            "REQGUARD_DB_NAME",
	User:            "REQGUARD_DB_USER",
	Password:        "REQGUARD_DB_PASSWORD",
	SSLMode:         "REQGUARD_DB_SSL_MODE",
	MaxOpenConns:    "REQGUARD_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "REQGUARD_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "REQGUARD_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "REQGUARD_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "REQGUARD_STORAGE_CONTAINER_NAME",
	ConnectionString: "REQGUARD_STORAGE_CONNECTION_STRING",
}

var agentEnv = &agent.Env{
	BaseURL:        "REQGUARD_AGENT_BASE_URL",
	APIKey:         "REQGUARD_AGENT_API_KEY",
	Model:          "REQGUARD_AGENT_MODEL",
	MaxTokens:      "REQGUARD_AGENT_MAX_TOKENS",
	Temperature:    "REQGUARD_AGENT_TEMPERATURE",
	RequestTimeout: "REQGUARD_AGENT_REQUEST_TIMEOUT",
}

var scoringEnv = &scoring.Env{
	CompleteThreshold: "REQGUARD_SCORING_COMPLETE_THRESHOLD",
	PartialThreshold:  "REQGUARD_SCORING_PARTIAL_THRESHOLD",
	MaxQuestions:      "REQGUARD_SCORING_MAX_QUESTIONS",
}

// Config is the root configuration for the ReqGuard service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	Agent           agent.Config    `toml:"agent"`
	Scoring         scoring.Config  `toml:"scoring"`
	Workflow        WorkflowConfig  `toml:"workflow"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the REQGUARD_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvReqGuardEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Agent.Merge(&overlay.Agent)
	c.Scoring.Merge(&overlay.Scoring)
	c.Workflow.Merge(&overlay.Workflow)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Agent.Finalize(agentEnv); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Scoring.Finalize(scoringEnv); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.Workflow.Finalize(); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvReqGuardShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvReqGuardVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvReqGuardEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
