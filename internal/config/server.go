package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost            = "REQGUARD_SERVER_HOST"
	EnvServerPort            = "REQGUARD_SERVER_PORT"
	EnvServerReadTimeout     = "REQGUARD_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout    = "REQGUARD_SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout = "REQGUARD_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds the HTTP listener parameters. Timeouts are stored
// as duration strings so they round-trip through TOML and env vars;
// validate guarantees the *Duration accessors cannot fail afterwards.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration     { return parseDur(c.ReadTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration    { return parseDur(c.WriteTimeout) }
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration { return parseDur(c.ShutdownTimeout) }

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.ReadTimeout != "" {
		c.ReadTimeout = overlay.ReadTimeout
	}
	if overlay.WriteTimeout != "" {
		c.WriteTimeout = overlay.WriteTimeout
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
}

func (c *ServerConfig) loadDefaults() {
	defaults := []struct {
		field *string
		value string
	}{
		{&c.Host, "0.0.0.0"},
		{&c.ReadTimeout, "1m"},
		{&c.WriteTimeout, "5m"},
		{&c.ShutdownTimeout, "30s"},
	}
	for _, d := range defaults {
		if *d.field == "" {
			*d.field = d.value
		}
	}
	if c.Port == 0 {
		c.Port = 8080
	}
}

func (c *ServerConfig) loadEnv() {
	overrides := []struct {
		env   string
		field *string
	}{
		{EnvServerHost, &c.Host},
		{EnvServerReadTimeout, &c.ReadTimeout},
		{EnvServerWriteTimeout, &c.WriteTimeout},
		{EnvServerShutdownTimeout, &c.ShutdownTimeout},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.field = v
		}
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	checks := []struct {
		name  string
		value string
	}{
		{"read_timeout", c.ReadTimeout},
		{"write_timeout", c.WriteTimeout},
		{"shutdown_timeout", c.ShutdownTimeout},
	}
	for _, ck := range checks {
		if _, err := time.ParseDuration(ck.value); err != nil {
			return fmt.Errorf("invalid %s: %w", ck.name, err)
		}
	}
	return nil
}

func parseDur(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
