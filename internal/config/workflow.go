package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvWorkflowMaxIterations = "REQGUARD_WORKFLOW_MAX_ITERATIONS"
	EnvWorkflowPrefixLimit   = "REQGUARD_WORKFLOW_PREFIX_LIMIT"
)

// WorkflowConfig holds workflow execution limits.
type WorkflowConfig struct {
	// MaxIterations caps author → critic passes before a thread escalates.
	MaxIterations int `toml:"max_iterations"`
	// PrefixLimit bounds the requirements text included in backend prompts.
	PrefixLimit int `toml:"prefix_limit"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkflowConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkflowConfig) Merge(overlay *WorkflowConfig) {
	if overlay.MaxIterations != 0 {
		c.MaxIterations = overlay.MaxIterations
	}
	if overlay.PrefixLimit != 0 {
		c.PrefixLimit = overlay.PrefixLimit
	}
}

func (c *WorkflowConfig) loadDefaults() {
	if c.MaxIterations == 0 {
		c.MaxIterations = 3
	}
	if c.PrefixLimit == 0 {
		c.PrefixLimit = 4000
	}
}

func (c *WorkflowConfig) loadEnv() {
	if v := os.Getenv(EnvWorkflowMaxIterations); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxIterations = n
		}
	}
	if v := os.Getenv(EnvWorkflowPrefixLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PrefixLimit = n
		}
	}
}

func (c *WorkflowConfig) validate() error {
	if c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be at least 1: %d", c.MaxIterations)
	}
	if c.PrefixLimit < 1 {
		return fmt.Errorf("prefix_limit must be at least 1: %d", c.PrefixLimit)
	}
	return nil
}
