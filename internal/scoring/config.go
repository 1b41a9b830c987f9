package scoring

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/reqguard/internal/checklist"
)

// Config holds the tunable constants of the confidence scorer, outcome
// classifier, and question generator.
type Config struct {
	CriticalDeduction float64 `toml:"critical_deduction"`
	HighDeduction     float64 `toml:"high_deduction"`
	MediumDeduction   float64 `toml:"medium_deduction"`

	SeverePenalty   float64 `toml:"severe_penalty"`
	ModeratePenalty float64 `toml:"moderate_penalty"`

	CompleteThreshold float64 `toml:"complete_threshold"`
	PartialThreshold  float64 `toml:"partial_threshold"`

	MaxQuestions int `toml:"max_questions"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	CompleteThreshold string
	PartialThreshold  string
	MaxQuestions      string
}

// Critique phrase tiers, checked in order. Only the first matching tier
// applies; the tiers are not cumulative.
var (
	severePhrases   = []string{"catastrophic", "critical failure"}
	moderatePhrases = []string{"major gap", "serious"}
)

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.CriticalDeduction != 0 {
		c.CriticalDeduction = overlay.CriticalDeduction
	}
	if overlay.HighDeduction != 0 {
		c.HighDeduction = overlay.HighDeduction
	}
	if overlay.MediumDeduction != 0 {
		c.MediumDeduction = overlay.MediumDeduction
	}
	if overlay.SeverePenalty != 0 {
		c.SeverePenalty = overlay.SeverePenalty
	}
	if overlay.ModeratePenalty != 0 {
		c.ModeratePenalty = overlay.ModeratePenalty
	}
	if overlay.CompleteThreshold != 0 {
		c.CompleteThreshold = overlay.CompleteThreshold
	}
	if overlay.PartialThreshold != 0 {
		c.PartialThreshold = overlay.PartialThreshold
	}
	if overlay.MaxQuestions != 0 {
		c.MaxQuestions = overlay.MaxQuestions
	}
}

func (c *Config) loadDefaults() {
	if c.CriticalDeduction == 0 {
		c.CriticalDeduction = 0.10
	}
	if c.HighDeduction == 0 {
		c.HighDeduction = 0.05
	}
	if c.MediumDeduction == 0 {
		c.MediumDeduction = 0.02
	}
	if c.SeverePenalty == 0 {
		c.SeverePenalty = 0.20
	}
	if c.ModeratePenalty == 0 {
		c.ModeratePenalty = 0.10
	}
	if c.CompleteThreshold == 0 {
		c.CompleteThreshold = 0.95
	}
	if c.PartialThreshold == 0 {
		c.PartialThreshold = 0.70
	}
	if c.MaxQuestions == 0 {
		c.MaxQuestions = 5
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.CompleteThreshold != "" {
		if v := os.Getenv(env.CompleteThreshold); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.CompleteThreshold = f
			}
		}
	}
	if env.PartialThreshold != "" {
		if v := os.Getenv(env.PartialThreshold); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.PartialThreshold = f
			}
		}
	}
	if env.MaxQuestions != "" {
		if v := os.Getenv(env.MaxQuestions); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxQuestions = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.CompleteThreshold <= c.PartialThreshold {
		return fmt.Errorf(
			"complete_threshold (%v) must exceed partial_threshold (%v)",
			c.CompleteThreshold, c.PartialThreshold,
		)
	}
	if c.CompleteThreshold > 1 || c.PartialThreshold < 0 {
		return fmt.Errorf("thresholds must lie within [0, 1]")
	}
	if c.MaxQuestions < 1 {
		return fmt.Errorf("max_questions must be positive")
	}
	return nil
}

func (c *Config) deduction(severity checklist.Severity) float64 {
	switch severity {
	case checklist.SeverityCritical:
		return c.CriticalDeduction
	case checklist.SeverityHigh:
		return c.HighDeduction
	case checklist.SeverityMedium:
		return c.MediumDeduction
	default:
		// low and unrecognized severities carry no deduction
		return 0
	}
}
