package scoring

// Outcome is the discrete disposition derived from a confidence score.
type Outcome string

// Valid outcomes.
const (
	OutcomeComplete Outcome = "complete"
	OutcomePartial  Outcome = "partial"
	OutcomeClarify  Outcome = "clarify"
)

// Classify maps a confidence score to an outcome using the configured
// thresholds. Both thresholds are inclusive lower bounds.
func (c *Config) Classify(confidence float64) Outcome {
	switch {
	case confidence >= c.CompleteThreshold:
		return OutcomeComplete
	case confidence >= c.PartialThreshold:
		return OutcomePartial
	default:
		return OutcomeClarify
	}
}
