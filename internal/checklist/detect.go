package checklist

import "strings"

// Detection confidence constants: matched triggers score high, the
// Conventional fallback scores low.
const (
	MatchConfidence    = 0.9
	FallbackConfidence = 0.5
)

// LoanClassification is the result of trigger-based loan type detection.
type LoanClassification struct {
	PrimaryType string   `json:"primary_type"`
	AllDetected []string `json:"all_detected"`
	Confidence  float64  `json:"confidence"`
}

// Detect scans raw requirements text for loan-type trigger phrases,
// case-insensitively. The first matching type in declaration order becomes
// the primary type; all matches are retained. Text with no match defaults
// to Conventional at reduced confidence.
func (s *Store) Detect(text string) LoanClassification {
	lower := strings.ToLower(text)

	var detected []string
	for _, t := range s.triggers {
		for _, phrase := range t.Phrases {
			if strings.Contains(lower, phrase) {
				detected = append(detected, t.Type)
				break
			}
		}
	}

	if len(detected) == 0 {
		return LoanClassification{
			PrimaryType: DefaultLoanType,
			AllDetected: []string{},
			Confidence:  FallbackConfidence,
		}
	}

	return LoanClassification{
		PrimaryType: detected[0],
		AllDetected: detected,
		Confidence:  MatchConfidence,
	}
}
