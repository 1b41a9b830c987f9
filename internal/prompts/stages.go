package prompts

import (
	"encoding/json"
	"slices"
)

// Stage identifies which pipeline role a prompt override applies to.
type Stage string

const (
	StageAuthor   Stage = "author"
	StageCritic   Stage = "critic"
	StageGapCheck Stage = "gapcheck"
)

var stages = []Stage{StageAuthor, StageCritic, StageGapCheck}

// Stages returns every stage a prompt can target.
func Stages() []Stage {
	return stages
}

// ParseStage validates a string against the known stages. Unknown values
// yield ErrInvalidStage.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}

// UnmarshalJSON rejects stage values outside the known set so bad input
// fails at decode time rather than at the database.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
