// Package prompts manages per-stage instruction overrides for the
// requirements pipeline. Each override is a named record tied to one
// stage; at most one override per stage is active at a time, and the
// pipeline falls back to built-in instructions when none is.
package prompts

import "github.com/google/uuid"

// Prompt is a stored instruction override for a pipeline stage.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
}

// CreateCommand holds the fields accepted when creating an override.
type CreateCommand struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

// UpdateCommand holds the fields accepted when replacing an override.
type UpdateCommand struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}
