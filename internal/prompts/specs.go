package prompts

const authorSpec = `Respond with plain text organized under the five numbered section
headings from your instructions, in order.

Behavioral constraints:
- No markdown fencing, no JSON
- Keep every section heading even when its body is "Not specified in input"
- Preserve concrete values (amounts, ratios, scores, day counts) exactly as
  they appear in the input
- Do not add requirements that the input does not state or strongly imply`

const criticSpec = `Respond with plain text critique prose.

Behavioral constraints:
- Organize findings under the five numbered issue types from your
  instructions, in order
- Reference the specific requirement language you are attacking
- Reserve the phrases "catastrophic" and "critical failure" for defects
  that would halt origination or breach regulation; reserve "major gap"
  and "serious" for defects that materially degrade the product
- Do not propose fixes or rewrites, only problems`

const gapCheckSpec = `Respond with a JSON object mapping each checklist item key to a verdict:

{"item_key": "YES"}

Field constraints:
- Exactly one entry per checklist item listed in the prompt, keyed by the
  item key verbatim
- Every value is the string "YES" or the string "NO", upper case, nothing else

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Do not add keys that were not listed
- Never explain the verdicts`

var specs = map[Stage]string{
	StageAuthor:   authorSpec,
	StageCritic:   criticSpec,
	StageGapCheck: gapCheckSpec,
}

// Spec returns the hardcoded output contract for a workflow stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
