package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed marks content that is not JSON, bare or fenced.
var ErrParseFailed = errors.New("failed to parse response")

var fencedBlock = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse unmarshals a completion response into T. Backends often wrap JSON in
// a markdown code fence despite instructions not to, so when the content is
// not valid JSON as-is, the first fenced block is unwrapped and retried.
func Parse[T any](content string) (T, error) {
	var result T

	content = strings.TrimSpace(content)
	if json.Unmarshal([]byte(content), &result) == nil {
		return result, nil
	}

	if inner, ok := unfence(content); ok {
		if json.Unmarshal([]byte(inner), &result) == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, content)
}

// unfence extracts the body of the first markdown code fence in content.
func unfence(content string) (string, bool) {
	matches := fencedBlock.FindStringSubmatch(content)
	if len(matches) < 2 {
		return "", false
	}
	return strings.TrimSpace(matches[1]), true
}
