package ai

import (
	"errors"
	"strings"

	"github.com/chefgpt/chefgpt-api/internal/apperr"
)

// extractJSON recovers the candidate JSON object from free-form model
// output. The model is an untrusted text source: it may wrap the
// payload in a markdown fence, lead with prose, or trail with
// commentary. Strategy: strip fences, then take the substring from the
// first '{' to the last '}' inclusive. Strict schema validation happens
// afterwards.
func extractJSON(content string) (string, error) {
	cleaned := strings.TrimSpace(content)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.ReplaceAll(cleaned, "```json", "")
		cleaned = strings.ReplaceAll(cleaned, "```", "")
	}

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first == -1 || last == -1 || last < first {
		return "", apperr.Mark(errors.New("no JSON object in model output"), apperr.ErrMalformedAIResponse)
	}

	return cleaned[first : last+1], nil
}
