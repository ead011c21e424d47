package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

type rawIntent struct {
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
}

// DecodeIntent parses model output into an Intent.
func DecodeIntent(text string) (*Intent, error) {
	cleaned := cleanJSONString(text)

	var raw *rawIntent
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v. Raw: %s", ErrUnparseableOutput, err, cleaned)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: null", ErrUnparseableOutput)
	}

	params := raw.Parameters
	if params == nil {
		params = map[string]any{}
	}
	return &Intent{Action: ParseAction(raw.Action), Parameters: params}, nil
}

// cleanJSONString removes markdown code fences if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
