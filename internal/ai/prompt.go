package ai

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"
)

//go:embed prompts/system_prompt.txt
var defaultSystemPrompt string

// LoadPrompt returns the system prompt stored at path, or the built-in one
// when path is empty.
func LoadPrompt(path string) (string, error) {
	if path == "" {
		return defaultSystemPrompt, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read system prompt: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("system prompt %s is empty", path)
	}
	return prompt, nil
}

// withToday appends the reference date so relative dates ("tomorrow",
// "next friday") resolve against the server clock.
func withToday(prompt string, now time.Time) string {
	return fmt.Sprintf("%s\n\nToday's date is %s (%s).", strings.TrimSpace(prompt), now.Format("2006-01-02"), now.Weekday())
}
