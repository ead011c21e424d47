package ai

import "time"

// Options configures an LLM-backed resolver.
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string // OpenAI only; the chat completions root.
	Prompt      string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration

	// Now supplies the reference date injected into the prompt.
	Now func() time.Time
}

func (o Options) withDefaults(model string) Options {
	if o.Model == "" {
		o.Model = model
	}
	if o.Prompt == "" {
		o.Prompt = defaultSystemPrompt
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 500
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
