package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultOpenAIModel   = "gpt-3.5-turbo"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// OpenAIResolver implements IntentResolver with the OpenAI chat completions API.
type OpenAIResolver struct {
	endpoint   string
	httpClient *http.Client
	opts       Options
}

func NewOpenAIResolver(opts Options) (*OpenAIResolver, error) {
	opts = opts.withDefaults(defaultOpenAIModel)
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("openai: missing api key")
	}
	base := opts.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	return &OpenAIResolver{
		endpoint: strings.TrimRight(base, "/") + "/chat/completions",
		// The timeout guards against stalled connections; context
		// cancellation is still honoured via NewRequestWithContext.
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
	}, nil
}

// ResolveIntent sends the system prompt and userMessage and decodes the reply.
func (r *OpenAIResolver) ResolveIntent(ctx context.Context, userMessage string) (*Intent, error) {
	content, err := r.complete(ctx, userMessage)
	if err != nil {
		return nil, err
	}
	return DecodeIntent(content)
}

func (r *OpenAIResolver) complete(ctx context.Context, userMessage string) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: r.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: withToday(r.opts.Prompt, r.opts.Now())},
			{Role: "user", Content: userMessage},
		},
		Temperature: r.opts.Temperature,
		MaxTokens:   r.opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.opts.APIKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", fmt.Errorf("openai: unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if cr.Error != nil {
		return "", fmt.Errorf("openai: api error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("openai: API returned empty choices array (raw: %s)", body)
	}
	return cr.Choices[0].Message.Content, nil
}
