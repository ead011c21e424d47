package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiResolver implements IntentResolver using Google's Gemini models.
type GeminiResolver struct {
	client *genai.Client
	model  *genai.GenerativeModel
	opts   Options
}

// NewGeminiResolver initializes a new Gemini client.
func NewGeminiResolver(ctx context.Context, opts Options) (*GeminiResolver, error) {
	opts = opts.withDefaults(defaultGeminiModel)
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(opts.Temperature)
	model.SetMaxOutputTokens(int32(opts.MaxTokens))

	return &GeminiResolver{client: client, model: model, opts: opts}, nil
}

// Close cleans up the Gemini client resources.
func (r *GeminiResolver) Close() {
	r.client.Close()
}

// ResolveIntent asks Gemini for the intent of userMessage.
func (r *GeminiResolver) ResolveIntent(ctx context.Context, userMessage string) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	// The date changes per call, so the instructions travel in the prompt
	// rather than in the shared model's SystemInstruction.
	fullPrompt := fmt.Sprintf("%s\n\nUser Message: %s", withToday(r.opts.Prompt, r.opts.Now()), userMessage)

	resp, err := r.model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	return DecodeIntent(responseText.String())
}
