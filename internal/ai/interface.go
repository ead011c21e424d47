package ai

import (
	"context"
	"errors"
)

// ErrUnparseableOutput is returned when the model reply is not an intent object.
var ErrUnparseableOutput = errors.New("model output is not a valid intent")

// IntentResolver turns a free-text message into an Intent.
// Implementations wrap an LLM call; a nil Intent or an error both mean the
// message could not be understood.
type IntentResolver interface {
	ResolveIntent(ctx context.Context, userMessage string) (*Intent, error)
}
