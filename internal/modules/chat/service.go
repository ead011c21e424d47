// README: Chat service; message -> intent -> dispatch -> audit -> reply. Every failure becomes reply text.
package chat

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"airchat/internal/ai"
	"airchat/internal/metrics"
	"airchat/internal/modules/dispatch"
)

const (
	EmptyMessageText     = "Please enter a valid message."
	NotUnderstoodText    = "Could not understand your request. Please rephrase it."
	UnrecognizedText     = "Unrecognized action type."
	missingDetailsPrefix = "I need a bit more information to do that. Missing or invalid: "
)

// Reply is the body returned for one chat message.
type Reply struct {
	Response   string `json:"response"`
	Suggestion string `json:"suggestion,omitempty"`

	// RawData is the airline payload or error record, unmodified.
	RawData any `json:"raw_data,omitempty"`
}

type Dispatcher interface {
	Dispatch(ctx context.Context, intent ai.Intent) (dispatch.Reply, error)
}

// Recorder writes the audit entry; it must not fail the reply.
type Recorder interface {
	Record(ctx context.Context, userMessage, systemResponse string)
}

type Service struct {
	resolver   ai.IntentResolver
	dispatcher Dispatcher
	recorder   Recorder
	logger     *zap.Logger
}

func NewService(resolver ai.IntentResolver, dispatcher Dispatcher, recorder Recorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{resolver: resolver, dispatcher: dispatcher, recorder: recorder, logger: logger}
}

// Handle answers one message. Cancellation of ctx is not passed on to the
// resolver or the airline API; each of those has its own timeout.
func (s *Service) Handle(ctx context.Context, message string) Reply {
	message = strings.TrimSpace(message)
	if message == "" {
		metrics.ChatReplies.WithLabelValues("none", "empty").Inc()
		return Reply{Response: EmptyMessageText}
	}

	ctx = context.WithoutCancel(ctx)
	action, outcome, reply := s.answer(ctx, message)
	metrics.ChatReplies.WithLabelValues(string(action), outcome).Inc()

	if s.recorder != nil {
		s.recorder.Record(ctx, message, reply.Response)
	}
	return reply
}

func (s *Service) answer(ctx context.Context, message string) (ai.Action, string, Reply) {
	intent, err := s.resolver.ResolveIntent(ctx, message)
	if err != nil || intent == nil {
		s.logger.Warn("intent resolution failed", zap.Error(err))
		return ai.ActionUnrecognized, "unresolved", Reply{Response: NotUnderstoodText}
	}

	out, err := s.dispatcher.Dispatch(ctx, *intent)
	var malformed *dispatch.MalformedRequestError
	switch {
	case err == nil:
	case errors.Is(err, dispatch.ErrUnrecognizedIntent):
		return intent.Action, "unrecognized", Reply{Response: UnrecognizedText}
	case errors.As(err, &malformed):
		return intent.Action, "malformed", Reply{
			Response: missingDetailsPrefix + strings.Join(malformed.Fields(), ", ") + ".",
		}
	default:
		s.logger.Error("dispatch failed", zap.String("action", string(intent.Action)), zap.Error(err))
		return intent.Action, "error", Reply{Response: NotUnderstoodText}
	}

	outcome := "ok"
	if out.Result.Err != nil {
		outcome = string(out.Result.Err.Kind)
	}
	return out.Action, outcome, Reply{
		Response:   out.Response,
		Suggestion: out.Suggestion,
		RawData:    out.Result.Raw(),
	}
}
