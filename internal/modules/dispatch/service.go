// README: Dispatcher; selects the recipe for an intent, calls the airline API and formats the result.
package dispatch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"airchat/internal/ai"
	"airchat/internal/modules/airline"
)

// Caller performs airline API calls; *airline.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, req airline.Request) airline.Result
}

type Option func(*Service)

// WithClock sets the clock used for defaulted query dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

type Service struct {
	caller Caller
	now    func() time.Time
	logger *zap.Logger
}

func NewService(caller Caller, opts ...Option) *Service {
	s := &Service{caller: caller, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan validates intent and returns the airline request it maps to,
// without calling the API.
func (s *Service) Plan(intent ai.Intent) (airline.Request, error) {
	rc, err := lookup(intent)
	if err != nil {
		return airline.Request{}, err
	}
	return rc.request(intent.Parameters, s.now())
}

// Dispatch runs the recipe for intent. It returns ErrUnrecognizedIntent or a
// *MalformedRequestError before any network call; downstream failures are
// not errors here but are carried in Reply.Result and the formatted text.
func (s *Service) Dispatch(ctx context.Context, intent ai.Intent) (Reply, error) {
	rc, err := lookup(intent)
	if err != nil {
		return Reply{}, err
	}

	req, err := rc.request(intent.Parameters, s.now())
	if err != nil {
		s.logger.Info("intent rejected before dispatch",
			zap.String("action", string(intent.Action)),
			zap.Error(err),
		)
		return Reply{}, err
	}

	res := s.caller.Call(ctx, req)

	reply := Reply{
		Action:   intent.Action,
		Response: rc.format(res),
		Result:   res,
	}
	if rc.suggest != nil {
		reply.Suggestion = rc.suggest(res)
	}
	return reply, nil
}

func lookup(intent ai.Intent) (*recipe, error) {
	if !intent.Recognized() {
		return nil, ErrUnrecognizedIntent
	}
	rc, ok := recipes[intent.Action]
	if !ok {
		return nil, ErrUnrecognizedIntent
	}
	return rc, nil
}
