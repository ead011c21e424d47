// README: Best-effort recorder; audit failures are logged and counted, never returned.
package chatlog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"airchat/internal/metrics"
)

const DefaultTimeout = 5 * time.Second

type Recorder struct {
	sink    Sink
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*Recorder)

func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Recorder) { r.logger = l }
}

// NewRecorder writes to sink with a per-entry timeout. A nil sink records nothing.
func NewRecorder(sink Sink, timeout time.Duration, opts ...Option) *Recorder {
	if sink == nil {
		sink = NopSink{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	r := &Recorder{sink: sink, timeout: timeout, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends one entry. It ignores cancellation of ctx so that an entry
// for a finished reply is still written after the caller goes away.
func (r *Recorder) Record(ctx context.Context, userMessage, systemResponse string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	entry := NewEntry(r.now(), userMessage, systemResponse)
	if err := r.sink.Append(ctx, entry); err != nil {
		metrics.AuditFailures.WithLabelValues(r.sink.Name()).Inc()
		r.logger.Error("chat log write failed",
			zap.String("sink", r.sink.Name()),
			zap.Error(err),
		)
	}
}
