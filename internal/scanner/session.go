package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/inventag/inventag-backend/pkg/config"
	pkgerrors "github.com/inventag/inventag-backend/pkg/errors"
	"github.com/inventag/inventag-backend/pkg/logger"
	"github.com/inventag/inventag-backend/pkg/metrics"
	"github.com/inventag/inventag-backend/pkg/watch"
)

// Result is the outcome of one acquisition run. Found is false when every
// attempt came back empty or the run was cancelled.
type Result struct {
	TagID string    `json:"tag_id,omitempty"`
	Found bool      `json:"found"`
	At    time.Time `json:"at"`
}

type tagReader interface {
	ReadTag(ctx context.Context) (string, error)
}

type deviceSignaler interface {
	TriggerBuzzer(ctx context.Context, duration time.Duration) error
	SetLED(ctx context.Context, color, state string) error
}

// Session runs the tag acquisition loop. At most one run is active at a
// time; starting while a run is in flight is a no-op. Each run publishes
// exactly one Result to watchers, and a stopped run publishes nothing.
type Session struct {
	reader  tagReader
	device  deviceSignaler
	logg    *logger.Logger
	stats   *metrics.ScanMetrics
	results *watch.Hub[Result]

	attempts int
	delay    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	last   *Result
}

// SessionParams bundles the dependencies required to build a scanner session.
type SessionParams struct {
	Reader  tagReader
	Device  deviceSignaler
	Logger  *logger.Logger
	Metrics *metrics.ScanMetrics
	Config  config.ReaderConfig
}

// NewSession constructs a scanner session with the provided dependencies.
func NewSession(params SessionParams) (*Session, error) {
	if params.Reader == nil {
		return nil, fmt.Errorf("tag reader is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	attempts := params.Config.PollAttempts
	if attempts <= 0 {
		attempts = 10
	}
	delay := params.Config.PollDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Session{
		reader:   params.Reader,
		device:   params.Device,
		logg:     params.Logger,
		stats:    params.Metrics,
		results:  watch.NewHub[Result](),
		attempts: attempts,
		delay:    delay,
	}, nil
}

// Start kicks off an acquisition run. If a run is already active, Start
// returns without side effects.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.mu.Unlock()

	go s.run(runCtx)
}

// Stop cancels the active run, if any. No Result is published for a
// cancelled run.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Active reports whether an acquisition run is in flight.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// LastResult returns the most recently published result, or nil before the
// first completed run.
func (s *Session) LastResult() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil
	}
	copied := *s.last
	return &copied
}

// Watch subscribes to run results. The cancel func must be called when the
// watcher is done.
func (s *Session) Watch() (<-chan Result, func()) {
	return s.results.Subscribe()
}

func (s *Session) run(ctx context.Context) {
	started := time.Now()
	defer s.finish()

	for attempt := 1; attempt <= s.attempts; attempt++ {
		if ctx.Err() != nil {
			s.stats.ObserveRun(metrics.OutcomeStopped, time.Since(started))
			return
		}

		tagID, err := s.reader.ReadTag(ctx)
		if err == nil {
			s.publish(ctx, Result{TagID: tagID, Found: true, At: time.Now().UTC()})
			s.signalRead(ctx)
			s.stats.ObserveRun(metrics.OutcomeFound, time.Since(started))
			return
		}

		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			s.stats.IncReadError()
			attemptCtx := s.logg.WithField(ctx, "attempt", attempt)
			s.logg.Warn(attemptCtx, fmt.Sprintf("tag read failed: %v", err))
		}

		if attempt == s.attempts {
			break
		}
		select {
		case <-ctx.Done():
			s.stats.ObserveRun(metrics.OutcomeStopped, time.Since(started))
			return
		case <-time.After(s.delay):
		}
	}

	s.publish(ctx, Result{Found: false, At: time.Now().UTC()})
	s.stats.ObserveRun(metrics.OutcomeExhausted, time.Since(started))
}

// publish records and broadcasts the run outcome unless the run was stopped.
func (s *Session) publish(ctx context.Context, result Result) {
	if ctx.Err() != nil {
		return
	}
	s.mu.Lock()
	s.last = &result
	s.mu.Unlock()
	s.results.Publish(result)
}

// signalRead buzzes the device and blinks the LED after a successful read.
// Failures are logged and never affect the run outcome.
func (s *Session) signalRead(ctx context.Context) {
	if s.device == nil {
		return
	}
	if err := s.device.TriggerBuzzer(ctx, 0); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("buzzer signal failed: %v", err))
	}
	if err := s.device.SetLED(ctx, "green", "blink"); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("led signal failed: %v", err))
	}
}

func (s *Session) finish() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()
}
