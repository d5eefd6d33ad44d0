package multiparser

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ukaea/multiparser/internal/globpath"
	"github.com/ukaea/multiparser/internal/logging"
	"github.com/ukaea/multiparser/internal/signal"
)

// CallbackFunc receives every delivered (record, metadata) pair. It is
// required; Enter fails with a configuration error if none is set.
type CallbackFunc func(record Record, metadata Metadata)

// ExceptionCallback receives a human-readable message when a worker fails.
type ExceptionCallback func(message string)

// NotificationCallback receives a human-readable message when a new file
// enters tracking.
type NotificationCallback func(message string)

const defaultInterval = time.Millisecond

// Session is the supervisor: it owns the termination signal, the
// known-files set, the optional callback serialization lock, and the
// aggregate failure state, and drives the full-file and tail launchers.
type Session struct {
	mu sync.Mutex

	id uuid.UUID

	perThreadCallback     CallbackFunc
	exceptionCallback     ExceptionCallback
	notificationCallback  NotificationCallback
	lockCallbacks         bool
	interval              time.Duration
	flattenData           bool
	timeout               time.Duration
	terminateAllOnFail    bool
	logger                *logrus.Logger

	fullTrackables []FullFileTrackable
	tailTrackables []TailTrackable
	excludeGlobs   []*globpath.GlobPath

	known *knownFiles
	term  *signal.Signal
	externallyOwnedTerm bool
	done  *signal.Signal

	observedAny atomic.Bool

	callbackMu sync.Mutex

	entered bool
	started bool

	fullLauncher *launcher
	tailLauncher *launcher
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithPerThreadCallback sets the required per-delivery callback.
func WithPerThreadCallback(fn CallbackFunc) Option {
	return func(s *Session) { s.perThreadCallback = fn }
}

// WithExceptionCallback sets the callback invoked when a worker fails.
func WithExceptionCallback(fn ExceptionCallback) Option {
	return func(s *Session) { s.exceptionCallback = fn }
}

// WithNotificationCallback sets the callback invoked when a new file is
// discovered.
func WithNotificationCallback(fn NotificationCallback) Option {
	return func(s *Session) { s.notificationCallback = fn }
}

// WithTerminationTrigger supplies an externally owned termination signal.
// When set, Run blocks until the signal fires and then behaves like
// Run(); Terminate().
func WithTerminationTrigger(trigger *signal.Signal) Option {
	return func(s *Session) {
		s.term = trigger
		s.externallyOwnedTerm = true
	}
}

// WithLockCallbacks controls whether callback invocations are serialized
// across all workers of both launchers. Default true.
func WithLockCallbacks(lock bool) Option {
	return func(s *Session) { s.lockCallbacks = lock }
}

// WithInterval sets the poll interval for both launchers and all workers.
// Default 1ms.
func WithInterval(d time.Duration) Option {
	return func(s *Session) { s.interval = d }
}

// WithLogLevel sets the logger's level ("debug", "info", "warn", "error").
func WithLogLevel(level string) Option {
	return func(s *Session) { s.logger = logging.New(level) }
}

// WithFlattenData enables recursive dot-joined flattening of delivered
// records. Default false.
func WithFlattenData(flatten bool) Option {
	return func(s *Session) { s.flattenData = flatten }
}

// WithTimeout causes the termination signal to fire automatically after d
// has elapsed since Run().
func WithTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithTerminateAllOnFail causes the first worker failure within a launcher
// to trip the termination signal for the whole session. Default false.
func WithTerminateAllOnFail(terminateAll bool) Option {
	return func(s *Session) { s.terminateAllOnFail = terminateAll }
}

// New builds a Session. Track/Tail/Exclude are called on the returned
// Session and must all happen before Enter.
func New(opts ...Option) *Session {
	s := &Session{
		id:            uuid.New(),
		lockCallbacks: true,
		interval:      defaultInterval,
		known:         newKnownFiles(),
		done:          signal.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.term == nil {
		s.term = signal.New()
	}
	if s.logger == nil {
		s.logger = logging.New("info")
	}
	return s
}

// Exclude registers glob patterns whose matches are filtered out of
// discovery by both launchers. Each pattern is validated by attempting
// expansion immediately.
func (s *Session) Exclude(patterns ...string) error {
	for _, p := range patterns {
		g, err := globpath.Compile(p)
		if err != nil {
			return configError("exclude", err)
		}
		s.excludeGlobs = append(s.excludeGlobs, g)
	}
	return nil
}

// Track registers a full-file trackable. The glob pattern is validated
// immediately; a custom Parser, if set, is smoke-tested immediately.
func (s *Session) Track(t FullFileTrackable) error {
	if _, err := globpath.Compile(t.Pattern); err != nil {
		return configError("track", err)
	}
	if t.Parser != nil {
		if t.Parser.Kind() != FileParserKind {
			return configErrorf("track", "a full-file trackable requires a parser built with NewFileParser")
		}
		if err := t.Parser.validate("track"); err != nil {
			return err
		}
	}
	s.fullTrackables = append(s.fullTrackables, t)
	return nil
}

// Tail registers a tail trackable. Forbids simultaneous Values and Parser.
func (s *Session) Tail(t TailTrackable) error {
	if _, err := globpath.Compile(t.Pattern); err != nil {
		return configError("tail", err)
	}
	if t.Parser != nil && len(t.Values) > 0 {
		return configErrorf("tail", "cannot specify both tracked-value regexes and a custom parser")
	}
	if t.Parser != nil {
		if t.Parser.Kind() != LogParserKind {
			return configErrorf("tail", "a tail trackable requires a parser built with NewLogParser")
		}
		if err := t.Parser.validate("tail"); err != nil {
			return err
		}
	}
	s.tailTrackables = append(s.tailTrackables, t)
	return nil
}

// Enter performs the scoped acquisition required before Run or Terminate
// may be called, building the launcher machinery. Pair with a deferred
// Exit.
func (s *Session) Enter() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.perThreadCallback == nil {
		return nil, configErrorf("enter", "a per-thread callback is required")
	}

	fullLogger := s.logger.WithFields(logrus.Fields{"session": s.id, "launcher": "full"})
	tailLogger := s.logger.WithFields(logrus.Fields{"session": s.id, "launcher": "tail"})
	s.fullLauncher = newLauncher(s, "full", fullLogger)
	s.tailLauncher = newLauncher(s, "tail", tailLogger)

	s.entered = true
	return s, nil
}

// Exit sets the completion signal. It does not by itself stop workers —
// the caller must still call Terminate, or rely on an externally owned
// termination trigger firing on its own.
func (s *Session) Exit() error {
	s.done.Set()
	return nil
}

func (s *Session) markObserved() {
	s.observedAny.Store(true)
}

// Run starts both launchers and returns immediately, unless the Session
// was constructed with an externally owned termination trigger, in which
// case Run blocks until that trigger fires and then drains failures —
// i.e. behaves as Run(); Terminate().
func (s *Session) Run() error {
	s.mu.Lock()
	if !s.entered {
		s.mu.Unlock()
		return programmerErrorf("run", "Run called outside a scoped acquisition; call Enter first")
	}
	if s.started {
		s.mu.Unlock()
		return programmerErrorf("run", "Run called more than once")
	}
	s.started = true
	s.mu.Unlock()

	go runFullLauncher(s.fullLauncher, s.fullTrackables)
	go runTailLauncher(s.tailLauncher, s.tailTrackables)

	if s.timeout > 0 {
		go func() {
			select {
			case <-time.After(s.timeout):
				s.term.Set()
			case <-s.term.C():
			}
		}()
	}

	if s.externallyOwnedTerm {
		s.term.Wait()
		return s.finishTermination()
	}
	return nil
}

// Terminate sets the termination signal, waits for the workers of both
// launchers, and re-raises the first failure recorded: wrapped as a
// KindSessionFailure error when WithTerminateAllOnFail is set, unwrapped
// otherwise. On clean termination with no files ever observed, it logs a
// warning instead of failing.
func (s *Session) Terminate() error {
	s.mu.Lock()
	if !s.entered {
		s.mu.Unlock()
		return programmerErrorf("terminate", "Terminate called outside a scoped acquisition; call Enter first")
	}
	s.mu.Unlock()

	s.term.Set()
	return s.finishTermination()
}

// finishTermination joins both launchers and reports the first failure,
// shared by Terminate and by Run's externally-triggered wait path.
func (s *Session) finishTermination() error {
	var g errgroup.Group
	g.Go(s.fullLauncher.join)
	g.Go(s.tailLauncher.join)
	first := g.Wait()

	if !s.observedAny.Load() {
		s.logger.Warn("session terminated without observing any files")
	}

	if first != nil {
		if s.terminateAllOnFail {
			return sessionFailure("terminate", first)
		}
		return first
	}
	return nil
}

// deliver applies the session-wide callback lock discipline and invokes
// the per-thread callback, recovering a panic into a parser-kind error so
// a callback that panics on delivery fails its worker (and, with
// WithTerminateAllOnFail, the whole session) instead of crashing the
// process.
func deliver(s *Session, record Record, metadata Metadata) (err error) {
	if s.lockCallbacks {
		s.callbackMu.Lock()
		defer s.callbackMu.Unlock()
	}
	defer func() {
		if r := recover(); r != nil {
			err = parserError("callback", fmt.Errorf("per-thread callback panicked: %v", r))
		}
	}()
	s.perThreadCallback(record, metadata)
	return nil
}
