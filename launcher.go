package multiparser

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ukaea/multiparser/internal/globpath"
	"github.com/ukaea/multiparser/internal/signal"
)

// launcher is the shared plumbing behind both the full-file and tail
// launchers: it periodically expands every glob pattern of its
// trackables, skips excluded and already-known paths, marks newly
// discovered paths known, and spawns exactly one worker per path. When a
// path matches more than one trackable of the same launcher, the first in
// declaration order wins, implemented simply by iterating trackables in
// order and letting knownFiles.testAndAdd claim the path for whichever
// binding gets there first.
type launcher struct {
	name               string
	session            *Session
	interval           time.Duration
	excludes           []*globpath.GlobPath
	known              *knownFiles
	term               *signal.Signal
	notify             NotificationCallback
	terminateAllOnFail bool
	logger             *logrus.Entry

	wg      sync.WaitGroup
	failure firstError
}

func newLauncher(s *Session, name string, logger *logrus.Entry) *launcher {
	return &launcher{
		name:               name,
		session:            s,
		interval:           s.interval,
		excludes:           s.excludeGlobs,
		known:              s.known,
		term:               s.term,
		notify:             s.notificationCallback,
		terminateAllOnFail: s.terminateAllOnFail,
		logger:             logger,
	}
}

func (l *launcher) isExcluded(path string) bool {
	for _, ex := range l.excludes {
		for _, m := range ex.Match() {
			if m == path {
				return true
			}
		}
	}
	return false
}

// sleepInterval waits for the launcher's poll interval or for termination,
// whichever comes first, so shutdown is observed promptly rather than only
// at the next full interval boundary.
func sleepInterval(term *signal.Signal, interval time.Duration) {
	select {
	case <-term.C():
	case <-time.After(interval):
	}
}

// onWorkerFailure records a worker's error into the launcher's failure
// slot, notifies the exception callback, and — when terminateAllOnFail is
// set — trips the termination signal so sibling workers stop at their next
// iteration boundary.
func (l *launcher) onWorkerFailure(path string, err error) {
	l.failure.set(err)
	if l.session.exceptionCallback != nil {
		l.session.exceptionCallback(fmt.Sprintf("%s worker for %q failed: %v", l.name, path, err))
	}
	l.logger.WithError(err).WithField("path", path).Warn("worker failed")
	if l.terminateAllOnFail {
		l.term.Set()
	}
}

// join waits for every worker this launcher ever spawned to finish and
// returns the first recorded failure, if any.
func (l *launcher) join() error {
	l.wg.Wait()
	return l.failure.get()
}

// runFullLauncher runs the full-file launcher's discovery loop until
// termination. It does not wait for its workers; join does that.
func runFullLauncher(l *launcher, trackables []FullFileTrackable) {
	for {
		for i := range trackables {
			t := &trackables[i]
			discoverFull(l, t)
		}
		select {
		case <-l.term.C():
			return
		case <-time.After(l.interval):
		}
	}
}

func discoverFull(l *launcher, t *FullFileTrackable) {
	g, err := globpath.Compile(t.Pattern)
	if err != nil {
		// Patterns are validated at Track() time; a failure here would mean
		// the filesystem itself is misbehaving. Treat as transient.
		return
	}
	for _, path := range g.Match() {
		if l.isExcluded(path) {
			continue
		}
		if !l.known.testAndAdd(path) {
			continue
		}
		l.session.markObserved()
		if l.notify != nil {
			l.notify(fmt.Sprintf("new file for tracking: %s", path))
		}
		l.logger.WithField("path", path).Debug("full-file worker added")

		l.wg.Add(1)
		go func(path string, t *FullFileTrackable) {
			defer l.wg.Done()
			if err := runFullWorker(l.session, path, t); err != nil {
				l.onWorkerFailure(path, err)
			}
		}(path, t)
	}
}

// runTailLauncher runs the tail launcher's discovery loop until
// termination. It does not wait for its workers; join does that.
func runTailLauncher(l *launcher, trackables []TailTrackable) {
	for {
		for i := range trackables {
			t := &trackables[i]
			discoverTail(l, t)
		}
		select {
		case <-l.term.C():
			return
		case <-time.After(l.interval):
		}
	}
}

func discoverTail(l *launcher, t *TailTrackable) {
	g, err := globpath.Compile(t.Pattern)
	if err != nil {
		return
	}
	for _, path := range g.Match() {
		if l.isExcluded(path) {
			continue
		}
		if !l.known.testAndAdd(path) {
			continue
		}
		l.session.markObserved()
		if l.notify != nil {
			l.notify(fmt.Sprintf("new file for tracking: %s", path))
		}
		l.logger.WithField("path", path).Debug("tail worker added")

		l.wg.Add(1)
		go func(path string, t *TailTrackable) {
			defer l.wg.Done()
			if err := runTailWorker(l.session, path, t); err != nil {
				l.onWorkerFailure(path, err)
			}
		}(path, t)
	}
}
