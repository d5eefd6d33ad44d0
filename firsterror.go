package multiparser

import "sync"

// firstError is a first-writer-wins failure slot: subsequent errors after
// the first are discarded by the slot itself, though callers may still
// report them elsewhere (e.g. the exception callback).
type firstError struct {
	once sync.Once
	err  error
}

// set records err if this is the first call; it reports whether this call
// was the one that won.
func (f *firstError) set(err error) bool {
	won := false
	f.once.Do(func() {
		f.err = err
		won = true
	})
	return won
}

// get returns the first recorded error, or nil if none was ever set.
func (f *firstError) get() error {
	return f.err
}
