package multiparser

import "sync"

// knownFiles is the session-wide set of absolute paths currently being
// tracked by either launcher. Membership is monotonic within a session:
// once added, a path is never removed, which prevents a duplicate worker
// if a file momentarily disappears and reappears between polls.
type knownFiles struct {
	mu  sync.Mutex
	set map[string]struct{}
}

func newKnownFiles() *knownFiles {
	return &knownFiles{set: make(map[string]struct{})}
}

// testAndAdd atomically checks whether path is already known and, if not,
// marks it known. It returns true only for the caller that wins the race
// to claim path.
func (k *knownFiles) testAndAdd(path string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.set[path]; ok {
		return false
	}
	k.set[path] = struct{}{}
	return true
}

// len reports how many files have been claimed so far.
func (k *knownFiles) len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.set)
}
