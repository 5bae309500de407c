// Package pending rejects duplicate concurrent invocations of the same
// logical action, e.g. two rapid clicks on "like" for one video.
package pending

import (
	"strings"
	"sync"
)

// OperationID derives the tracker key for an action on a target. Scope
// parts (such as the acting viewer) are appended so that different sessions
// sharing one process do not block each other.
func OperationID(action, target string, scope ...string) string {
	id := action + "_" + target
	if len(scope) > 0 {
		id += "@" + strings.Join(scope, "/")
	}
	return id
}

// Tracker is the set of in-flight operation IDs.
type Tracker struct {
	inFlight map[string]struct{}
	mu       sync.Mutex
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		inFlight: make(map[string]struct{}),
	}
}

// TryBegin claims operationID. It returns false, with no side effect, when the
// ID is already in flight. On success the returned release func must be
// called on every exit path; it is safe to call more than once.
func (t *Tracker) TryBegin(operationID string) (release func(), ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.inFlight[operationID]; exists {
		return func() {}, false
	}
	t.inFlight[operationID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() { t.Release(operationID) })
	}, true
}

// Release removes operationID unconditionally.
func (t *Tracker) Release(operationID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, operationID)
}

// InFlight reports whether operationID is currently claimed.
func (t *Tracker) InFlight(operationID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, exists := t.inFlight[operationID]
	return exists
}

// Len returns the number of claimed operations.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inFlight)
}

// Clear releases everything. Intended for session teardown and tests.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight = make(map[string]struct{})
}
