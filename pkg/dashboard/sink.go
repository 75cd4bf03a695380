package dashboard

import (
	"sync"
)

// Sink receives every view the controller commits. Publish must not block
// for long; it is called from the refresh goroutine.
type Sink interface {
	Publish(v View)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(v View)

// Publish calls f(v)
func (f SinkFunc) Publish(v View) {
	f(v)
}

// LatestView caches the most recent view for readers such as HTTP handlers
type LatestView struct {
	mu   sync.RWMutex
	view View
	ok   bool
}

// Publish stores v
func (l *LatestView) Publish(v View) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view = v
	l.ok = true
}

// Get returns the cached view and whether one was published yet
func (l *LatestView) Get() (View, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.view, l.ok
}
