package dashboard

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	// ProbeInterval is the period of the connection monitor
	ProbeInterval = 30 * time.Second

	probeTimeout = 5 * time.Second
)

// Prober reports whether a data source is reachable
type Prober interface {
	Probe(ctx context.Context) error
}

// ConnectionMonitor periodically probes the source and reports the status
// to a callback, typically Controller.SetConnected
type ConnectionMonitor struct {
	prober   Prober
	interval time.Duration
	onChange func(connected bool)

	mu        sync.RWMutex
	connected bool
	checked   bool
	started   bool

	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// NewConnectionMonitor creates a monitor. report is called after every probe.
func NewConnectionMonitor(p Prober, interval time.Duration, report func(connected bool)) *ConnectionMonitor {
	if interval <= 0 {
		interval = ProbeInterval
	}
	return &ConnectionMonitor{
		prober:   p,
		interval: interval,
		onChange: report,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start probes immediately and then once per interval
func (cm *ConnectionMonitor) Start(ctx context.Context) {
	cm.mu.Lock()
	if cm.started {
		cm.mu.Unlock()
		return
	}
	cm.started = true
	cm.mu.Unlock()

	go func() {
		defer close(cm.done)

		ticker := time.NewTicker(cm.interval)
		defer ticker.Stop()

		cm.Check(ctx)

		for {
			select {
			case <-cm.stopChan:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				cm.Check(ctx)
			}
		}
	}()
}

// Stop ends monitoring and waits for the probe goroutine to exit
func (cm *ConnectionMonitor) Stop() {
	cm.mu.RLock()
	started := cm.started
	cm.mu.RUnlock()
	if !started {
		return
	}

	cm.stopOnce.Do(func() {
		close(cm.stopChan)
	})
	<-cm.done
}

// Check performs one probe and returns the resulting status
func (cm *ConnectionMonitor) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	err := cm.prober.Probe(ctx)
	connected := err == nil

	cm.mu.Lock()
	wasConnected, wasChecked := cm.connected, cm.checked
	cm.connected = connected
	cm.checked = true
	cm.mu.Unlock()

	switch {
	case !connected && (wasConnected || !wasChecked):
		log.Printf("❌ Connection check failed: %v", err)
	case connected && !wasConnected && wasChecked:
		log.Println("✓ Connection restored")
	}

	if cm.onChange != nil {
		cm.onChange(connected)
	}
	return connected
}
