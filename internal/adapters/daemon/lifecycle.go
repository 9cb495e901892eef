package daemon

import (
	"sync"
	"time"
)

// ShutdownReason tells why the server stopped accepting requests.
type ShutdownReason int

const (
	// ReasonNone means the server is still running.
	ReasonNone ShutdownReason = iota
	// ReasonIdle means no request arrived within the idle timeout.
	ReasonIdle
	// ReasonRequested means a command or the host asked the server to stop.
	ReasonRequested
)

// String returns the reason as written to the server log.
func (r ShutdownReason) String() string {
	switch r {
	case ReasonIdle:
		return "idle timeout"
	case ReasonRequested:
		return "requested"
	default:
		return "running"
	}
}

// Lifecycle tracks server activity. It fires a one-shot shutdown when the idle
// timeout passes without a request or when Shutdown is called.
type Lifecycle struct {
	mu           sync.Mutex
	timer        *time.Timer
	startTime    time.Time
	lastActivity time.Time
	timeout      time.Duration
	reason       ShutdownReason
	done         chan struct{}
}

// NewLifecycle creates a lifecycle whose idle timer starts now.
func NewLifecycle(timeout time.Duration) *Lifecycle {
	now := time.Now()
	l := &Lifecycle{
		startTime:    now,
		lastActivity: now,
		timeout:      timeout,
		done:         make(chan struct{}),
	}
	l.timer = time.AfterFunc(timeout, func() { l.stop(ReasonIdle) })
	return l
}

// ResetTimer records activity and restarts the idle timer.
// It has no effect once shutdown has fired.
func (l *Lifecycle) ResetTimer() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.reason != ReasonNone {
		return
	}
	l.lastActivity = time.Now()
	l.timer.Reset(l.timeout)
}

// IdleRemaining returns the time left until the idle shutdown, or zero after shutdown.
func (l *Lifecycle) IdleRemaining() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.reason != ReasonNone {
		return 0
	}
	return max(l.timeout-time.Since(l.lastActivity), 0)
}

// Uptime returns how long the server has been running.
func (l *Lifecycle) Uptime() time.Duration {
	return time.Since(l.startTime)
}

// LastActivity returns the time of the last request.
func (l *Lifecycle) LastActivity() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastActivity
}

// ShutdownChan returns a channel that closes when shutdown fires.
func (l *Lifecycle) ShutdownChan() <-chan struct{} {
	return l.done
}

// ShuttingDown reports whether shutdown has fired.
func (l *Lifecycle) ShuttingDown() bool {
	return l.Reason() != ReasonNone
}

// Reason returns why shutdown fired, or ReasonNone.
func (l *Lifecycle) Reason() ShutdownReason {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reason
}

// Shutdown fires shutdown with ReasonRequested. Only the first call, or the idle
// timer if it fired first, has an effect.
func (l *Lifecycle) Shutdown() {
	l.stop(ReasonRequested)
}

func (l *Lifecycle) stop(reason ShutdownReason) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.reason != ReasonNone {
		return
	}
	l.reason = reason
	l.timer.Stop()
	close(l.done)
}
