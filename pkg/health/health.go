// Package health reports vMSC liveness: per-interface component status,
// datagrams emitted, active calls, and the error count, sampled on a
// periodic tick.
package health

import (
	"sync"
	"time"
)

// Config holds health check configuration.
type Config struct {
	Enabled         bool
	CheckInterval   time.Duration
	WatchdogEnabled bool
	WatchdogTimeout time.Duration
}

// Status is a point-in-time snapshot of vMSC health.
type Status struct {
	Healthy          bool
	Timestamp        time.Time
	UptimeSeconds    int64
	DatagramsEmitted int64
	ActiveCalls      int64
	ErrorCount       int64
	LastError        string
	ComponentStatus  map[string]ComponentStatus
}

// ComponentStatus is the last-known health of one interface or
// subsystem.
type ComponentStatus struct {
	Name      string
	Healthy   bool
	Message   string
	LastCheck time.Time
}

// Check is the running health monitor. The zero value is not usable;
// construct with NewCheck.
type Check struct {
	config    Config
	status    *Status
	lastCheck time.Time
	mu        sync.RWMutex
}

// NewCheck creates a health monitor and, if cfg.Enabled, starts its
// periodic sampling loop.
func NewCheck(cfg Config) *Check {
	h := &Check{
		config: cfg,
		status: &Status{
			Healthy:         true,
			Timestamp:       time.Now(),
			ComponentStatus: make(map[string]ComponentStatus),
		},
		lastCheck: time.Now(),
	}

	if cfg.Enabled {
		go h.checkLoop()
	}
	return h
}

// Status returns a copy of the current health snapshot.
func (h *Check) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snapshot := *h.status
	snapshot.ComponentStatus = make(map[string]ComponentStatus, len(h.status.ComponentStatus))
	for k, v := range h.status.ComponentStatus {
		snapshot.ComponentStatus[k] = v
	}
	return snapshot
}

// UpdateComponentStatus records the health of one interface tag (A, C,
// F, E, Nc, ISUP, Gs) or subsystem name.
func (h *Check) UpdateComponentStatus(name string, healthy bool, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.status.ComponentStatus[name] = ComponentStatus{
		Name:      name,
		Healthy:   healthy,
		Message:   message,
		LastCheck: time.Now(),
	}
	h.updateOverallHealth()
}

// RecordDatagramEmitted increments the emitted-datagram counter, called
// after every successful transport send.
func (h *Check) RecordDatagramEmitted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status.DatagramsEmitted++
}

// RecordError increments the error counter and records the message of
// the most recent failure.
func (h *Check) RecordError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status.ErrorCount++
	h.status.LastError = err.Error()
}

// UpdateActiveCalls sets the current active-call gauge.
func (h *Check) UpdateActiveCalls(count int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status.ActiveCalls = count
}

func (h *Check) checkLoop() {
	ticker := time.NewTicker(h.config.CheckInterval)
	defer ticker.Stop()

	startTime := time.Now()
	for range ticker.C {
		h.mu.Lock()
		h.status.Timestamp = time.Now()
		h.status.UptimeSeconds = int64(time.Since(startTime).Seconds())
		h.lastCheck = time.Now()
		h.updateOverallHealth()
		h.mu.Unlock()
	}
}

// updateOverallHealth folds component statuses into the top-level
// Healthy flag; caller must hold h.mu.
func (h *Check) updateOverallHealth() {
	h.status.Healthy = true
	for _, component := range h.status.ComponentStatus {
		if !component.Healthy {
			h.status.Healthy = false
			break
		}
	}
}

// IsHealthy reports the current overall health.
func (h *Check) IsHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status.Healthy
}
