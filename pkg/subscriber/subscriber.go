// Package subscriber tracks registered subscribers: their MSISDN,
// current location, and activity state.
package subscriber

import (
	"sync"

	"github.com/protei/vmsc/pkg/vmscerr"
)

// Subscriber is one registered subscriber record.
type Subscriber struct {
	IMSI     string
	MSISDN   string
	Location string
	Active   bool
}

// Manager is the subscriber registry. The zero value is not usable;
// construct with NewManager.
type Manager struct {
	mu   sync.RWMutex
	subs map[string]*Subscriber
}

// NewManager creates an empty subscriber registry.
func NewManager() *Manager {
	return &Manager{subs: make(map[string]*Subscriber)}
}

// Add registers a new subscriber. Returns DuplicateIMSI if imsi is
// already registered.
func (m *Manager) Add(imsi, msisdn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.subs[imsi]; exists {
		return vmscerr.New(vmscerr.KindDuplicateIMSI, "subscriber %s already registered", imsi)
	}
	m.subs[imsi] = &Subscriber{IMSI: imsi, MSISDN: msisdn}
	return nil
}

// Authenticate marks imsi Active. Returns NotFound if imsi is unknown.
func (m *Manager) Authenticate(imsi string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.subs[imsi]
	if !ok {
		return vmscerr.New(vmscerr.KindNotFound, "subscriber %s not found", imsi)
	}
	s.Active = true
	return nil
}

// UpdateLocation sets imsi's current location. Returns NotFound if imsi
// is unknown.
func (m *Manager) UpdateLocation(imsi, location string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.subs[imsi]
	if !ok {
		return vmscerr.New(vmscerr.KindNotFound, "subscriber %s not found", imsi)
	}
	s.Location = location
	return nil
}

// IsActive reports whether imsi is registered and Active. An unknown
// imsi reports false rather than erroring.
func (m *Manager) IsActive(imsi string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.subs[imsi]
	return ok && s.Active
}

// Get returns a copy of imsi's current record. Returns NotFound if imsi
// is unknown.
func (m *Manager) Get(imsi string) (Subscriber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.subs[imsi]
	if !ok {
		return Subscriber{}, vmscerr.New(vmscerr.KindNotFound, "subscriber %s not found", imsi)
	}
	return *s, nil
}
