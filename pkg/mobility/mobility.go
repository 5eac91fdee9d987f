// Package mobility tracks in-progress handover procedures, one at a
// time per subscriber.
package mobility

import (
	"sync"

	"github.com/protei/vmsc/pkg/vmscerr"
)

// Handover is one in-progress handover.
type Handover struct {
	IMSI   string
	SrcLAC string
	TgtLAC string
}

// Manager is the handover registry. The zero value is not usable;
// construct with NewManager.
type Manager struct {
	mu        sync.Mutex
	handovers map[string]*Handover
}

// NewManager creates an empty handover registry.
func NewManager() *Manager {
	return &Manager{handovers: make(map[string]*Handover)}
}

// Initiate starts tracking a handover for imsi. Returns
// AlreadyInProgress if imsi already has a handover in flight.
func (m *Manager) Initiate(imsi, srcLAC, tgtLAC string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handovers[imsi]; exists {
		return vmscerr.New(vmscerr.KindAlreadyInProgress, "handover already in progress for %s", imsi)
	}
	m.handovers[imsi] = &Handover{IMSI: imsi, SrcLAC: srcLAC, TgtLAC: tgtLAC}
	return nil
}

// Complete removes imsi's in-flight handover. Returns NotFound if imsi
// has no handover in progress.
func (m *Manager) Complete(imsi string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.handovers[imsi]; !ok {
		return vmscerr.New(vmscerr.KindNotFound, "no handover in progress for %s", imsi)
	}
	delete(m.handovers, imsi)
	return nil
}

// InProgress reports whether imsi currently has a handover in flight.
func (m *Manager) InProgress(imsi string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.handovers[imsi]
	return ok
}
