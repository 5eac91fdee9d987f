// Package call tracks in-progress calls through a small state machine:
// IDLE -> SETUP -> CONNECTED -> TERMINATED, with TERMINATED reachable
// directly from SETUP as well.
package call

import (
	"fmt"
	"sync"
	"time"

	"github.com/protei/vmsc/pkg/vmscerr"
)

// State is a Call's position in its state machine.
type State string

const (
	StateIdle          State = "IDLE"
	StateSetup         State = "SETUP"
	StateAlerting      State = "ALERTING"
	StateConnected     State = "CONNECTED"
	StateDisconnecting State = "DISCONNECTING"
	StateTerminated    State = "TERMINATED"
)

// Call is one in-progress call record.
type Call struct {
	ID          string
	CallerIMSI  string
	Callee      string
	State       State
	SetupTime   int64
	ConnectTime int64
}

// Manager is the call registry. The zero value is not usable;
// construct with NewManager.
type Manager struct {
	mu      sync.Mutex
	calls   map[string]*Call
	counter uint64
}

// NewManager creates an empty call registry.
func NewManager() *Manager {
	return &Manager{calls: make(map[string]*Call)}
}

// Setup creates a new call in state SETUP and returns its generated ID.
func (m *Manager) Setup(callerIMSI, callee string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++
	id := fmt.Sprintf("CALL-%08d", m.counter)
	m.calls[id] = &Call{
		ID:         id,
		CallerIMSI: callerIMSI,
		Callee:     callee,
		State:      StateSetup,
		SetupTime:  time.Now().UnixNano(),
	}
	return id
}

// Connect transitions id from SETUP to CONNECTED. Returns NotFound if id
// is unknown, or WrongState if id is not currently in SETUP.
func (m *Manager) Connect(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.calls[id]
	if !ok {
		return vmscerr.New(vmscerr.KindNotFound, "call %s not found", id)
	}
	if c.State != StateSetup {
		return vmscerr.New(vmscerr.KindWrongState, "call %s is in state %s, not SETUP", id, c.State)
	}
	c.State = StateConnected
	c.ConnectTime = time.Now().UnixNano()
	return nil
}

// Terminate removes id from the registry. Returns NotFound if id is
// unknown.
func (m *Manager) Terminate(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.calls[id]; !ok {
		return vmscerr.New(vmscerr.KindNotFound, "call %s not found", id)
	}
	delete(m.calls, id)
	return nil
}

// GetState returns id's current state. Returns NotFound if id is
// unknown.
func (m *Manager) GetState(id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.calls[id]
	if !ok {
		return "", vmscerr.New(vmscerr.KindNotFound, "call %s not found", id)
	}
	return c.State, nil
}
