// Package orchestrator ties the interface state machines to the
// signaling pipeline: a logical operation updates a registry and, when
// a peer must be notified, builds an L3 payload, wraps it through
// BSSAP, SCCP, and M3UA, resolves the destination via the routing
// engine, and emits the resulting datagram over UDP.
package orchestrator

import (
	"strconv"
	"sync"

	"github.com/protei/vmsc/internal/logger"
	"github.com/protei/vmsc/pkg/bcd"
	"github.com/protei/vmsc/pkg/bssap"
	"github.com/protei/vmsc/pkg/call"
	"github.com/protei/vmsc/pkg/config"
	"github.com/protei/vmsc/pkg/health"
	"github.com/protei/vmsc/pkg/m3ua"
	"github.com/protei/vmsc/pkg/mobility"
	"github.com/protei/vmsc/pkg/routing"
	"github.com/protei/vmsc/pkg/sccp"
	"github.com/protei/vmsc/pkg/subscriber"
	"github.com/protei/vmsc/pkg/transport"
	"github.com/protei/vmsc/pkg/vmscerr"
)

// Orchestrator is the vMSC front-end: one registry per state machine,
// one configuration snapshot, and the outbound signaling pipeline.
type Orchestrator struct {
	cfg    *config.Config
	log    *logger.Logger
	health *health.Check

	subscribers *subscriber.Manager
	calls       *call.Manager
	mobility    *mobility.Manager

	localRef *sccp.LocalRefCounter
	senders  map[string]*transport.Sender

	mu      sync.RWMutex
	running bool
}

// New creates an Orchestrator wired to cfg. Call Start before issuing
// any operation.
func New(cfg *config.Config, log *logger.Logger, hc *health.Check) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		log:         log,
		health:      hc,
		subscribers: subscriber.NewManager(),
		calls:       call.NewManager(),
		mobility:    mobility.NewManager(),
		localRef:    sccp.NewLocalRefCounter(),
		senders:     make(map[string]*transport.Sender),
	}
}

// Start opens a UDP sender for every configured interface and marks the
// Orchestrator running. Every other operation fails with NotRunning
// until Start succeeds.
func (o *Orchestrator) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for tag, iface := range o.cfg.Engine.Interfaces {
		local := iface.Endpoint.Local
		remote := iface.Endpoint.Remote
		remoteAddr := ""
		if remote.Host != "" {
			remoteAddr = addr(remote)
		}
		sender, err := transport.NewSender(addr(local), remoteAddr)
		if err != nil {
			return vmscerr.Wrap(vmscerr.KindTransportError, err, "opening sender for interface %s", tag)
		}
		o.senders[tag] = sender
		if o.health != nil {
			o.health.UpdateComponentStatus(tag, true, "sender ready")
		}
	}

	o.running = true
	if o.log != nil {
		o.log.Info("orchestrator started")
	}
	return nil
}

// Stop closes every open sender and marks the Orchestrator stopped.
func (o *Orchestrator) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.running = false
	for _, s := range o.senders {
		s.Close()
	}
	if o.log != nil {
		o.log.Info("orchestrator stopped")
	}
	return nil
}

func addr(ep routing.Endpoint) string {
	if ep.Host == "" {
		return "0.0.0.0:0"
	}
	return ep.Host + ":" + strconv.Itoa(int(ep.Port))
}

func (o *Orchestrator) requireRunning() error {
	if !o.running {
		return vmscerr.New(vmscerr.KindNotRunning, "orchestrator is not running")
	}
	return nil
}

// Register adds a new subscriber. Fails with NotRunning if stopped.
func (o *Orchestrator) Register(imsi, msisdn string) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if err := o.requireRunning(); err != nil {
		return err
	}
	return o.subscribers.Add(imsi, msisdn)
}

// Authenticate marks a subscriber Active. Fails with NotRunning if
// stopped.
func (o *Orchestrator) Authenticate(imsi string) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if err := o.requireRunning(); err != nil {
		return err
	}
	return o.subscribers.Authenticate(imsi)
}

// UpdateLocation moves a subscriber to lac and notifies the peer over
// the A-interface with a BSSMAP Complete Layer 3 Information message.
func (o *Orchestrator) UpdateLocation(imsi, lac string) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if err := o.requireRunning(); err != nil {
		return err
	}
	if err := o.subscribers.UpdateLocation(imsi, lac); err != nil {
		return err
	}
	return o.notifyAInterface(imsi)
}

// InitiateCall creates a new call in SETUP and emits its DTAP setup
// indication. Fails with NotRunning if stopped, or with NotFound if the
// caller is unknown or inactive.
func (o *Orchestrator) InitiateCall(callerIMSI, callee string) (string, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if err := o.requireRunning(); err != nil {
		return "", err
	}
	if !o.subscribers.IsActive(callerIMSI) {
		return "", vmscerr.New(vmscerr.KindNotFound, "caller %s is not an active subscriber", callerIMSI)
	}

	id := o.calls.Setup(callerIMSI, callee)

	calleeDigits, err := bcd.Encode(callee)
	if err != nil {
		return id, vmscerr.Wrap(vmscerr.KindInvalidDigit, err, "encoding callee %s", callee)
	}

	// Route the setup by the dialed number when a GT route covers it;
	// otherwise the default BSC leg on the A interface carries it.
	decision, err := o.cfg.Engine.Resolve("", callee)
	if err != nil {
		decision, err = o.cfg.Engine.Resolve("A", "")
		if err != nil {
			return id, err
		}
	}
	if err := o.emitTo(decision, bssap.EncodeDTAP(calleeDigits)); err != nil {
		return id, err
	}
	return id, nil
}

// AnswerCall transitions id from SETUP to CONNECTED.
func (o *Orchestrator) AnswerCall(id string) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if err := o.requireRunning(); err != nil {
		return err
	}
	return o.calls.Connect(id)
}

// EndCall terminates id and emits a BSSMAP Clear Command.
func (o *Orchestrator) EndCall(id string, cause byte) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if err := o.requireRunning(); err != nil {
		return err
	}
	if err := o.calls.Terminate(id); err != nil {
		return err
	}
	return o.emitClearCommand("A", cause)
}

// PerformHandover checks the subscriber is Active, initiates the
// handover, updates its location to tgtLac, then completes the
// handover as one observable step (the mutex held across the three
// calls is what makes it appear atomic to other Orchestrator callers).
func (o *Orchestrator) PerformHandover(imsi, srcLac, tgtLac string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.requireRunning(); err != nil {
		return err
	}
	if !o.subscribers.IsActive(imsi) {
		return vmscerr.New(vmscerr.KindNotFound, "subscriber %s is not active", imsi)
	}
	if err := o.mobility.Initiate(imsi, srcLac, tgtLac); err != nil {
		return err
	}
	if err := o.subscribers.UpdateLocation(imsi, tgtLac); err != nil {
		return err
	}
	if err := o.mobility.Complete(imsi); err != nil {
		return err
	}
	return o.notifyAInterface(imsi)
}

func (o *Orchestrator) notifyAInterface(imsi string) error {
	sub, err := o.subscribers.Get(imsi)
	if err != nil {
		return err
	}
	a := o.cfg.Engine.Interfaces["A"]

	imsiDigits, err := bcd.Encode(sub.IMSI)
	if err != nil {
		return vmscerr.Wrap(vmscerr.KindInvalidDigit, err, "encoding imsi %s", sub.IMSI)
	}

	payload := bssap.EncodeCompleteL3(a.LAC, a.CellID, imsiDigits)
	return o.emit("A", payload)
}

func (o *Orchestrator) emitClearCommand(tag string, cause byte) error {
	return o.emit(tag, bssap.EncodeClearCommand(cause))
}

// emit resolves tag via the routing engine and sends bssapPayload
// through emitTo.
func (o *Orchestrator) emit(tag string, bssapPayload []byte) error {
	decision, err := o.cfg.Engine.Resolve(tag, "")
	if err != nil {
		return err
	}
	return o.emitTo(decision, bssapPayload)
}

// emitTo wraps a BSSAP payload in SCCP CR and M3UA and sends the
// datagram on the resolved interface's sender.
func (o *Orchestrator) emitTo(decision *routing.Decision, bssapPayload []byte) error {
	ref := o.localRef.Allocate()
	sccpPayload := sccp.EncodeCR(ref, decision.SSN.Called, bssapPayload)

	label := m3ua.RoutingLabel{
		OPC: decision.OPC,
		DPC: decision.DPC,
		SI:  decision.SI,
		NI:  decision.NI,
		MP:  o.cfg.Global.DefaultMP,
		SLS: o.cfg.Global.DefaultSLS,
	}
	datagram := m3ua.Encode(label, sccpPayload)

	sender, ok := o.senders[decision.Iface]
	if !ok {
		return vmscerr.New(vmscerr.KindTransportError, "no sender configured for interface %s", decision.Iface)
	}
	if err := sender.Send(datagram); err != nil {
		if o.health != nil {
			o.health.RecordError(err)
		}
		return err
	}
	if o.health != nil {
		o.health.RecordDatagramEmitted()
	}
	return nil
}
