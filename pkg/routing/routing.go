// Package routing models the seven MSC interface descriptors and
// resolves a logical operation to a concrete (OPC, DPC, NI, SI) routing
// decision plus the transport endpoint and SSN pair to use.
//
// An Interface Descriptor is a single tagged Variant (SingleNI or
// MultiNI) rather than one concrete struct per interface; the routing
// engine polymorphises over a small capability surface.
package routing

import (
	"strings"

	"github.com/protei/vmsc/pkg/vmscerr"
)

// Network Indicator values.
const (
	NIInternational byte = 0
	NINational      byte = 2
	NIReserved      byte = 3
)

// Service Indicator values.
const (
	SISNM  byte = 0
	SISCCP byte = 3
	SITUP  byte = 4
	SIISUP byte = 5
)

// Endpoint is an IPv4 + UDP port transport address.
type Endpoint struct {
	Host string
	Port uint16
}

// EndpointPair is the local/remote transport pair a descriptor binds.
type EndpointPair struct {
	Local  Endpoint
	Remote Endpoint
}

// SSNPair is the calling/called SubSystem Number pair for an interface.
type SSNPair struct {
	Calling byte
	Called  byte
}

// PCPair is an (OPC, DPC) point-code pair.
type PCPair struct {
	OPC uint32
	DPC uint32
}

// IsZero reports whether both point codes are unset, which the routing
// engine treats as "no pair configured for this NI."
func (p PCPair) IsZero() bool {
	return p.OPC == 0 && p.DPC == 0
}

// Variant is the capability every Interface Descriptor NI arrangement
// must provide: resolve a point-code pair for a given active NI.
type Variant interface {
	PCFor(ni byte) (PCPair, bool)
}

// SingleNI is the variant used by A, C, and F: one (OPC, DPC) pair
// regardless of NI.
type SingleNI struct {
	Pair PCPair
}

func (s SingleNI) PCFor(byte) (PCPair, bool) { return s.Pair, true }

// MultiNI is the variant used by E, Nc, ISUP, and Gs: a pair per NI.
type MultiNI struct {
	Pairs map[byte]PCPair
}

func (m MultiNI) PCFor(ni byte) (PCPair, bool) {
	p, ok := m.Pairs[ni]
	return p, ok
}

// Interface is a single tagged Interface Descriptor.
type Interface struct {
	Tag      string // "A", "C", "F", "E", "Nc", "ISUP", "Gs"
	Endpoint EndpointPair
	Variant  Variant
	ActiveNI byte
	SSN      SSNPair

	GTIndicator bool
	CalledGT    string

	LocalSPID  string
	RemoteSPID string

	// ConfiguredSI is the 'si' value read from configuration. It is kept
	// for round-tripping the config file; routing decisions use
	// EffectiveSI, which fixes SI by interface type rather than by
	// configuration.
	ConfiguredSI byte
	DefaultSLS   byte
	DefaultMP    byte

	// A-interface only.
	MCC    string
	MNC    string
	LAC    uint16
	CellID uint16
}

// ActiveNIPair resolves this descriptor's (OPC, DPC) pair for its
// currently active NI.
func (i *Interface) ActiveNIPair() (PCPair, bool) {
	return i.Variant.PCFor(i.ActiveNI)
}

// EffectiveSI returns the Service Indicator this interface routes with:
// fixed at 5 for ISUP, 3 for everything else.
func (i *Interface) EffectiveSI() byte {
	if i.Tag == "ISUP" {
		return SIISUP
	}
	return SISCCP
}

// GTRoute is one entry in the Global Title routing table, matched by
// declaration order, not longest-prefix. TODO: longest-prefix match
// once the declaration-order dependency in existing route tables is
// confirmed safe to drop.
type GTRoute struct {
	Prefix      string
	Iface       string
	DPCOverride uint32
	Description string
	SPID        string
}

// Engine resolves logical operations to routing Decisions.
type Engine struct {
	Interfaces map[string]*Interface
	Routes     []GTRoute
}

// NewEngine creates an empty Engine ready to have interfaces and routes
// populated (typically by the config loader).
func NewEngine() *Engine {
	return &Engine{Interfaces: make(map[string]*Interface)}
}

// Decision is the resolved routing outcome of Resolve.
type Decision struct {
	Iface    string
	OPC      uint32
	DPC      uint32
	NI       byte
	SI       byte
	Endpoint EndpointPair
	SSN      SSNPair
}

// Resolve uses the interface hint if supplied, else scans GT Routes in
// declaration order for the first prefix match against e164, then
// resolves that interface's active-NI point-code pair (applying a GT
// route's DPC override, if any).
func (e *Engine) Resolve(ifaceHint, e164 string) (*Decision, error) {
	tag := ifaceHint
	var dpcOverride uint32

	if tag == "" {
		if e164 == "" {
			return nil, vmscerr.New(vmscerr.KindNoRoute, "no interface hint and no E.164 supplied")
		}
		route, ok := e.matchRoute(e164)
		if !ok {
			return nil, vmscerr.New(vmscerr.KindNoRoute, "no GT route matches %q", e164)
		}
		tag = route.Iface
		dpcOverride = route.DPCOverride
	}

	iface, ok := e.Interfaces[tag]
	if !ok {
		return nil, vmscerr.New(vmscerr.KindNoRoute, "unknown interface %q", tag)
	}

	pair, ok := iface.ActiveNIPair()
	if !ok || pair.IsZero() {
		return nil, vmscerr.New(vmscerr.KindNoRoute, "no point-code pair for interface %q at NI %d", tag, iface.ActiveNI)
	}

	dpc := pair.DPC
	if dpcOverride != 0 {
		dpc = dpcOverride
	}

	return &Decision{
		Iface:    tag,
		OPC:      pair.OPC,
		DPC:      dpc,
		NI:       iface.ActiveNI,
		SI:       iface.EffectiveSI(),
		Endpoint: iface.Endpoint,
		SSN:      iface.SSN,
	}, nil
}

// matchRoute returns the first GTRoute (in declaration order) whose
// Prefix is a prefix of e164.
func (e *Engine) matchRoute(e164 string) (GTRoute, bool) {
	for _, r := range e.Routes {
		if strings.HasPrefix(e164, r.Prefix) {
			return r, true
		}
	}
	return GTRoute{}, false
}
