// Package sccp builds Signalling Connection Control Part envelopes: the
// connection-request (CR) that opens an SCCP connection and carries the
// Called Party SSN, and the data-transfer (DT1) that carries subsequent
// messages within an already-open connection. The process-wide Source
// Local Reference counter lives here as an explicit atomic counter
// rather than hidden package-level state, so tests can reset it.
package sccp

import (
	"sync/atomic"
)

// refWrap is 2^24: the SCCP Source Local Reference is a 24-bit field.
const refWrap = 1 << 24

// ProtocolClass2 is the only SCCP protocol class this system emits.
const ProtocolClass2 = 0x02

const (
	msgCR  = 0x01
	msgDT1 = 0x06

	ptrToCdPA   = 0x03
	cdPALen     = 0x02
	addrIndNoPC = 0x42 // SSN present, no point code
)

// LocalRefCounter is the process-wide, atomically-incremented 24-bit
// SCCP Source Local Reference allocator, starting at 0x000001.
type LocalRefCounter struct {
	next atomic.Uint32
}

// NewLocalRefCounter creates a counter whose first Allocate() returns 1.
func NewLocalRefCounter() *LocalRefCounter {
	c := &LocalRefCounter{}
	c.next.Store(1)
	return c
}

// Allocate returns the next 24-bit local reference and advances the
// counter, wrapping at 2^24.
func (c *LocalRefCounter) Allocate() uint32 {
	for {
		cur := c.next.Load()
		next := (cur + 1) % refWrap
		if c.next.CompareAndSwap(cur, next) {
			return cur
		}
	}
}

// Reset restores the counter to its initial value, for test determinism.
func (c *LocalRefCounter) Reset() {
	c.next.Store(1)
}

// EncodeCR builds an SCCP Connection Request carrying ssn as its Called
// Party Address SSN and bssapPayload as its user data.
func EncodeCR(localRef uint32, ssn byte, bssapPayload []byte) []byte {
	dataLen := len(bssapPayload)
	ptrToData := byte(5 + dataLen)

	out := make([]byte, 11+dataLen)
	out[0] = msgCR
	putRef24(out[1:4], localRef)
	out[4] = ProtocolClass2
	out[5] = ptrToCdPA
	out[6] = ptrToData
	out[7] = cdPALen
	out[8] = addrIndNoPC
	out[9] = ssn
	out[10] = byte(dataLen)
	copy(out[11:], bssapPayload)
	return out
}

// EncodeDT1 builds an SCCP Data Form 1 message keyed by the
// peer-allocated Destination Local Reference.
func EncodeDT1(destRef uint32, bssapPayload []byte) []byte {
	dataLen := len(bssapPayload)

	out := make([]byte, 6+dataLen)
	out[0] = msgDT1
	putRef24(out[1:4], destRef)
	out[4] = 0x00 // segmenting/reassembling: not used
	out[5] = byte(dataLen)
	copy(out[6:], bssapPayload)
	return out
}

// putRef24 writes a 24-bit local reference little-endian, unlike the
// big-endian integers everywhere else in the stack.
func putRef24(dst []byte, ref uint32) {
	dst[0] = byte(ref)
	dst[1] = byte(ref >> 8)
	dst[2] = byte(ref >> 16)
}
