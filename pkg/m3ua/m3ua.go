// Package m3ua frames an SCCP or ISUP payload as an M3UA DATA message:
// an 8-byte common header plus a Protocol Data parameter carrying the
// MTP3 routing label (OPC/DPC/SI/NI/MP/SLS), zero-padded to a 4-byte
// boundary. All multi-byte integers here are big-endian.
package m3ua

import "encoding/binary"

const (
	version          = 0x01
	reserved         = 0x00
	msgClassTransfer = 0x01
	msgTypeData      = 0x01

	protocolDataTag = 0x0210

	commonHeaderLen = 8
)

// RoutingLabel carries the MTP3-level addressing for an outbound M3UA
// DATA message.
type RoutingLabel struct {
	OPC uint32
	DPC uint32
	SI  byte
	NI  byte
	MP  byte
	SLS byte
}

// Encode builds a complete M3UA DATA message wrapping payload with the
// given routing label, padding the payload to a 4-byte boundary.
func Encode(label RoutingLabel, payload []byte) []byte {
	// Protocol Data parameter value: OPC+DPC+SI+NI+MP+SLS+payload.
	valueLen := 4 + 4 + 1 + 1 + 1 + 1 + len(payload)
	paramLen := 4 + valueLen // Tag(2)+Length(2)+value

	padding := (4 - (paramLen % 4)) % 4
	msgLen := commonHeaderLen + paramLen + padding

	out := make([]byte, msgLen)

	out[0] = version
	out[1] = reserved
	out[2] = msgClassTransfer
	out[3] = msgTypeData
	binary.BigEndian.PutUint32(out[4:8], uint32(msgLen))

	binary.BigEndian.PutUint16(out[8:10], protocolDataTag)
	binary.BigEndian.PutUint16(out[10:12], uint16(paramLen))
	binary.BigEndian.PutUint32(out[12:16], label.OPC)
	binary.BigEndian.PutUint32(out[16:20], label.DPC)
	out[20] = label.SI
	out[21] = label.NI
	out[22] = label.MP
	out[23] = label.SLS
	copy(out[24:24+len(payload)], payload)
	// Remaining bytes (padding) are already zero from make().

	return out
}
