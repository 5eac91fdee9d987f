// Package bssap builds Base Station Subsystem Application Part
// envelopes: DTAP pass-through of GSM 04.08, and the two BSSMAP
// management messages this system emits (Complete Layer 3 Information, Clear
// Command). Every function is a pure encoder: it consumes an immutable
// payload and returns a freshly allocated buffer.
package bssap

import (
	"github.com/protei/vmsc/pkg/l3"
)

const (
	dlci = 0x01

	bssmapComplL3 = 0x57
	bssmapClear   = 0x20
)

// EncodeDTAP wraps an L3 payload as BSSAP DTAP:
// [0x00, total_len, DLCI, l3_len, l3_bytes...].
func EncodeDTAP(l3Payload []byte) []byte {
	l3Len := len(l3Payload)
	out := make([]byte, 4+l3Len)
	out[0] = 0x00
	out[1] = byte(l3Len + 2)
	out[2] = dlci
	out[3] = byte(l3Len)
	copy(out[4:], l3Payload)
	return out
}

// EncodeCompleteL3 wraps an L3 payload as BSSMAP Complete Layer 3
// Information. The MCC/MNC octets are the fixed lab values
// 0x52 0xF0 0x99 regardless of the configured PLMN; callers that need
// the real PLMN packed use EncodeCompleteL3Dynamic.
func EncodeCompleteL3(lac, cellID uint16, l3Payload []byte) []byte {
	return encodeCompleteL3(0x52, 0xF0, 0x99, lac, cellID, l3Payload)
}

// EncodeCompleteL3Dynamic is the opt-in variant that packs the caller's
// MCC/MNC instead of the hard-coded lab values.
func EncodeCompleteL3Dynamic(mcc, mnc string, lac, cellID uint16, l3Payload []byte) ([]byte, error) {
	laiBytes, err := l3.PackLAI(mcc, mnc, lac)
	if err != nil {
		return nil, err
	}
	return encodeCompleteL3(laiBytes[0], laiBytes[1], laiBytes[2], lac, cellID, l3Payload), nil
}

func encodeCompleteL3(mccByte, mncMccByte, mncByte byte, lac, cellID uint16, l3Payload []byte) []byte {
	l3Len := len(l3Payload)
	// [0x00, len, 0x57, 0x05, 0x08, 0x01, MCC_12, MCC_3|MNC, MNC_21,
	//  LAC_hi, LAC_lo, CI_hi, CI_lo, 0x15, l3_len, l3_bytes...]
	body := make([]byte, 12+1+l3Len)
	i := 0
	body[i] = bssmapComplL3
	i++
	body[i] = 0x05
	i++
	body[i] = 0x08
	i++
	body[i] = 0x01
	i++
	body[i] = mccByte
	i++
	body[i] = mncMccByte
	i++
	body[i] = mncByte
	i++
	body[i] = byte(lac >> 8)
	i++
	body[i] = byte(lac)
	i++
	body[i] = byte(cellID >> 8)
	i++
	body[i] = byte(cellID)
	i++
	body[i] = 0x15
	i++
	body[i] = byte(l3Len)
	i++
	copy(body[i:], l3Payload)

	out := make([]byte, 2+len(body))
	out[0] = 0x00
	out[1] = byte(len(body))
	copy(out[2:], body)
	return out
}

// EncodeClearCommand emits a BSSMAP Clear Command carrying the given
// cause code: [0x00, 0x04, 0x20, 0x04, 0x01, cause].
func EncodeClearCommand(cause byte) []byte {
	return []byte{0x00, 0x04, bssmapClear, 0x04, 0x01, cause}
}
