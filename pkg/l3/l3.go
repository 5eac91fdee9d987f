// Package l3 decodes and classifies GSM 04.08 Layer 3 Mobility
// Management / Radio Resource messages, producing a structured report
// without mutating the input buffer.
package l3

import (
	"encoding/binary"

	"github.com/protei/vmsc/pkg/bcd"
	"github.com/protei/vmsc/pkg/vmscerr"
)

// Protocol Discriminator values.
const (
	PDMM Protocol = 0x05
	PDRR Protocol = 0x06
)

// Message Type for MM Location Updating Request.
const MTLocationUpdatingRequest = 0x08

// Mobile identity types.
const (
	IdentityTMSI IdentityType = 0
	IdentityIMSI IdentityType = 1
)

type Protocol byte
type IdentityType byte

// LAI is a decoded Location Area Identity.
type LAI struct {
	MCC string
	MNC string
	LAC uint16
}

// Identity is a decoded Mobile Identity.
type Identity struct {
	Type IdentityType
	IMSI string // valid when Type == IdentityIMSI
	TMSI uint32 // valid when Type == IdentityTMSI
}

// Report is the structured record produced by Inspect for a Location
// Updating Request. No other message type is decoded beyond the header.
type Report struct {
	PD       Protocol
	MT       byte
	CKSN     byte
	LUType   byte
	LAI      LAI
	Identity Identity
}

// Inspect parses the 1-octet PD/MT header and, for MM Location Updating
// Request, the CKSN/LU-type byte, LAI, and Mobile Identity that follow.
func Inspect(data []byte) (*Report, error) {
	if len(data) < 2 {
		return nil, vmscerr.New(vmscerr.KindInvalidMessage, "l3 message too short: %d bytes", len(data))
	}

	r := &Report{
		PD: Protocol(data[0] & 0x0F),
		MT: data[1],
	}

	if r.PD != PDMM || r.MT != MTLocationUpdatingRequest {
		return r, nil
	}

	if len(data) < 3+5+1 {
		return nil, vmscerr.New(vmscerr.KindInvalidMessage, "location updating request truncated: %d bytes", len(data))
	}

	r.CKSN = (data[2] >> 4) & 0x07
	r.LUType = data[2] & 0x0F

	lai, err := UnpackLAI(data[3:8])
	if err != nil {
		return nil, err
	}
	r.LAI = *lai

	ident, err := decodeMobileIdentity(data[8:])
	if err != nil {
		return nil, err
	}
	r.Identity = *ident

	return r, nil
}

// PackLAI encodes MCC/MNC/LAC into the 5-octet LAI wire format: octet0 =
// MCC2|MCC1, octet1 = MNC3(or filler)|MCC3, octet2 = MNC2|MNC1, octets3-4
// = LAC big-endian.
func PackLAI(mcc, mnc string, lac uint16) ([]byte, error) {
	if len(mcc) != 3 {
		return nil, vmscerr.New(vmscerr.KindInvalidConfig, "MCC must be 3 digits, got %q", mcc)
	}
	if len(mnc) != 2 && len(mnc) != 3 {
		return nil, vmscerr.New(vmscerr.KindInvalidConfig, "MNC must be 2 or 3 digits, got %q", mnc)
	}
	for _, c := range mcc + mnc {
		if c < '0' || c > '9' {
			return nil, vmscerr.New(vmscerr.KindInvalidDigit, "MCC/MNC contain non-digit %q", c)
		}
	}

	out := make([]byte, 5)
	out[0] = (mcc[0] - '0') | ((mcc[1] - '0') << 4)
	mcc3 := mcc[2] - '0'
	if len(mnc) == 2 {
		out[1] = mcc3 | (0x0F << 4)
	} else {
		out[1] = mcc3 | ((mnc[2] - '0') << 4)
	}
	out[2] = (mnc[0] - '0') | ((mnc[1] - '0') << 4)
	binary.BigEndian.PutUint16(out[3:5], lac)
	return out, nil
}

// UnpackLAI decodes a 5-octet LAI into MCC/MNC/LAC.
func UnpackLAI(data []byte) (*LAI, error) {
	if len(data) < 5 {
		return nil, vmscerr.New(vmscerr.KindInvalidMessage, "LAI requires 5 octets, got %d", len(data))
	}

	mcc := string([]byte{
		'0' + (data[0] & 0x0F),
		'0' + ((data[0] >> 4) & 0x0F),
		'0' + (data[1] & 0x0F),
	})

	mnc3 := (data[1] >> 4) & 0x0F
	var mnc string
	if mnc3 == 0x0F {
		mnc = string([]byte{
			'0' + (data[2] & 0x0F),
			'0' + ((data[2] >> 4) & 0x0F),
		})
	} else {
		mnc = string([]byte{
			'0' + (data[2] & 0x0F),
			'0' + ((data[2] >> 4) & 0x0F),
			'0' + mnc3,
		})
	}

	lac := binary.BigEndian.Uint16(data[3:5])
	return &LAI{MCC: mcc, MNC: mnc, LAC: lac}, nil
}

// decodeMobileIdentity parses a length-prefixed Mobile Identity IE.
func decodeMobileIdentity(data []byte) (*Identity, error) {
	if len(data) < 1 {
		return nil, vmscerr.New(vmscerr.KindInvalidMessage, "mobile identity missing length octet")
	}
	length := int(data[0])
	if len(data) < 1+length || length < 1 {
		return nil, vmscerr.New(vmscerr.KindInvalidMessage, "mobile identity truncated")
	}
	value := data[1 : 1+length]

	idType := IdentityType(value[0] & 0x07)

	switch idType {
	case IdentityIMSI:
		firstDigit := (value[0] >> 4) & 0x0F
		rest := bcd.Decode(value[1:])
		imsi := string([]byte{'0' + firstDigit}) + rest
		return &Identity{Type: IdentityIMSI, IMSI: imsi}, nil
	default:
		if len(value) < 5 {
			return nil, vmscerr.New(vmscerr.KindInvalidMessage, "TMSI identity truncated")
		}
		tmsi := binary.BigEndian.Uint32(value[1:5])
		return &Identity{Type: IdentityTMSI, TMSI: tmsi}, nil
	}
}
