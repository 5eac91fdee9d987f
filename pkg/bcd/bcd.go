// Package bcd packs and unpacks decimal digit strings to/from the
// half-byte BCD encoding used throughout GSM signaling for IMSI, MSISDN,
// and E.164 Global Title digits.
package bcd

import (
	"github.com/protei/vmsc/pkg/vmscerr"
)

// filler is the GSM BCD odd-length padding nibble.
const filler = 0x0F

// Encode packs a decimal digit string two digits per byte, low nibble
// first. If the digit count is odd, the high nibble of the last byte is
// the filler nibble 0xF.
func Encode(digits string) ([]byte, error) {
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return nil, vmscerr.New(vmscerr.KindInvalidDigit, "digit %q at position %d is not 0-9", digits[i], i)
		}
	}

	out := make([]byte, (len(digits)+1)/2)
	for i := 0; i < len(digits); i++ {
		nibble := digits[i] - '0'
		byteIdx := i / 2
		if i%2 == 0 {
			out[byteIdx] = nibble
		} else {
			out[byteIdx] |= nibble << 4
		}
	}
	if len(digits)%2 != 0 {
		out[len(out)-1] |= filler << 4
	}
	return out, nil
}

// Decode unpacks a BCD byte sequence back into a decimal digit string,
// reading the low nibble then the high nibble of each byte and stopping
// at the first nibble greater than 9 (filler/end).
func Decode(data []byte) string {
	digits := make([]byte, 0, len(data)*2)
	for _, b := range data {
		low := b & 0x0F
		high := (b >> 4) & 0x0F
		if low > 9 {
			break
		}
		digits = append(digits, '0'+low)
		if high > 9 {
			break
		}
		digits = append(digits, '0'+high)
	}
	return string(digits)
}
