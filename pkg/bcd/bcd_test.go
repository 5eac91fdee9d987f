package bcd

import (
	"testing"

	"github.com/protei/vmsc/pkg/vmscerr"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []byte
	}{
		{"odd length", "12345", []byte{0x21, 0x43, 0xF5}},
		{"even length", "1234", []byte{0x21, 0x43}},
		{"single digit", "7", []byte{0xF7}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Encode(c.in)
			if err != nil {
				t.Fatalf("Encode(%q) returned error: %v", c.in, err)
			}
			if string(got) != string(c.want) {
				t.Fatalf("Encode(%q) = % X, want % X", c.in, got, c.want)
			}
		})
	}
}

func TestEncodeInvalidDigit(t *testing.T) {
	_, err := Encode("12a45")
	if err == nil {
		t.Fatal("expected error for non-digit input")
	}
	if !errorsIs(err, vmscerr.KindInvalidDigit) {
		t.Fatalf("expected InvalidDigit kind, got %v", err)
	}
}

func errorsIs(err error, kind vmscerr.Kind) bool {
	ve, ok := err.(*vmscerr.Error)
	return ok && ve.Kind == kind
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want string
	}{
		{"odd length", []byte{0x21, 0x43, 0xF5}, "12345"},
		{"even length", []byte{0x21, 0x43}, "1234"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Decode(c.in)
			if got != c.want {
				t.Fatalf("Decode(% X) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{"1", "12", "123", "1234", "12345", "001234567890123", "99999999999999"}
	for _, d := range inputs {
		encoded, err := Encode(d)
		if err != nil {
			t.Fatalf("Encode(%q) failed: %v", d, err)
		}
		decoded := Decode(encoded)
		if decoded != d {
			t.Fatalf("round trip mismatch: Encode/Decode(%q) = %q", d, decoded)
		}
	}
}
