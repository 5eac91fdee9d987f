package bssap

import "testing"

func TestEncodeDTAP(t *testing.T) {
	l3Payload := []byte{0x05, 0x08, 0x01, 0x02, 0x03}
	out := EncodeDTAP(l3Payload)

	if out[1] != out[3]+2 {
		t.Fatalf("DTAP invariant byte[1]==byte[3]+2 violated: %d != %d+2", out[1], out[3])
	}
	if out[0] != 0x00 || out[2] != dlci {
		t.Fatalf("unexpected DTAP header: % X", out)
	}
	if int(out[3]) != len(l3Payload) {
		t.Fatalf("l3_len field = %d, want %d", out[3], len(l3Payload))
	}
}

func TestEncodeClearCommand(t *testing.T) {
	got := EncodeClearCommand(0x09)
	want := []byte{0x00, 0x04, 0x20, 0x04, 0x01, 0x09}
	if string(got) != string(want) {
		t.Fatalf("EncodeClearCommand(0x09) = % X, want % X", got, want)
	}
}

func TestEncodeCompleteL3(t *testing.T) {
	l3Payload := []byte{0xAA, 0xBB}
	out := EncodeCompleteL3(12345, 1, l3Payload)

	if out[0] != 0x00 {
		t.Fatalf("expected leading 0x00, got 0x%02X", out[0])
	}
	if int(out[1]) != len(out)-2 {
		t.Fatalf("len field = %d, want %d", out[1], len(out)-2)
	}
	if out[2] != 0x57 || out[3] != 0x05 || out[4] != 0x08 || out[5] != 0x01 {
		t.Fatalf("unexpected BSSMAP Complete L3 header: % X", out[2:6])
	}
	// hard-coded lab MCC/MNC preserved regardless of arguments
	if out[6] != 0x52 || out[7] != 0xF0 || out[8] != 0x99 {
		t.Fatalf("expected hard-coded MCC/MNC 0x52 0xF0 0x99, got % X", out[6:9])
	}
	if out[9] != 0x30 || out[10] != 0x39 {
		t.Fatalf("expected LAC 12345 big-endian, got % X", out[9:11])
	}
	if out[13] != 0x15 {
		t.Fatalf("expected 0x15 marker, got 0x%02X", out[13])
	}
	if int(out[14]) != len(l3Payload) {
		t.Fatalf("l3_len = %d, want %d", out[14], len(l3Payload))
	}
}

func TestEncodeCompleteL3Dynamic(t *testing.T) {
	out, err := EncodeCompleteL3Dynamic("310", "410", 12345, 1, []byte{0xAA})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 310/410 packs differently from the fixed lab PLMN, proving the
	// dynamic path uses the caller's values.
	if out[6] != 0x13 || out[7] != 0x00 || out[8] != 0x14 {
		t.Fatalf("expected packed MCC/MNC 0x13 0x00 0x14, got % X", out[6:9])
	}
}
