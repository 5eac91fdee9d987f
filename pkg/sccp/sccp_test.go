package sccp

import "testing"

func TestEncodeCR(t *testing.T) {
	bssap := make([]byte, 10)
	out := EncodeCR(1, 254, bssap)

	want := []byte{0x01, 0x01, 0x00, 0x00, 0x02, 0x03, 0x0F, 0x02, 0x42, 0xFE, 0x0A}
	if string(out[:11]) != string(want) {
		t.Fatalf("CR header = % X, want % X", out[:11], want)
	}
}

func TestEncodeDT1(t *testing.T) {
	bssap := []byte{0xAA, 0xBB, 0xCC}
	out := EncodeDT1(7, bssap)

	if out[0] != msgDT1 {
		t.Fatalf("expected DT1 type 0x06, got 0x%02X", out[0])
	}
	if out[1] != 7 || out[2] != 0 || out[3] != 0 {
		t.Fatalf("DLR mismatch: % X", out[1:4])
	}
	if out[4] != 0x00 {
		t.Fatalf("expected SegReassm 0x00, got 0x%02X", out[4])
	}
	if int(out[5]) != len(bssap) {
		t.Fatalf("data_len = %d, want %d", out[5], len(bssap))
	}
}

func TestLocalRefCounterMonotonic(t *testing.T) {
	c := NewLocalRefCounter()
	prev := c.Allocate()
	for i := 0; i < 1000; i++ {
		next := c.Allocate()
		if next != prev+1 {
			t.Fatalf("local ref not strictly increasing: %d -> %d", prev, next)
		}
		prev = next
	}
}

func TestLocalRefCounterWraps(t *testing.T) {
	c := NewLocalRefCounter()
	c.next.Store(refWrap - 1)
	got := c.Allocate()
	if got != refWrap-1 {
		t.Fatalf("expected final pre-wrap value %d, got %d", refWrap-1, got)
	}
	next := c.Allocate()
	if next != 0 {
		t.Fatalf("expected wrap to 0, got %d", next)
	}
}

func TestLocalRefCounterReset(t *testing.T) {
	c := NewLocalRefCounter()
	c.Allocate()
	c.Allocate()
	c.Reset()
	if got := c.Allocate(); got != 1 {
		t.Fatalf("after Reset, expected first Allocate()==1, got %d", got)
	}
}
