package subscriber

import (
	"errors"
	"testing"

	"github.com/protei/vmsc/pkg/vmscerr"
)

func TestAddRejectsDuplicate(t *testing.T) {
	m := NewManager()
	if err := m.Add("250990123456789", "79991234567"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := m.Add("250990123456789", "79991234567")
	if !errors.Is(err, vmscerr.ErrDuplicateIMSI) {
		t.Fatalf("expected DuplicateIMSI, got %v", err)
	}
}

func TestAuthenticateActivates(t *testing.T) {
	m := NewManager()
	m.Add("1", "2")
	if m.IsActive("1") {
		t.Fatal("expected newly added subscriber to be inactive")
	}
	if err := m.Authenticate("1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsActive("1") {
		t.Fatal("expected subscriber to be active after authenticate")
	}
}

func TestAuthenticateNotFound(t *testing.T) {
	m := NewManager()
	if err := m.Authenticate("ghost"); !errors.Is(err, vmscerr.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestUpdateLocation(t *testing.T) {
	m := NewManager()
	m.Add("1", "2")
	if err := m.UpdateLocation("1", "12345"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := m.Get("1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Location != "12345" {
		t.Fatalf("expected location 12345, got %q", s.Location)
	}
}

func TestUpdateLocationNotFound(t *testing.T) {
	m := NewManager()
	if err := m.UpdateLocation("ghost", "1"); !errors.Is(err, vmscerr.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestIsActiveUnknownIMSIIsFalse(t *testing.T) {
	m := NewManager()
	if m.IsActive("ghost") {
		t.Fatal("expected unknown IMSI to report inactive")
	}
}
