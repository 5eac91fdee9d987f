package mobility

import (
	"errors"
	"testing"

	"github.com/protei/vmsc/pkg/vmscerr"
)

func TestInitiateThenAlreadyInProgress(t *testing.T) {
	m := NewManager()
	if err := m.Initiate("1", "100", "200"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Initiate("1", "100", "300"); !errors.Is(err, vmscerr.ErrAlreadyInProgress) {
		t.Fatalf("expected AlreadyInProgress, got %v", err)
	}
}

func TestCompleteRemovesHandover(t *testing.T) {
	m := NewManager()
	m.Initiate("1", "100", "200")
	if err := m.Complete("1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.InProgress("1") {
		t.Fatal("expected handover to no longer be in progress")
	}
}

func TestCompleteNotFound(t *testing.T) {
	m := NewManager()
	if err := m.Complete("ghost"); !errors.Is(err, vmscerr.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestInitiateAgainAfterComplete(t *testing.T) {
	m := NewManager()
	m.Initiate("1", "100", "200")
	m.Complete("1")
	if err := m.Initiate("1", "200", "300"); err != nil {
		t.Fatalf("expected a fresh handover to be initiable after completion, got %v", err)
	}
}
