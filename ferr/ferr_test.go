package ferr

import (
	"errors"
	"strings"
	"testing"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(NonUniqueId, "Hot")
	if !Is(err, NonUniqueId) {
		t.Errorf("expected Is to match NonUniqueId")
	}
	if Is(err, SameLeftRight) {
		t.Errorf("expected Is to not match SameLeftRight")
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(FileOpen, "model.fcl", cause)
	if !errors.Is(err, cause) {
		t.Errorf("expected errors.Is to see through the wrap")
	}
	if !Is(err, FileOpen) {
		t.Errorf("expected Is to match FileOpen")
	}
}

func TestErrorMessageIncludesIdentifier(t *testing.T) {
	err := New(CantDeleteOutput, "Aggressiveness")
	msg := err.Error()
	if msg == "" {
		t.Fatalf("expected non-empty message")
	}
	if !strings.Contains(msg, "Aggressiveness") {
		t.Errorf("expected message to include the identifier, got %q", msg)
	}
}
