package set

import (
	"testing"

	"github.com/loian/fclfuzzy/grid"
	"github.com/loian/fclfuzzy/membership"
)

func TestNew(t *testing.T) {
	res := grid.DefaultResolution()
	fn, err := membership.NewTriangle(res, 0, 50, 100, membership.RampNone)
	if err != nil {
		t.Fatalf("NewTriangle: %v", err)
	}
	s, err := New("Warm", fn)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.ID() != "Warm" {
		t.Errorf("expected id Warm, got %s", s.ID())
	}
	if s.Func() == nil {
		t.Errorf("expected non-nil membership function")
	}
}

func TestNewRejectsEmptyID(t *testing.T) {
	res := grid.DefaultResolution()
	fn, _ := membership.NewTriangle(res, 0, 50, 100, membership.RampNone)
	if _, err := New("", fn); err == nil {
		t.Errorf("expected error for empty id")
	}
}

func TestNewRejectsNilFunc(t *testing.T) {
	if _, err := New("Warm", nil); err == nil {
		t.Errorf("expected error for nil membership function")
	}
}

func TestDOMAtMatchesFunc(t *testing.T) {
	res := grid.DefaultResolution()
	fn, _ := membership.NewTriangle(res, 0, 50, 100, membership.RampNone)
	s, _ := New("Warm", fn)
	for _, i := range []int{0, 25, 50, 75, 100} {
		if got, want := s.DOMAt(i), fn.DOMAt(i); got != want {
			t.Errorf("DOMAt(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestPositionAndRuleStrideMutators(t *testing.T) {
	res := grid.DefaultResolution()
	fn, _ := membership.NewTriangle(res, 0, 50, 100, membership.RampNone)
	s, _ := New("Warm", fn)

	s.SetPosition(2)
	if s.Position() != 2 {
		t.Errorf("expected position 2, got %d", s.Position())
	}

	s.SetRuleStride(30)
	if s.RuleStride() != 30 {
		t.Errorf("expected rule stride 30, got %d", s.RuleStride())
	}
}

func TestRename(t *testing.T) {
	res := grid.DefaultResolution()
	fn, _ := membership.NewTriangle(res, 0, 50, 100, membership.RampNone)
	s, _ := New("Warm", fn)
	s.Rename("Copy of Warm")
	if s.ID() != "Copy of Warm" {
		t.Errorf("expected renamed id, got %s", s.ID())
	}
}
