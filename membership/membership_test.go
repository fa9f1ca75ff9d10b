package membership

import (
	"testing"

	"github.com/loian/fclfuzzy/grid"
)

func defaultRes(t *testing.T) grid.Resolution {
	t.Helper()
	return grid.DefaultResolution()
}

// ===== Triangle =====

func TestTrianglePeak(t *testing.T) {
	res := defaultRes(t)
	tri, err := NewTriangle(res, 0, 50, 100, RampNone)
	if err != nil {
		t.Fatalf("NewTriangle: %v", err)
	}
	if got := tri.DOMAt(50); int(got) != res.YMax() {
		t.Errorf("expected Y_MAX at peak, got %d", got)
	}
}

func TestTriangleZeroAtEndpoints(t *testing.T) {
	res := defaultRes(t)
	tri, _ := NewTriangle(res, 0, 50, 100, RampNone)
	if tri.DOMAt(0) != 0 {
		t.Errorf("expected 0 at left endpoint, got %d", tri.DOMAt(0))
	}
	if tri.DOMAt(100) != 0 {
		t.Errorf("expected 0 at right endpoint, got %d", tri.DOMAt(100))
	}
}

func TestTriangleMidSlope(t *testing.T) {
	res := defaultRes(t)
	tri, _ := NewTriangle(res, 0, 100, 200, RampNone)
	half := uint8(res.YMax() / 2)
	if got := tri.DOMAt(50); got < half-1 || got > half+1 {
		t.Errorf("expected ~half of Y_MAX at midpoint of left slope, got %d", got)
	}
}

func TestTriangleOutsideGridIsZero(t *testing.T) {
	res := defaultRes(t)
	tri, _ := NewTriangle(res, 0, 50, 100, RampNone)
	if tri.DOMAt(-1) != 0 || tri.DOMAt(res.XCount) != 0 {
		t.Errorf("expected 0 outside grid bounds")
	}
}

func TestTriangleRejectsDecreasingNodes(t *testing.T) {
	res := defaultRes(t)
	if _, err := NewTriangle(res, 50, 10, 100, RampNone); err == nil {
		t.Errorf("expected error for non-monotonic nodes")
	}
}

// ===== Trapezoid =====

func TestTrapezoidPlateau(t *testing.T) {
	res := defaultRes(t)
	trap, err := NewTrapezoid(res, 0, 20, 80, 100, RampNone)
	if err != nil {
		t.Fatalf("NewTrapezoid: %v", err)
	}
	for _, x := range []int{20, 50, 80} {
		if got := int(trap.DOMAt(x)); got != res.YMax() {
			t.Errorf("expected Y_MAX on plateau at %d, got %d", x, got)
		}
	}
}

func TestTrapezoidSlopes(t *testing.T) {
	res := defaultRes(t)
	trap, _ := NewTrapezoid(res, 0, 20, 80, 100, RampNone)
	if trap.DOMAt(0) != 0 {
		t.Errorf("expected 0 at left edge")
	}
	if trap.DOMAt(100) != 0 {
		t.Errorf("expected 0 at right edge")
	}
}

// ===== Singleton =====

func TestSingleton(t *testing.T) {
	res := defaultRes(t)
	s, err := NewSingleton(res, 40)
	if err != nil {
		t.Fatalf("NewSingleton: %v", err)
	}
	if int(s.DOMAt(40)) != res.YMax() {
		t.Errorf("expected Y_MAX at node, got %d", s.DOMAt(40))
	}
	if s.DOMAt(39) != 0 || s.DOMAt(41) != 0 {
		t.Errorf("expected 0 everywhere else")
	}
	if s.Ramp() != RampNotApplicable {
		t.Errorf("expected singleton ramp to be NotApplicable")
	}
}

func TestSingletonRejectsOutOfRange(t *testing.T) {
	res := defaultRes(t)
	if _, err := NewSingleton(res, -1); err == nil {
		t.Errorf("expected error for negative index")
	}
	if _, err := NewSingleton(res, res.XCount); err == nil {
		t.Errorf("expected error for index past X_MAX")
	}
}

// ===== S-Curve =====

func TestSCurveEndpointsAreZero(t *testing.T) {
	res := defaultRes(t)
	sc, err := NewSCurveFromMidWidth(res, 100, 80)
	if err != nil {
		t.Fatalf("NewSCurveFromMidWidth: %v", err)
	}
	nodes := sc.Nodes()
	if got := sc.DOMAt(nodes[0].X); got != 0 {
		t.Errorf("expected 0 at left anchor, got %d", got)
	}
	if got := sc.DOMAt(nodes[6].X); got != 0 {
		t.Errorf("expected 0 at right anchor, got %d", got)
	}
}

func TestSCurvePeakIsYMax(t *testing.T) {
	res := defaultRes(t)
	sc, _ := NewSCurveFromMidWidth(res, 100, 80)
	nodes := sc.Nodes()
	if got := int(sc.DOMAt(nodes[3].X)); got != res.YMax() {
		t.Errorf("expected Y_MAX at midpoint node, got %d", got)
	}
}

func TestSCurveMonotonicOnRisingEdge(t *testing.T) {
	res := defaultRes(t)
	sc, _ := NewSCurveFromMidWidth(res, 100, 80)
	nodes := sc.Nodes()
	prev := sc.DOMAt(nodes[0].X)
	for x := nodes[0].X + 1; x <= nodes[3].X; x++ {
		cur := sc.DOMAt(x)
		if cur < prev {
			t.Errorf("expected non-decreasing DOM on rising edge at x=%d: %d -> %d", x, prev, cur)
		}
		prev = cur
	}
}

func TestSCurveRejectsDecreasingNodes(t *testing.T) {
	res := defaultRes(t)
	var nodes [7]Node
	nodes[0] = Node{60, 0}
	nodes[1] = Node{70, 25}
	nodes[2] = Node{80, 75}
	nodes[3] = Node{50, 100}
	nodes[4] = Node{120, 75}
	nodes[5] = Node{130, 25}
	nodes[6] = Node{140, 0}
	if _, err := NewSCurve(res, nodes); err == nil {
		t.Errorf("expected error for non-monotonic s-curve nodes")
	}
}

// ===== Kind stringer =====

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		Triangle:  "Triangle",
		Trapezoid: "Trapezoid",
		SCurve:    "SCurve",
		Singleton: "Singleton",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %s, want %s", k, got, want)
		}
	}
}
