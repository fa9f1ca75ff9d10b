// Package membership implements the discretized membership-function curves
// a fuzzy term is built from. Every variant is rasterized once, at
// construction or whenever a node moves, onto the variable's X-grid so that
// inference reduces to an array lookup rather than a function evaluation.
package membership

import (
	"fmt"

	"github.com/loian/fclfuzzy/grid"
)

// Kind names the four supported membership-function shapes.
type Kind int

const (
	Triangle Kind = iota
	Trapezoid
	SCurve
	Singleton
)

func (k Kind) String() string {
	switch k {
	case Triangle:
		return "Triangle"
	case Trapezoid:
		return "Trapezoid"
	case SCurve:
		return "SCurve"
	case Singleton:
		return "Singleton"
	default:
		return "Unknown"
	}
}

// Ramp records whether a term's first (Left) or last (Right) edge has been
// collapsed onto the domain boundary, producing an open-ended shoulder
// rather than a closed curve. Singleton terms are always NotApplicable.
type Ramp int

const (
	RampNone Ramp = iota
	RampLeft
	RampRight
	RampNotApplicable
)

// Node is one control point of a membership function, in grid coordinates:
// X is an X-grid index, Y is a DOM index in [0, Y_MAX].
type Node struct {
	X int
	Y int
}

// Function is a rasterized membership function: a fixed node sequence plus
// the sample array derived from it. The zero value is not valid; build one
// with NewTriangle, NewTrapezoid, NewSingleton, or NewSCurve.
type Function struct {
	kind    Kind
	nodes   []Node
	ramp    Ramp
	samples []uint8
}

// Kind reports which variant this function is.
func (f *Function) Kind() Kind { return f.kind }

// Nodes returns the function's control points. The slice must not be
// mutated by callers; use a constructor to build a new Function instead.
func (f *Function) Nodes() []Node { return f.nodes }

// Ramp reports whether either edge has been collapsed to the domain bound.
func (f *Function) Ramp() Ramp { return f.ramp }

// Samples returns the rasterized DOM-index array, one entry per X-grid
// column. The slice must not be mutated by callers.
func (f *Function) Samples() []uint8 { return f.samples }

// DOMAt returns the degree of membership (as a DOM index) at the given
// X-grid index. Indices outside [0, X_MAX] return 0.
func (f *Function) DOMAt(xIndex int) uint8 {
	if xIndex < 0 || xIndex >= len(f.samples) {
		return 0
	}
	return f.samples[xIndex]
}

// NewTriangle builds a 3-node Triangle term. Node x's must be non-decreasing
// and, per the data model, the y-values are fixed at {0, Y_MAX, 0} -
// callers supply only the x positions.
func NewTriangle(res grid.Resolution, x0, x1, x2 int, ramp Ramp) (*Function, error) {
	if err := checkNondecreasing(x0, x1, x2); err != nil {
		return nil, err
	}
	yMax := res.YMax()
	nodes := []Node{{x0, 0}, {x1, yMax}, {x2, 0}}
	f := &Function{kind: Triangle, nodes: nodes, ramp: ramp, samples: make([]uint8, res.XCount)}
	rasterizeLinear(f.samples, nodes)
	return f, nil
}

// NewTrapezoid builds a 4-node Trapezoid term. y-values are fixed at
// {0, Y_MAX, Y_MAX, 0}.
func NewTrapezoid(res grid.Resolution, x0, x1, x2, x3 int, ramp Ramp) (*Function, error) {
	if err := checkNondecreasing(x0, x1, x2, x3); err != nil {
		return nil, err
	}
	yMax := res.YMax()
	nodes := []Node{{x0, 0}, {x1, yMax}, {x2, yMax}, {x3, 0}}
	f := &Function{kind: Trapezoid, nodes: nodes, ramp: ramp, samples: make([]uint8, res.XCount)}
	rasterizeLinear(f.samples, nodes)
	return f, nil
}

// NewSingleton builds a 1-node Singleton term: the sample array is zero
// everywhere except at x, which holds Y_MAX.
func NewSingleton(res grid.Resolution, x int) (*Function, error) {
	if x < 0 || x > res.XMax() {
		return nil, fmt.Errorf("membership: singleton x index %d out of range [0, %d]", x, res.XMax())
	}
	nodes := []Node{{x, res.YMax()}}
	samples := make([]uint8, res.XCount)
	samples[x] = uint8(res.YMax())
	return &Function{kind: Singleton, nodes: nodes, ramp: RampNotApplicable, samples: samples}, nil
}

// NewSCurve builds a 7-node S-Curve term from explicit control points, as
// read verbatim from an FCL TERM literal (7 (x, y) pairs).
func NewSCurve(res grid.Resolution, nodes [7]Node) (*Function, error) {
	xs := make([]int, 7)
	for i, n := range nodes {
		xs[i] = n.X
	}
	if err := checkNondecreasing(xs...); err != nil {
		return nil, err
	}
	ns := append([]Node(nil), nodes[:]...)
	f := &Function{kind: SCurve, nodes: ns, ramp: RampNone, samples: make([]uint8, res.XCount)}
	rasterizeSCurve(f.samples, ns, res.YMax())
	return f, nil
}

// NewSCurveFromMidWidth derives the canonical 7-node S-Curve the way a
// programmatically-built term is shaped from just its peak and width: the
// anchor nodes sit at mid-width/2 and mid+width/2, y=0, the center node
// sits at the peak with y=Y_MAX, and the four interior nodes are placed at
// width/8 and width/4 in from each anchor with y presets of 1/4 and 3/4 of
// Y_MAX.
func NewSCurveFromMidWidth(res grid.Resolution, midX, width int) (*Function, error) {
	if width <= 0 {
		return nil, fmt.Errorf("membership: s-curve width must be > 0, got %d", width)
	}
	yMax := res.YMax()
	quarter := yMax / 4
	start := midX - width/2
	end := start + width

	var nodes [7]Node
	nodes[0] = Node{start, 0}
	nodes[3] = Node{midX, yMax}
	nodes[6] = Node{end, 0}
	nodes[1] = Node{start + width/8, quarter}
	nodes[2] = Node{start + width/4, quarter * 3}
	nodes[4] = Node{end - width/4, quarter * 3}
	nodes[5] = Node{end - width/8, quarter}

	return NewSCurve(res, nodes)
}

func checkNondecreasing(xs ...int) error {
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[i-1] {
			return fmt.Errorf("membership: node x's must be non-decreasing, got %v", xs)
		}
	}
	return nil
}

// rasterizeLinear fills samples for a sequence of piecewise-linear nodes
// (Triangle and Trapezoid): for each consecutive pair of nodes it computes
// the slope in DOM-index units and fills every grid column between them.
// Zero-width segments are degenerate and skipped.
func rasterizeLinear(samples []uint8, nodes []Node) {
	for i := range samples {
		samples[i] = 0
	}
	for s := 0; s < len(nodes)-1; s++ {
		x0, y0 := nodes[s].X, nodes[s].Y
		x1, y1 := nodes[s+1].X, nodes[s+1].Y
		if x1 == x0 {
			continue
		}
		slope := float64(y1-y0) / float64(x1-x0)
		lo, hi := x0, x1
		for x := lo; x <= hi; x++ {
			if x < 0 || x >= len(samples) {
				continue
			}
			y := float64(y0) + slope*float64(x-x0)
			samples[x] = clampDOM(y)
		}
	}
}

func clampDOM(y float64) uint8 {
	if y < 0 {
		return 0
	}
	if y > 255 {
		return 255
	}
	return uint8(y)
}
