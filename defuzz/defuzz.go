// Package defuzz implements Center of Gravity and Mean of Maximum
// defuzzification. Both precompute a per-output-set table at set-creation
// time (and whenever the set's curve changes) so that a query is
// Θ(|output sets|) rather than Θ(X_COUNT · |output sets|).
package defuzz

import (
	"errors"

	"github.com/loian/fclfuzzy/grid"
)

// Method selects which defuzzification strategy an output variable uses.
type Method int

const (
	COG Method = iota
	MOM
)

func (m Method) String() string {
	switch m {
	case COG:
		return "CoG"
	case MOM:
		return "MoM"
	default:
		return "Unknown"
	}
}

// ErrNoOutput is returned when every output set was inactive (out_dom all
// zero) and no crisp value can be produced.
var ErrNoOutput = errors.New("defuzz: no output set is active")

// COGTable holds, for one output set, the area and moment accumulated up to
// each possible DOM level.
type COGTable struct {
	area   []float64
	moment []float64
}

// BuildCOGTable precomputes area[d] and moment[d] for d in [0, Y_MAX] from
// a set's rasterized samples, per spec §4.5.
func BuildCOGTable(samples []uint8, axis grid.AxisMap) *COGTable {
	yMax := axis.Resolution().YMax()
	area := make([]float64, yMax+1)
	moment := make([]float64, yMax+1)

	for d := 0; d <= yMax; d++ {
		var a, m float64
		for i, s := range samples {
			v := int(s)
			if v > d {
				v = d
			}
			a += float64(v)
			m += float64(i) * float64(v)
		}
		area[d] = a
		moment[d] = axis.Step() * m
	}
	return &COGTable{area: area, moment: moment}
}

// Area returns the precomputed area at DOM level d.
func (t *COGTable) Area(d int) float64 { return t.area[clampLevel(d, len(t.area))] }

// Moment returns the precomputed moment (about the variable's left edge)
// at DOM level d.
func (t *COGTable) Moment(d int) float64 { return t.moment[clampLevel(d, len(t.moment))] }

func clampLevel(d, n int) int {
	if d < 0 {
		return 0
	}
	if d >= n {
		return n - 1
	}
	return d
}

// MOMTable holds, for one output set, the precomputed crisp value midway
// between the first and last grid column sharing the set's maximum DOM.
type MOMTable struct {
	mean float64
}

// BuildMOMTable precomputes the mean-of-maximum value for a set's
// rasterized samples.
func BuildMOMTable(samples []uint8, axis grid.AxisMap) *MOMTable {
	var maxY uint8
	for _, s := range samples {
		if s > maxY {
			maxY = s
		}
	}
	first, last := -1, -1
	for i, s := range samples {
		if s == maxY {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if first == -1 {
		return &MOMTable{mean: axis.LeftX()}
	}
	midIdx := float64(first+last) / 2
	return &MOMTable{mean: axis.ValueOfFloat(midIdx)}
}

// Mean returns the set's precomputed mean-of-maximum crisp value.
func (t *MOMTable) Mean() float64 { return t.mean }

// COGValue sums area/moment across every active output set and returns
// left_x + M/A, or ErrNoOutput when no set is active.
func COGValue(outDom []uint8, tables []*COGTable, axis grid.AxisMap) (float64, error) {
	var area, moment float64
	active := false
	for k, d := range outDom {
		if d == 0 {
			continue
		}
		active = true
		area += tables[k].Area(int(d))
		moment += tables[k].Moment(int(d))
	}
	if !active || area == 0 {
		return 0, ErrNoOutput
	}
	return axis.LeftX() + moment/area, nil
}

// MOMValue returns the precomputed mean of the output set with the
// greatest out_dom, breaking ties by lowest set position.
func MOMValue(outDom []uint8, tables []*MOMTable) (float64, error) {
	best := -1
	var bestDOM uint8
	for k, d := range outDom {
		if d == 0 {
			continue
		}
		if best == -1 || d > bestDOM {
			best = k
			bestDOM = d
		}
	}
	if best == -1 {
		return 0, ErrNoOutput
	}
	return tables[best].Mean(), nil
}

// Value dispatches to COGValue or MOMValue by method.
func Value(method Method, outDom []uint8, cog []*COGTable, mom []*MOMTable, axis grid.AxisMap) (float64, error) {
	switch method {
	case COG:
		return COGValue(outDom, cog, axis)
	case MOM:
		return MOMValue(outDom, mom)
	default:
		return 0, ErrNoOutput
	}
}
