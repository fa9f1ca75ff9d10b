// Package grid defines the two sampling resolutions a fuzzy model is built
// on and the affine map between a variable's continuous domain and the
// discrete X-grid indices membership functions are rasterized onto.
package grid

import (
	"fmt"
	"math"
)

// Default resolutions, matching the values the FCL engine this module
// descends from has always shipped with.
const (
	DefaultXCount = 201
	DefaultYCount = 101
)

// Resolution holds the two process-wide (or, here, per-model) sampling
// counts: how many points the domain X-axis is split into, and how many
// degree-of-membership levels the Y-axis is split into.
type Resolution struct {
	XCount int
	YCount int
}

// DefaultResolution returns the library's default grid sizing.
func DefaultResolution() Resolution {
	return Resolution{XCount: DefaultXCount, YCount: DefaultYCount}
}

// NewResolution validates and builds a Resolution. Both counts must be at
// least 2 (an axis needs at least two samples to have a direction) and the
// Y-axis count must fit in a DOM index representable by a single byte, since
// membership sample arrays and per-output-set DOMs are stored as uint8.
func NewResolution(xCount, yCount int) (Resolution, error) {
	if xCount < 2 {
		return Resolution{}, fmt.Errorf("grid: x_count must be >= 2, got %d", xCount)
	}
	if yCount < 2 {
		return Resolution{}, fmt.Errorf("grid: y_count must be >= 2, got %d", yCount)
	}
	if yCount > 256 {
		return Resolution{}, fmt.Errorf("grid: y_count must be <= 256 (DOM index must fit a byte), got %d", yCount)
	}
	return Resolution{XCount: xCount, YCount: yCount}, nil
}

// XMax is the highest valid X-grid index.
func (r Resolution) XMax() int { return r.XCount - 1 }

// YMax is the highest valid DOM index (the degree-of-membership "1.0").
func (r Resolution) YMax() int { return r.YCount - 1 }

// AxisMap is the per-variable affine mapping between a continuous domain
// value and an X-grid index. left_x == right_x is forbidden (SameLeftRight);
// left_x > right_x (a decreasing axis) is permitted.
type AxisMap struct {
	res           Resolution
	leftX, rightX float64
	step          float64
}

// NewAxisMap builds the index<->value mapping for one variable's domain.
func NewAxisMap(res Resolution, leftX, rightX float64) (AxisMap, error) {
	if leftX == rightX {
		return AxisMap{}, fmt.Errorf("grid: left_x and right_x must differ, both are %g", leftX)
	}
	return AxisMap{
		res:    res,
		leftX:  leftX,
		rightX: rightX,
		step:   (rightX - leftX) / float64(res.XMax()),
	}, nil
}

// Resolution returns the grid resolution this map was built with.
func (m AxisMap) Resolution() Resolution { return m.res }

// LeftX returns the domain's left endpoint.
func (m AxisMap) LeftX() float64 { return m.leftX }

// RightX returns the domain's right endpoint.
func (m AxisMap) RightX() float64 { return m.rightX }

// Step returns the value-per-grid-column spacing ((right_x-left_x)/X_MAX).
func (m AxisMap) Step() float64 { return m.step }

// ValueOf maps a grid index (not required to be in range) to a domain value.
func (m AxisMap) ValueOf(i int) float64 {
	return m.ValueOfFloat(float64(i))
}

// ValueOfFloat is ValueOf but accepts a fractional index, used by MOM to
// locate the midpoint between two node indices.
func (m AxisMap) ValueOfFloat(i float64) float64 {
	return m.leftX + i*m.step
}

// IndexOf maps a domain value to the nearest grid index, clamped into
// [0, X_MAX]. Clamping is silent per the domain-map contract: it is never
// reported as an error.
func (m AxisMap) IndexOf(v float64) int {
	idx := int(math.Round((v - m.leftX) / m.step))
	return clamp(idx, 0, m.res.XMax())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
