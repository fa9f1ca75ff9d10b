package membership

// rasterizeSCurve fills samples for a 7-node S-Curve using Catmull-Rom
// interpolation with the standard (uniform) coefficients over the six
// consecutive 4-tuples of control points (with endpoint duplication),
// matching the construction used by the FCL engine this module descends
// from:
//
//	(n0,n0,n1,n2) (n0,n1,n2,n3) (n1,n2,n3,n4) (n2,n3,n4,n5) (n3,n4,n5,n6) (n4,n5,n6,n6)
//
// Each segment is walked forward in t from a step of 0.01, advancing until
// the interpolated x crosses the next grid column; if a step lands past the
// column after that one, the step is rolled back and shrunk (by 0.001 while
// it is above 0.001, then by 0.0005) and retried. A segment whose step
// shrinks to zero is abandoned where it stands.
func rasterizeSCurve(samples []uint8, nodes []Node, yMax int) {
	for i := range samples {
		samples[i] = 0
	}
	calcCurveSegment(samples, yMax, nodes[0], nodes[0], nodes[1], nodes[2])
	calcCurveSegment(samples, yMax, nodes[0], nodes[1], nodes[2], nodes[3])
	calcCurveSegment(samples, yMax, nodes[1], nodes[2], nodes[3], nodes[4])
	calcCurveSegment(samples, yMax, nodes[2], nodes[3], nodes[4], nodes[5])
	calcCurveSegment(samples, yMax, nodes[3], nodes[4], nodes[5], nodes[6])
	calcCurveSegment(samples, yMax, nodes[4], nodes[5], nodes[6], nodes[6])
}

// calcCurveSegment rasterizes the portion of the curve from p2 (whose own
// column is written first) up to p3 (the curve passes through p2 at t=0 and
// p3 at t=1), using p1 and p4
// as the neighboring control points Catmull-Rom needs for its tangents.
func calcCurveSegment(samples []uint8, yMax int, p1, p2, p3, p4 Node) {
	// A degenerate vertical drop with no x movement has nothing to sample.
	if p3.X == p2.X && p3.Y < p2.Y {
		return
	}

	ax := 0.5 * (-f64(p1.X) + 3*f64(p2.X) - 3*f64(p3.X) + f64(p4.X))
	bx := 0.5 * (2*f64(p1.X) - 5*f64(p2.X) + 4*f64(p3.X) - f64(p4.X))
	cx := 0.5 * (-f64(p1.X) + f64(p3.X))
	dx := f64(p2.X)

	ay := 0.5 * (-f64(p1.Y) + 3*f64(p2.Y) - 3*f64(p3.Y) + f64(p4.Y))
	by := 0.5 * (2*f64(p1.Y) - 5*f64(p2.Y) + 4*f64(p3.Y) - f64(p4.Y))
	cy := 0.5 * (-f64(p1.Y) + f64(p3.Y))
	dy := f64(p2.Y)

	currentIdx := p2.X
	if currentIdx >= 0 && currentIdx < len(samples) {
		samples[currentIdx] = clampDOMi(p2.Y, yMax)
	}
	currentIdx++

	step := 0.01
	t := 0.0

	for t <= 1 && currentIdx < len(samples) {
		nextIdx := currentIdx + 1
		var x float64
		for {
			for {
				t += step
				t2 := t * t
				x = ax*t*t2 + bx*t2 + cx*t + dx
				if !(x < float64(currentIdx) && t <= 1) {
					break
				}
			}
			if x > float64(nextIdx) {
				t -= step
				if step > 0.001 {
					step -= 0.001
				} else {
					step -= 0.0005
				}
				if step <= 0 {
					// Degenerate segment (coincident control points); stop
					// rather than loop forever shrinking a non-positive step.
					return
				}
				continue
			}
			break
		}

		t2 := t * t
		y := ay*t*t2 + by*t2 + cy*t + dy
		if currentIdx >= 0 && currentIdx < len(samples) {
			samples[currentIdx] = clampDOMf(y, yMax)
		}
		currentIdx++
	}
}

func f64(x int) float64 { return float64(x) }

func clampDOMi(y, yMax int) uint8 {
	return clampDOMf(float64(y), yMax)
}

func clampDOMf(y float64, yMax int) uint8 {
	if y < 0 {
		return 0
	}
	if y > float64(yMax) {
		return uint8(yMax)
	}
	return uint8(y)
}
