// Package fcl implements a best-effort, line-buffered loader and saver for
// the FCL (IEC 61131-7 Fuzzy Control Language) subset described by §4.6:
// FUNCTION_BLOCK / VAR_INPUT / VAR_OUTPUT / FUZZIFY / DEFUZZIFY / RULEBLOCK.
package fcl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/loian/fclfuzzy/grid"
	"github.com/loian/fclfuzzy/membership"
)

// pair is one (x, y) control point as read verbatim from a TERM literal,
// in real domain/DOM units before conversion to grid indices.
type pair struct {
	x, y float64
}

// stripComment splits a line into its code portion and the text inside its
// first "(* ... *)" comment, if any. FCL attaches semantically meaningful
// comments (RANGE) to VAR lines, so comments are parsed, not discarded.
func stripComment(line string) (code string, comment string) {
	start := strings.Index(line, "(*")
	if start == -1 {
		return strings.TrimSpace(line), ""
	}
	end := strings.Index(line[start:], "*)")
	code = strings.TrimSpace(line[:start])
	if end == -1 {
		return code, ""
	}
	comment = strings.TrimSpace(line[start+2 : start+end])
	return code, comment
}

// parseRange extracts lo/hi from a "RANGE(lo .. hi)" comment.
func parseRange(comment string) (lo, hi float64, ok bool) {
	if !strings.HasPrefix(comment, "RANGE(") || !strings.HasSuffix(comment, ")") {
		return 0, 0, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(comment, "RANGE("), ")")
	parts := strings.SplitN(inner, "..", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	loV, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	hiV, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return loV, hiV, true
}

func formatRange(lo, hi float64) string {
	return fmt.Sprintf("(* RANGE(%s .. %s) *)", formatNum(lo), formatNum(hi))
}

func formatNum(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// parseVarDecl parses a "id : REAL ;" declaration line (the comment, if
// any, has already been stripped off by the caller).
func parseVarDecl(code string) (id string, ok bool) {
	code = strings.TrimSuffix(strings.TrimSpace(code), ";")
	idx := strings.Index(code, ":")
	if idx == -1 {
		return "", false
	}
	id = strings.TrimSpace(code[:idx])
	if id == "" {
		return "", false
	}
	return id, true
}

// parsePairs parses a membership-function literal: either a bare numeric
// (singleton) or a sequence of "(x, y)" pairs, terminated by ";".
func parsePairs(lit string) ([]pair, bool, error) {
	lit = strings.TrimSuffix(strings.TrimSpace(lit), ";")
	lit = strings.TrimSpace(lit)
	if lit == "" {
		return nil, false, fmt.Errorf("fcl: empty membership function literal")
	}
	if !strings.Contains(lit, "(") {
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, false, fmt.Errorf("fcl: invalid singleton literal %q: %w", lit, err)
		}
		return []pair{{x: v}}, true, nil
	}

	var pairs []pair
	for {
		lit = strings.TrimSpace(lit)
		if lit == "" {
			break
		}
		open := strings.Index(lit, "(")
		if open == -1 {
			break
		}
		closeIdx := strings.Index(lit, ")")
		if closeIdx == -1 || closeIdx < open {
			return nil, false, fmt.Errorf("fcl: unterminated pair in %q", lit)
		}
		inner := lit[open+1 : closeIdx]
		parts := strings.SplitN(inner, ",", 2)
		if len(parts) != 2 {
			return nil, false, fmt.Errorf("fcl: malformed pair %q", inner)
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err1 != nil || err2 != nil {
			return nil, false, fmt.Errorf("fcl: malformed pair %q", inner)
		}
		pairs = append(pairs, pair{x: x, y: y})
		lit = lit[closeIdx+1:]
	}
	return pairs, false, nil
}

// buildFunction converts a parsed pair sequence (in real units) into a
// rasterized Function, given the owning variable's axis map. Pair counts
// select the variant per §4.6: 1->Singleton, 3->Triangle, 4->Trapezoid,
// 7->S-Curve.
func buildFunction(res grid.Resolution, axis grid.AxisMap, pairs []pair, isSingleton bool) (*membership.Function, error) {
	if isSingleton {
		return membership.NewSingleton(res, axis.IndexOf(pairs[0].x))
	}
	switch len(pairs) {
	case 1:
		return membership.NewSingleton(res, axis.IndexOf(pairs[0].x))
	case 3:
		x0, x1, x2 := axis.IndexOf(pairs[0].x), axis.IndexOf(pairs[1].x), axis.IndexOf(pairs[2].x)
		return membership.NewTriangle(res, x0, x1, x2, detectRamp(res, x0, x1, x1, x2))
	case 4:
		x0, x1, x2, x3 := axis.IndexOf(pairs[0].x), axis.IndexOf(pairs[1].x), axis.IndexOf(pairs[2].x), axis.IndexOf(pairs[3].x)
		return membership.NewTrapezoid(res, x0, x1, x2, x3, detectRamp(res, x0, x1, x2, x3))
	case 7:
		var nodes [7]membership.Node
		for i, p := range pairs {
			nodes[i] = membership.Node{X: axis.IndexOf(p.x), Y: int(p.y * float64(res.YMax()))}
		}
		return membership.NewSCurve(res, nodes)
	default:
		return nil, fmt.Errorf("fcl: membership literal has %d points, want 1, 3, 4, or 7", len(pairs))
	}
}

// detectRamp reports whether a Triangle/Trapezoid term's first pair or last
// pair of nodes has collapsed onto the grid's domain edge, the same test
// MemberFuncTrap::set_ramp uses to flag an open-ended shoulder: a left ramp
// is nodes[0].x == nodes[1].x == 0, a right ramp is nodes[2].x == nodes[3].x
// == X_MAX (for a Triangle, node 1 plays both "node 1" and "node 2"). Since
// the node positions are what's saved, not the Ramp flag itself, this
// detection also runs identically on reload, so save->load round-trips
// preserve it without needing to serialize it explicitly. A term collapsed
// on both edges at once (left && right) is reported as RampLeft; the
// original format has no way to represent both a left and a right ramp on
// the same term either.
func detectRamp(res grid.Resolution, leftA, leftB, rightA, rightB int) membership.Ramp {
	left := leftA == 0 && leftB == 0
	right := rightA == res.XMax() && rightB == res.XMax()
	switch {
	case left:
		return membership.RampLeft
	case right:
		return membership.RampRight
	default:
		return membership.RampNone
	}
}

// functionToPairs converts a rasterized Function's nodes back to real-unit
// (x, y) pairs for saving, the inverse of buildFunction.
func functionToPairs(fn *membership.Function, axis grid.AxisMap, yMax int) []pair {
	nodes := fn.Nodes()
	pairs := make([]pair, len(nodes))
	for i, n := range nodes {
		pairs[i] = pair{x: axis.ValueOf(n.X), y: float64(n.Y) / float64(yMax)}
	}
	return pairs
}
