// Package inference implements the recursive fire-all-rules evaluator:
// given a rule table and each input variable's current grid index, it
// walks every combination of active input sets, accumulating a rule index
// by addition and an activation level by the model's inference op, and
// composes the result into each fired output set's DOM.
package inference

import (
	"github.com/loian/fclfuzzy/ruletable"
	"github.com/loian/fclfuzzy/variable"
)

// Op selects how activation is combined across input variables as the
// recursion descends.
type Op int

const (
	Min Op = iota
	Max
)

func combine(op Op, a, b uint8) uint8 {
	if op == Min {
		if a < b {
			return a
		}
		return b
	}
	if a > b {
		return a
	}
	return b
}

// Evaluate runs the fire-all-rules traversal over inputVars (in model
// order) using inputIdx[i] as variable i's current grid index, and writes
// the resulting composed activation for every output set into outDom
// (which must already be sized to the output variable's set count and is
// zeroed here per spec §4.4 step 1).
func Evaluate(op Op, compOp variable.CompositionOp, inputVars []*variable.Variable, inputIdx []int, table *ruletable.Table, outDom []uint8) {
	for i := range outDom {
		outDom[i] = 0
	}
	recurse(op, compOp, inputVars, inputIdx, table, 0, 0, 0, outDom)
}

func recurse(op Op, compOp variable.CompositionOp, inputVars []*variable.Variable, inputIdx []int, table *ruletable.Table, varIdx, ruleIndex int, activation uint8, outDom []uint8) {
	if varIdx == len(inputVars) {
		cell := table.Get(ruleIndex)
		if cell == ruletable.NoRule {
			return
		}
		k := int(cell)
		if k < 0 || k >= len(outDom) {
			return
		}
		switch compOp {
		case variable.CompositionMax:
			if activation > outDom[k] {
				outDom[k] = activation
			}
		case variable.CompositionMin:
			if outDom[k] == 0 || activation < outDom[k] {
				outDom[k] = activation
			}
		}
		return
	}

	v := inputVars[varIdx]
	idx := inputIdx[varIdx]
	for _, s := range v.Sets() {
		dom := s.DOMAt(idx)
		if dom == 0 {
			continue
		}
		next := dom
		if varIdx > 0 {
			next = combine(op, activation, dom)
		}
		recurse(op, compOp, inputVars, inputIdx, table, varIdx+1, ruleIndex+s.RuleStride(), next, outDom)
	}
}
