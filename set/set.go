// Package set implements a Set: a named membership function bound to a
// position within its owning variable and, for input variables, a cached
// rule_stride contribution used during fire-all-rules traversal.
package set

import (
	"fmt"

	"github.com/loian/fclfuzzy/membership"
)

// Set is one fuzzy term of a variable.
type Set struct {
	id         string
	position   int
	ruleStride int
	fn         *membership.Function
}

// New builds a Set from an id and a rasterized membership function.
// Position and rule_stride default to zero; the owning variable assigns the
// position on AddSet and the model recomputes rule_stride on every mutation.
func New(id string, fn *membership.Function) (*Set, error) {
	if id == "" {
		return nil, fmt.Errorf("set: id cannot be empty")
	}
	if fn == nil {
		return nil, fmt.Errorf("set: membership function cannot be nil")
	}
	return &Set{id: id, fn: fn}, nil
}

// ID returns the set's identifier, unique (case-insensitively) within its
// owning variable.
func (s *Set) ID() string { return s.id }

// Position returns the set's ordinal within its owning variable's ordered
// sequence.
func (s *Set) Position() int { return s.position }

// SetPosition is called by the owning variable after any mutation that
// shifts ordinals (add/delete of a sibling set).
func (s *Set) SetPosition(p int) { s.position = p }

// RuleStride returns the cached position*stride contribution this set adds
// to a rule index during traversal.
func (s *Set) RuleStride() int { return s.ruleStride }

// SetRuleStride is called by the model whenever strides are recomputed
// model-wide (§4.3).
func (s *Set) SetRuleStride(stride int) { s.ruleStride = stride }

// Rename changes the set's identifier. The owning variable is responsible
// for uniqueness checks before calling this.
func (s *Set) Rename(id string) { s.id = id }

// Func returns the set's rasterized membership function.
func (s *Set) Func() *membership.Function { return s.fn }

// SetFunc replaces the set's membership function, e.g. after an edit that
// moves a node. Callers must refresh any defuzzification precompute that
// depends on it afterward.
func (s *Set) SetFunc(fn *membership.Function) { s.fn = fn }

// DOMAt returns the degree of membership, as a DOM index, at the given
// X-grid index.
func (s *Set) DOMAt(xIndex int) uint8 { return s.fn.DOMAt(xIndex) }
