package model

import (
	"fmt"

	"github.com/loian/fclfuzzy/defuzz"
	"github.com/loian/fclfuzzy/inference"
)

// Session is a lightweight per-call evaluation context bound to one model.
// It holds only scratch state — the chosen grid index per input variable
// and the composed DOM per output set — never a pointer into the model
// other than the shared reference needed to read its (read-only during
// inference) sample arrays and defuzzification tables. Many sessions may
// be bound to the same model and evaluated concurrently.
type Session struct {
	model    *Model
	inputIdx []int
	outDom   []uint8
}

// NewSession binds a new session to m, with every input defaulting to grid
// index 0 (the value nearest left_x) per §3's lifecycle rules.
func (m *Model) NewSession() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	outCount := 0
	if m.output != nil {
		outCount = m.output.SetCount()
	}
	return &Session{
		model:    m,
		inputIdx: make([]int, len(m.inputs)),
		outDom:   make([]uint8, outCount),
	}
}

// SetValue maps value onto input variable varIdx's grid and records the
// resulting index for the next Infer call.
func (s *Session) SetValue(varIdx int, value float64) error {
	s.model.mu.RLock()
	defer s.model.mu.RUnlock()

	if varIdx < 0 || varIdx >= len(s.model.inputs) {
		return fmt.Errorf("session: input variable index %d out of range", varIdx)
	}
	s.inputIdx[varIdx] = s.model.inputs[varIdx].Axis().IndexOf(value)
	return nil
}

// Infer runs the fire-all-rules traversal over the session's current input
// indices and composes the result into the session's out_dom array.
func (s *Session) Infer() error {
	s.model.mu.RLock()
	defer s.model.mu.RUnlock()

	if s.model.output == nil {
		return fmt.Errorf("session: model has no output variable")
	}
	if len(s.outDom) != s.model.output.SetCount() {
		s.outDom = make([]uint8, s.model.output.SetCount())
	}
	inference.Evaluate(s.model.inferenceOp, s.model.output.CompositionOp(), s.model.inputs, s.inputIdx, s.model.table, s.outDom)
	return nil
}

// OutputValue defuzzifies the session's current out_dom array using the
// output variable's configured method, returning defuzz.ErrNoOutput when
// every output set is inactive.
func (s *Session) OutputValue() (float64, error) {
	s.model.mu.RLock()
	defer s.model.mu.RUnlock()

	out := s.model.output
	return defuzz.Value(out.DefuzzMethod(), s.outDom, out.COGTables(), out.MOMTables(), out.Axis())
}

// OutDom returns the session's current composed per-output-set DOM array.
// Callers must not mutate the returned slice.
func (s *Session) OutDom() []uint8 { return s.outDom }
