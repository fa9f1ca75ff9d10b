// Package model implements Model (the owning object for a fuzzy
// controller's variables, rule table, and inference policy), Session (a
// lightweight per-call evaluation context), and Registry (the stable-index
// handle table a host process uses to own many models at once).
package model

import (
	"sync"

	"github.com/loian/fclfuzzy/defuzz"
	"github.com/loian/fclfuzzy/ferr"
	"github.com/loian/fclfuzzy/grid"
	"github.com/loian/fclfuzzy/inference"
	"github.com/loian/fclfuzzy/ruletable"
	"github.com/loian/fclfuzzy/set"
	"github.com/loian/fclfuzzy/variable"
)

// Model owns a fuzzy controller's full definition: its input variables (in
// declaration order), its one output variable, the rule table relating
// them, the inference/composition policy, and a read-once last-error slot.
//
// Mutation (adding/removing variables, sets, or rules) is only safe while
// no Session bound to this model is mid-Infer; the mutex enforces that
// mutation excludes concurrent inference but lets many sessions read
// concurrently.
type Model struct {
	mu sync.RWMutex

	res         grid.Resolution
	inputs      []*variable.Variable
	output      *variable.Variable
	table       *ruletable.Table
	inferenceOp inference.Op
	autoUnique  bool

	lastErr *ferr.Error
}

// New builds an empty model at the given grid resolution. autoUnique
// controls whether AddInputSet/AddOutputSet resolve id collisions via the
// "Copy of " policy (true) or reject them (false).
func New(res grid.Resolution, autoUnique bool) *Model {
	return &Model{
		res:         res,
		table:       ruletable.New(nil),
		inferenceOp: inference.Min,
		autoUnique:  autoUnique,
	}
}

// Resolution returns the grid resolution this model was built with.
func (m *Model) Resolution() grid.Resolution { return m.res }

// InputVariables returns the model's input variables in declaration order.
func (m *Model) InputVariables() []*variable.Variable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*variable.Variable(nil), m.inputs...)
}

// OutputVariable returns the model's output variable, or nil if none has
// been set yet.
func (m *Model) OutputVariable() *variable.Variable {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.output
}

// InferenceOp returns the Min/Max op combining activations across input
// variables during a fire-all-rules traversal.
func (m *Model) InferenceOp() inference.Op {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inferenceOp
}

// SetInferenceOp sets the Min/Max inference op.
func (m *Model) SetInferenceOp(op inference.Op) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inferenceOp = op
}

// Table returns the model's rule table.
func (m *Model) Table() *ruletable.Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.table
}

// LastError returns and clears the model's last recorded error: a
// read-once channel analogous to get_msg_text on the FCL engine this
// module descends from.
func (m *Model) LastError() *ferr.Error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.lastErr
	m.lastErr = nil
	return err
}

func (m *Model) setErr(err *ferr.Error) {
	m.lastErr = err
}

// AddInputVariable appends a new input variable to the model. Adding a
// fresh (set-less) variable collapses the rule table to empty, per §4.3.
func (m *Model) AddInputVariable(id string, leftX, rightX float64) (*variable.Variable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := variable.New(id, variable.Input, m.res, leftX, rightX)
	if err != nil {
		kind := ferr.RangeValue
		if leftX == rightX {
			kind = ferr.SameLeftRight
		}
		fe := ferr.Wrap(kind, id, err)
		m.setErr(fe)
		return nil, fe
	}
	v.SetIndex(len(m.inputs))
	m.inputs = append(m.inputs, v)
	m.table.Resize(m.radices())
	m.rewireStrides()
	return v, nil
}

// SetOutputVariable installs the model's output variable. A model has at
// most one; a second call fails with OutputAlreadyExists (§7) rather than
// silently replacing it.
func (m *Model) SetOutputVariable(id string, leftX, rightX float64, method defuzz.Method, compOp variable.CompositionOp) (*variable.Variable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.output != nil {
		fe := ferr.New(ferr.OutputAlreadyExists, id)
		m.setErr(fe)
		return nil, fe
	}

	v, err := variable.New(id, variable.Output, m.res, leftX, rightX)
	if err != nil {
		kind := ferr.RangeValue
		if leftX == rightX {
			kind = ferr.SameLeftRight
		}
		fe := ferr.Wrap(kind, id, err)
		m.setErr(fe)
		return nil, fe
	}
	v.SetDefuzzMethod(method)
	v.SetCompositionOp(compOp)
	v.SetIndex(-1)
	m.output = v
	m.table.Clear()
	return v, nil
}

func (m *Model) radices() []int {
	radices := make([]int, len(m.inputs))
	for i, v := range m.inputs {
		radices[i] = v.SetCount()
	}
	return radices
}

// rewireStrides recomputes every input set's cached rule_stride after a
// table resize, per §4.3's "after every mutation, recompute strideⱼ ...
// and rule_stride" rule.
func (m *Model) rewireStrides() {
	strides := m.table.Strides()
	for i, v := range m.inputs {
		for _, s := range v.Sets() {
			s.SetRuleStride(s.Position() * strides[i])
		}
	}
}

// AddInputSet adds s to the input variable at varIdx, growing the rule
// table's radix for that variable and recomputing every set's rule_stride.
func (m *Model) AddInputSet(varIdx int, s *set.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if varIdx < 0 || varIdx >= len(m.inputs) {
		fe := ferr.New(ferr.AllocFailure, "input variable index out of range")
		m.setErr(fe)
		return fe
	}
	v := m.inputs[varIdx]
	if err := v.AddSet(s, m.autoUnique); err != nil {
		fe := ferr.Wrap(ferr.NonUniqueId, s.ID(), err)
		m.setErr(fe)
		return fe
	}
	m.table.AddSetAt(varIdx, s.Position())
	m.rewireStrides()
	return nil
}

// DeleteInputSet removes the set at setPos from the input variable at
// varIdx, shrinking the rule table's radix for that variable.
func (m *Model) DeleteInputSet(varIdx, setPos int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if varIdx < 0 || varIdx >= len(m.inputs) {
		fe := ferr.New(ferr.AllocFailure, "input variable index out of range")
		m.setErr(fe)
		return fe
	}
	v := m.inputs[varIdx]
	m.table.DeleteSetAt(varIdx, setPos)
	if err := v.DeleteSet(setPos); err != nil {
		fe := ferr.Wrap(ferr.AllocFailure, v.ID(), err)
		m.setErr(fe)
		return fe
	}
	m.rewireStrides()
	return nil
}

// AddOutputSet appends s to the output variable. Unlike an input set, an
// output set does not change the table's shape — it only grows the range
// of values a cell may legally hold.
func (m *Model) AddOutputSet(s *set.Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.output == nil {
		fe := ferr.New(ferr.AllocFailure, "no output variable")
		m.setErr(fe)
		return fe
	}
	if err := m.output.AddSet(s, m.autoUnique); err != nil {
		fe := ferr.Wrap(ferr.NonUniqueId, s.ID(), err)
		m.setErr(fe)
		return fe
	}
	return nil
}

// DeleteOutputSet removes the set at setPos from the output variable,
// rewriting every rule cell that named it to NoRule and decrementing every
// cell above it, per §4.2.
func (m *Model) DeleteOutputSet(setPos int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.output == nil {
		fe := ferr.New(ferr.CantDeleteOutput, "no output variable")
		m.setErr(fe)
		return fe
	}
	m.table.RemapOutputDelete(setPos)
	if err := m.output.DeleteSet(setPos); err != nil {
		fe := ferr.Wrap(ferr.AllocFailure, m.output.ID(), err)
		m.setErr(fe)
		return fe
	}
	return nil
}

// DeleteVariable removes the variable at idx from the model, mirroring the
// original engine's delete_variable: it works on any variable by the same
// external index convention used elsewhere (0..len(inputs)-1 for input
// variables, -1 for the output variable), but always rejects removing the
// output variable. Removing an input variable drops its radix from the rule
// table and, per §4.3, clears every cell rather than trying to preserve a
// cross-product that no longer has a meaningful shape.
func (m *Model) DeleteVariable(idx int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx == -1 {
		id := "output"
		if m.output != nil {
			id = m.output.ID()
		}
		fe := ferr.New(ferr.CantDeleteOutput, id)
		m.setErr(fe)
		return fe
	}
	if idx < 0 || idx >= len(m.inputs) {
		fe := ferr.New(ferr.AllocFailure, "input variable index out of range")
		m.setErr(fe)
		return fe
	}

	m.inputs = append(m.inputs[:idx], m.inputs[idx+1:]...)
	for i, v := range m.inputs {
		v.SetIndex(i)
	}
	m.table.Resize(m.radices())
	m.rewireStrides()
	return nil
}

// SetRule assigns the output set at position outputPos to the rule cell
// addressed by the given tuple of input-set positions (one per input
// variable, in declaration order).
func (m *Model) SetRule(inputPositions []int, outputPos int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.table.Encode(inputPositions)
	if err != nil {
		fe := ferr.Wrap(ferr.InvalidFileFormat, "rule", err)
		m.setErr(fe)
		return fe
	}
	return m.table.Set(idx, ruletable.Cell(outputPos))
}

// ClearRules resets every rule cell to NoRule without touching variables.
func (m *Model) ClearRules() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table.Clear()
}
