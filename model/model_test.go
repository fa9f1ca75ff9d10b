package model

import (
	"math"
	"testing"

	"github.com/loian/fclfuzzy/defuzz"
	"github.com/loian/fclfuzzy/ferr"
	"github.com/loian/fclfuzzy/grid"
	"github.com/loian/fclfuzzy/inference"
	"github.com/loian/fclfuzzy/membership"
	"github.com/loian/fclfuzzy/ruletable"
	"github.com/loian/fclfuzzy/set"
	"github.com/loian/fclfuzzy/variable"
)

func triSet(t *testing.T, res grid.Resolution, id string, x0, x1, x2 int) *set.Set {
	t.Helper()
	fn, err := membership.NewTriangle(res, x0, x1, x2, membership.RampNone)
	if err != nil {
		t.Fatalf("NewTriangle: %v", err)
	}
	s, err := set.New(id, fn)
	if err != nil {
		t.Fatalf("set.New: %v", err)
	}
	return s
}

// buildSimpleModel wires one input variable (Cold/Hot) and one output
// variable (Low/High) with two rules: Cold -> Low, Hot -> High. Set nodes
// are grid indices: on a 0..100 domain, index 100 is value 50 and index 200
// is value 100.
func buildSimpleModel(t *testing.T) *Model {
	t.Helper()
	res := grid.DefaultResolution()
	m := New(res, true)

	if _, err := m.AddInputVariable("Temperature", 0, 100); err != nil {
		t.Fatalf("AddInputVariable: %v", err)
	}
	if _, err := m.SetOutputVariable("Speed", 0, 100, defuzz.COG, variable.CompositionMax); err != nil {
		t.Fatalf("SetOutputVariable: %v", err)
	}

	cold := triSet(t, res, "Cold", 0, 0, 100)
	hot := triSet(t, res, "Hot", 100, 200, 200)
	if err := m.AddInputSet(0, cold); err != nil {
		t.Fatalf("AddInputSet: %v", err)
	}
	if err := m.AddInputSet(0, hot); err != nil {
		t.Fatalf("AddInputSet: %v", err)
	}

	low := triSet(t, res, "Low", 0, 0, 100)
	high := triSet(t, res, "High", 100, 200, 200)
	if err := m.AddOutputSet(low); err != nil {
		t.Fatalf("AddOutputSet: %v", err)
	}
	if err := m.AddOutputSet(high); err != nil {
		t.Fatalf("AddOutputSet: %v", err)
	}

	if err := m.SetRule([]int{0}, 0); err != nil {
		t.Fatalf("SetRule: %v", err)
	}
	if err := m.SetRule([]int{1}, 1); err != nil {
		t.Fatalf("SetRule: %v", err)
	}
	m.SetInferenceOp(inference.Min)
	return m
}

func TestSimpleModelInfersLowNearColdEnd(t *testing.T) {
	m := buildSimpleModel(t)
	sess := m.NewSession()
	if err := sess.SetValue(0, 0); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := sess.Infer(); err != nil {
		t.Fatalf("Infer: %v", err)
	}
	v, err := sess.OutputValue()
	if err != nil {
		t.Fatalf("OutputValue: %v", err)
	}
	if v > 50 {
		t.Errorf("expected output near Low end, got %f", v)
	}
}

func TestSimpleModelInfersHighNearHotEnd(t *testing.T) {
	m := buildSimpleModel(t)
	sess := m.NewSession()
	sess.SetValue(0, 100)
	sess.Infer()
	v, err := sess.OutputValue()
	if err != nil {
		t.Fatalf("OutputValue: %v", err)
	}
	if v < 50 {
		t.Errorf("expected output near High end, got %f", v)
	}
}

func TestEmptyRuleBaseYieldsNoOutput(t *testing.T) {
	res := grid.DefaultResolution()
	m := New(res, true)
	m.AddInputVariable("Temperature", 0, 100)
	m.SetOutputVariable("Speed", 0, 100, defuzz.COG, variable.CompositionMax)
	m.AddInputSet(0, triSet(t, res, "Cold", 0, 0, 50))
	m.AddOutputSet(triSet(t, res, "Low", 0, 0, 50))
	// No rules assigned at all.

	sess := m.NewSession()
	sess.SetValue(0, 20)
	sess.Infer()
	_, err := sess.OutputValue()
	if err != defuzz.ErrNoOutput {
		t.Errorf("expected ErrNoOutput, got %v", err)
	}
}

func TestAddInputSetMidSequencePreservesOtherRules(t *testing.T) {
	res := grid.DefaultResolution()
	m := New(res, true)
	m.AddInputVariable("Temperature", 0, 100)
	m.SetOutputVariable("Speed", 0, 100, defuzz.COG, variable.CompositionMax)

	cold := triSet(t, res, "Cold", 0, 0, 50)
	hot := triSet(t, res, "Hot", 50, 100, 100)
	m.AddInputSet(0, cold)
	m.AddInputSet(0, hot)

	low := triSet(t, res, "Low", 0, 0, 50)
	high := triSet(t, res, "High", 50, 100, 100)
	m.AddOutputSet(low)
	m.AddOutputSet(high)

	m.SetRule([]int{0}, 0)
	m.SetRule([]int{1}, 1)

	// Add a third set after the rules are in place; AddInputSet appends it
	// after Hot, growing the table's radix.
	warm := triSet(t, res, "Warm", 25, 50, 75)
	if err := m.AddInputSet(0, warm); err != nil {
		t.Fatalf("AddInputSet: %v", err)
	}

	// Cold's rule (position 0) must survive the resize.
	idx, err := m.Table().Encode([]int{cold.Position()})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := m.Table().Get(idx); got != ruletable.Cell(0) {
		t.Errorf("expected Cold's rule preserved, got %v", got)
	}

	idxHot, _ := m.Table().Encode([]int{hot.Position()})
	if got := m.Table().Get(idxHot); got != ruletable.Cell(1) {
		t.Errorf("expected Hot's rule preserved, got %v", got)
	}

	idxWarm, _ := m.Table().Encode([]int{warm.Position()})
	if got := m.Table().Get(idxWarm); got != ruletable.NoRule {
		t.Errorf("expected new Warm cell to be NoRule, got %v", got)
	}
}

func TestDeleteOutputSetRemapsRuleCells(t *testing.T) {
	res := grid.DefaultResolution()
	m := New(res, true)
	m.AddInputVariable("Temperature", 0, 100)
	m.SetOutputVariable("Speed", 0, 100, defuzz.COG, variable.CompositionMax)

	cold := triSet(t, res, "Cold", 0, 0, 50)
	hot := triSet(t, res, "Hot", 50, 100, 100)
	m.AddInputSet(0, cold)
	m.AddInputSet(0, hot)

	low := triSet(t, res, "Low", 0, 0, 33)
	mid := triSet(t, res, "Mid", 33, 50, 66)
	high := triSet(t, res, "High", 66, 100, 100)
	m.AddOutputSet(low)
	m.AddOutputSet(mid)
	m.AddOutputSet(high)

	m.SetRule([]int{0}, 0) // Cold -> Low
	m.SetRule([]int{1}, 2) // Hot -> High

	if err := m.DeleteOutputSet(1); err != nil { // delete Mid
		t.Fatalf("DeleteOutputSet: %v", err)
	}

	idxCold, _ := m.Table().Encode([]int{cold.Position()})
	if got := m.Table().Get(idxCold); got != ruletable.Cell(0) {
		t.Errorf("expected Cold->Low preserved, got %v", got)
	}
	idxHot, _ := m.Table().Encode([]int{hot.Position()})
	if got := m.Table().Get(idxHot); got != ruletable.Cell(1) {
		t.Errorf("expected Hot->High decremented to 1, got %v", got)
	}
}

func TestLastErrorIsReadOnce(t *testing.T) {
	res := grid.DefaultResolution()
	m := New(res, false)
	m.AddInputVariable("Temperature", 0, 100)
	a := triSet(t, res, "Cold", 0, 0, 50)
	b := triSet(t, res, "Cold", 0, 0, 50)
	m.AddInputSet(0, a)
	if err := m.AddInputSet(0, b); err == nil {
		t.Fatalf("expected error for duplicate id with autoUnique disabled")
	}

	first := m.LastError()
	if first == nil {
		t.Fatalf("expected a recorded error")
	}
	second := m.LastError()
	if second != nil {
		t.Errorf("expected read-once semantics, got a second non-nil error: %v", second)
	}
}

func TestSetOutputVariableRejectsSecondCall(t *testing.T) {
	res := grid.DefaultResolution()
	m := New(res, true)
	if _, err := m.SetOutputVariable("Speed", 0, 100, defuzz.COG, variable.CompositionMax); err != nil {
		t.Fatalf("first SetOutputVariable: %v", err)
	}
	_, err := m.SetOutputVariable("Flow", 0, 100, defuzz.COG, variable.CompositionMax)
	if !ferr.Is(err, ferr.OutputAlreadyExists) {
		t.Fatalf("expected OutputAlreadyExists, got %v", err)
	}
	if m.OutputVariable().ID() != "Speed" {
		t.Errorf("expected original output variable to survive the rejected call, got %s", m.OutputVariable().ID())
	}
}

func TestAddOutputSetDuplicateIdIsNonUniqueId(t *testing.T) {
	res := grid.DefaultResolution()
	m := New(res, false)
	m.SetOutputVariable("Speed", 0, 100, defuzz.COG, variable.CompositionMax)

	a := triSet(t, res, "Low", 0, 0, 50)
	b := triSet(t, res, "Low", 50, 100, 100)
	if err := m.AddOutputSet(a); err != nil {
		t.Fatalf("AddOutputSet: %v", err)
	}
	err := m.AddOutputSet(b)
	if !ferr.Is(err, ferr.NonUniqueId) {
		t.Fatalf("expected NonUniqueId for a duplicate output set id, got %v", err)
	}
}

func TestDeleteVariableRejectsOutput(t *testing.T) {
	m := buildSimpleModel(t)
	err := m.DeleteVariable(-1)
	if !ferr.Is(err, ferr.CantDeleteOutput) {
		t.Fatalf("expected CantDeleteOutput, got %v", err)
	}
	if m.OutputVariable() == nil {
		t.Errorf("expected output variable to survive the rejected delete")
	}
}

func TestDeleteVariableRemovesInputAndClearsTable(t *testing.T) {
	res := grid.DefaultResolution()
	m := New(res, true)
	m.AddInputVariable("Temperature", 0, 100)
	m.AddInputVariable("Humidity", 0, 100)
	m.SetOutputVariable("Speed", 0, 100, defuzz.COG, variable.CompositionMax)

	m.AddInputSet(0, triSet(t, res, "Cold", 0, 0, 50))
	m.AddInputSet(0, triSet(t, res, "Hot", 50, 100, 100))
	m.AddInputSet(1, triSet(t, res, "Dry", 0, 0, 50))
	m.AddOutputSet(triSet(t, res, "Low", 0, 0, 50))
	m.SetRule([]int{0, 0}, 0)

	if err := m.DeleteVariable(0); err != nil {
		t.Fatalf("DeleteVariable: %v", err)
	}

	inputs := m.InputVariables()
	if len(inputs) != 1 {
		t.Fatalf("expected 1 remaining input variable, got %d", len(inputs))
	}
	if inputs[0].ID() != "Humidity" {
		t.Errorf("expected Humidity to remain, got %s", inputs[0].ID())
	}
	if inputs[0].Index() != 0 {
		t.Errorf("expected remaining variable reindexed to 0, got %d", inputs[0].Index())
	}

	idx, err := m.Table().Encode([]int{inputs[0].Sets()[0].Position()})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := m.Table().Get(idx); got != ruletable.NoRule {
		t.Errorf("expected table cleared after variable removal, got %v", got)
	}
}

func TestConcurrentSessionsDoNotRace(t *testing.T) {
	m := buildSimpleModel(t)
	done := make(chan float64, 2)
	run := func(v float64) {
		sess := m.NewSession()
		sess.SetValue(0, v)
		sess.Infer()
		out, err := sess.OutputValue()
		if err != nil {
			out = math.NaN()
		}
		done <- out
	}
	go run(0)
	go run(100)
	a := <-done
	b := <-done
	if math.IsNaN(a) || math.IsNaN(b) {
		t.Errorf("expected both concurrent sessions to produce a value")
	}
}
