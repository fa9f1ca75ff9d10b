// Package variable implements a linguistic variable: an ordered sequence
// of Sets over a continuous domain, with the identifier-uniqueness and
// rule-table-rewrite obligations that adding, deleting, and renaming a set
// carry per the data model.
package variable

import (
	"fmt"
	"strings"

	"github.com/loian/fclfuzzy/defuzz"
	"github.com/loian/fclfuzzy/grid"
	"github.com/loian/fclfuzzy/set"
)

// Kind distinguishes an input variable (fuzzified from a crisp value) from
// the model's one output variable (defuzzified into a crisp value).
type Kind int

const (
	Input Kind = iota
	Output
)

// Variable is a linguistic variable: a domain, an ordered set of terms, and
// (for the output variable) the defuzzification and composition policy.
type Variable struct {
	id    string
	kind  Kind
	axis  grid.AxisMap
	index int
	sets  []*set.Set

	// Output-only fields.
	defuzzMethod   defuzz.Method
	compositionOp  CompositionOp
	cogTables      []*defuzz.COGTable
	momTables      []*defuzz.MOMTable
}

// CompositionOp selects how an inference run accumulates an output set's
// activation across multiple firing rules.
type CompositionOp int

const (
	CompositionMax CompositionOp = iota
	CompositionMin
)

// New builds an empty variable over [leftX, rightX].
func New(id string, kind Kind, res grid.Resolution, leftX, rightX float64) (*Variable, error) {
	if id == "" {
		return nil, fmt.Errorf("variable: id cannot be empty")
	}
	axis, err := grid.NewAxisMap(res, leftX, rightX)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", id, err)
	}
	return &Variable{id: id, kind: kind, axis: axis}, nil
}

func (v *Variable) ID() string            { return v.id }
func (v *Variable) Kind() Kind            { return v.kind }
func (v *Variable) Axis() grid.AxisMap    { return v.axis }
func (v *Variable) Index() int            { return v.index }
func (v *Variable) SetIndex(idx int)      { v.index = idx }
func (v *Variable) Sets() []*set.Set      { return v.sets }
func (v *Variable) SetCount() int         { return len(v.sets) }

func (v *Variable) DefuzzMethod() defuzz.Method         { return v.defuzzMethod }
func (v *Variable) SetDefuzzMethod(m defuzz.Method)     { v.defuzzMethod = m }
func (v *Variable) CompositionOp() CompositionOp        { return v.compositionOp }
func (v *Variable) SetCompositionOp(op CompositionOp)   { v.compositionOp = op }

// findByID returns the index into v.sets of the set matching id
// case-insensitively, or -1.
func (v *Variable) findByID(id string) int {
	for i, s := range v.sets {
		if strings.EqualFold(s.ID(), id) {
			return i
		}
	}
	return -1
}

// uniqueID applies the auto-unique "Copy of " collision policy: if id
// already exists, prefix "Copy of " (then a space-separated numeric
// suffix for further collisions) until a free name is found.
func (v *Variable) uniqueID(id string) string {
	if v.findByID(id) == -1 {
		return id
	}
	candidate := "Copy of " + id
	if v.findByID(candidate) == -1 {
		return candidate
	}
	for n := 2; ; n++ {
		next := fmt.Sprintf("%s %d", candidate, n)
		if v.findByID(next) == -1 {
			return next
		}
	}
}

// AddSet appends s to the variable's ordered sequence. If autoUnique is
// true and s's id collides (case-insensitively), the set is renamed per
// the "Copy of " policy; otherwise a colliding id fails with an error the
// caller should report as ferr.NonUniqueId.
func (v *Variable) AddSet(s *set.Set, autoUnique bool) error {
	if v.findByID(s.ID()) != -1 {
		if !autoUnique {
			return fmt.Errorf("variable %q: set id %q is not unique", v.id, s.ID())
		}
		s.Rename(v.uniqueID(s.ID()))
	}
	s.SetPosition(len(v.sets))
	v.sets = append(v.sets, s)
	if v.kind == Output {
		v.appendDefuzzTables(s)
	}
	return nil
}

func (v *Variable) appendDefuzzTables(s *set.Set) {
	v.cogTables = append(v.cogTables, defuzz.BuildCOGTable(s.Func().Samples(), v.axis))
	v.momTables = append(v.momTables, defuzz.BuildMOMTable(s.Func().Samples(), v.axis))
}

// DeleteSet removes the set at position p, shifting subsequent positions
// down. Callers are responsible for the corresponding rule-table rewrite
// (ruletable.DeleteSetAt for an input variable, ruletable.RemapOutputDelete
// for the output variable) since only the model knows the table.
func (v *Variable) DeleteSet(p int) error {
	if p < 0 || p >= len(v.sets) {
		return fmt.Errorf("variable %q: set position %d out of range", v.id, p)
	}
	v.sets = append(v.sets[:p], v.sets[p+1:]...)
	for i := p; i < len(v.sets); i++ {
		v.sets[i].SetPosition(i)
	}
	if v.kind == Output {
		v.cogTables = append(v.cogTables[:p], v.cogTables[p+1:]...)
		v.momTables = append(v.momTables[:p], v.momTables[p+1:]...)
	}
	return nil
}

// RenameSet changes the id of the set at position p, enforcing the same
// case-insensitive uniqueness policy AddSet does (but never auto-renaming;
// a collision is always an error here).
func (v *Variable) RenameSet(p int, id string) error {
	if p < 0 || p >= len(v.sets) {
		return fmt.Errorf("variable %q: set position %d out of range", v.id, p)
	}
	if existing := v.findByID(id); existing != -1 && existing != p {
		return fmt.Errorf("variable %q: set id %q is not unique", v.id, id)
	}
	v.sets[p].Rename(id)
	return nil
}

// RefreshDefuzzTables rebuilds the COG/MOM precompute for the set at
// position p. Called whenever that set's membership function changes.
func (v *Variable) RefreshDefuzzTables(p int) error {
	if v.kind != Output {
		return fmt.Errorf("variable %q: not an output variable", v.id)
	}
	if p < 0 || p >= len(v.sets) {
		return fmt.Errorf("variable %q: set position %d out of range", v.id, p)
	}
	v.cogTables[p] = defuzz.BuildCOGTable(v.sets[p].Func().Samples(), v.axis)
	v.momTables[p] = defuzz.BuildMOMTable(v.sets[p].Func().Samples(), v.axis)
	return nil
}

// COGTables returns the output variable's precomputed COG tables, ordered
// by set position.
func (v *Variable) COGTables() []*defuzz.COGTable { return v.cogTables }

// MOMTables returns the output variable's precomputed MOM tables, ordered
// by set position.
func (v *Variable) MOMTables() []*defuzz.MOMTable { return v.momTables }

// Fuzzify returns, for every set in declaration order, the DOM at the grid
// index corresponding to value.
func (v *Variable) Fuzzify(value float64) []uint8 {
	idx := v.axis.IndexOf(value)
	doms := make([]uint8, len(v.sets))
	for i, s := range v.sets {
		doms[i] = s.DOMAt(idx)
	}
	return doms
}
