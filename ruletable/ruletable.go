// Package ruletable implements the mixed-radix rule table: a flat array
// mapping a tuple of input-set positions to an output-set position or "no
// rule", plus the add/delete remapping a set mutation requires.
package ruletable

import "fmt"

// Cell is one rule table entry: an output-set position, or NoRule.
type Cell uint16

// NoRule is the sentinel stored in a cell that has no rule defined for its
// input-set combination. uint16 lifts the limit past 255 output sets that
// the original byte-sized sentinel imposed.
const NoRule Cell = 0xFFFF

// Table is the flat rule array for a model's current set of input
// variables. Its length is the product of every input variable's set
// count; Strides holds, per input variable (in declaration order), the
// stride used to fold that variable's set position into a linear index.
type Table struct {
	cells   []Cell
	strides []int
	radices []int
}

// New builds an empty table (every cell NoRule) from the per-input-variable
// set counts, in variable order.
func New(radices []int) *Table {
	t := &Table{}
	t.Resize(radices)
	return t
}

// Radices returns the current per-variable set counts.
func (t *Table) Radices() []int { return append([]int(nil), t.radices...) }

// Strides returns the current per-variable strides.
func (t *Table) Strides() []int { return append([]int(nil), t.strides...) }

// Len returns the number of cells (the product of all radices, or 0 if any
// radix is 0).
func (t *Table) Len() int { return len(t.cells) }

func computeStrides(radices []int) []int {
	strides := make([]int, len(radices))
	stride := 1
	for j := len(radices) - 1; j >= 0; j-- {
		strides[j] = stride
		stride *= radices[j]
	}
	return strides
}

func size(radices []int) int {
	if len(radices) == 0 {
		return 0
	}
	n := 1
	for _, r := range radices {
		if r <= 0 {
			return 0
		}
		n *= r
	}
	return n
}

// Resize rebuilds the table from scratch for a fresh set of radices,
// clearing every cell to NoRule. Used when a variable is added/removed
// (spec §4.3: cross-product preservation across a variable's
// appearance/disappearance is ambiguous, so the table is simply cleared).
func (t *Table) Resize(radices []int) {
	t.radices = append([]int(nil), radices...)
	t.strides = computeStrides(t.radices)
	t.cells = make([]Cell, size(t.radices))
	for i := range t.cells {
		t.cells[i] = NoRule
	}
}

// Encode folds a tuple of per-variable set positions into a linear index.
func (t *Table) Encode(positions []int) (int, error) {
	if len(positions) != len(t.strides) {
		return 0, fmt.Errorf("ruletable: expected %d positions, got %d", len(t.strides), len(positions))
	}
	idx := 0
	for j, p := range positions {
		idx += p * t.strides[j]
	}
	return idx, nil
}

// Decode recovers the per-variable set-position tuple for a linear index.
func (t *Table) Decode(idx int) []int {
	positions := make([]int, len(t.strides))
	remaining := idx
	for j, stride := range t.strides {
		positions[j] = remaining / stride
		remaining -= positions[j] * stride
	}
	return positions
}

// Get returns the cell at idx.
func (t *Table) Get(idx int) Cell {
	if idx < 0 || idx >= len(t.cells) {
		return NoRule
	}
	return t.cells[idx]
}

// Set assigns the cell at idx.
func (t *Table) Set(idx int, c Cell) error {
	if idx < 0 || idx >= len(t.cells) {
		return fmt.Errorf("ruletable: index %d out of range [0, %d)", idx, len(t.cells))
	}
	t.cells[idx] = c
	return nil
}

// Clear resets every cell to NoRule without changing the table's shape.
func (t *Table) Clear() {
	for i := range t.cells {
		t.cells[i] = NoRule
	}
}

// AddSetAt grows variable varPos's radix by one, inserting the new set at
// setPos within that variable's range. Every cell whose varPos-th
// component equals setPos is left NoRule; every other cell is copied from
// the corresponding cell of the old (smaller) table.
func (t *Table) AddSetAt(varPos, setPos int) {
	newRadices := append([]int(nil), t.radices...)
	newRadices[varPos]++

	newStrides := computeStrides(newRadices)
	newCells := make([]Cell, size(newRadices))

	for j := range newCells {
		positionsAt := decodeWith(j, newStrides)
		if positionsAt[varPos] == setPos {
			newCells[j] = NoRule
			continue
		}
		oldPositions := append([]int(nil), positionsAt...)
		if oldPositions[varPos] > setPos {
			oldPositions[varPos]--
		}
		oldIdx := encodeWith(oldPositions, t.strides)
		newCells[j] = t.cells[oldIdx]
	}

	t.radices = newRadices
	t.strides = newStrides
	t.cells = newCells
}

// DeleteSetAt shrinks variable varPos's radix by one, dropping the set at
// setPos. Cells whose varPos-th component equals setPos are discarded;
// all others are copied forward, decrementing that component when it
// exceeds setPos.
func (t *Table) DeleteSetAt(varPos, setPos int) {
	newRadices := append([]int(nil), t.radices...)
	newRadices[varPos]--

	newStrides := computeStrides(newRadices)
	newCells := make([]Cell, size(newRadices))

	for j := range newCells {
		positionsAt := decodeWith(j, newStrides)
		oldPositions := append([]int(nil), positionsAt...)
		if oldPositions[varPos] >= setPos {
			oldPositions[varPos]++
		}
		oldIdx := encodeWith(oldPositions, t.strides)
		newCells[j] = t.cells[oldIdx]
	}

	t.radices = newRadices
	t.strides = newStrides
	t.cells = newCells
}

// RemapOutputDelete rewrites every cell that names the deleted output
// position as NoRule, and decrements every cell whose value exceeds it.
// Used when a set is removed from the output variable (§4.2).
func (t *Table) RemapOutputDelete(deletedPos int) {
	for i, c := range t.cells {
		if c == NoRule {
			continue
		}
		switch {
		case int(c) == deletedPos:
			t.cells[i] = NoRule
		case int(c) > deletedPos:
			t.cells[i] = c - 1
		}
	}
}

// RemapOutputInsert increments every cell whose value is at or past the
// newly inserted output position, keeping references to existing output
// sets intact.
func (t *Table) RemapOutputInsert(insertedPos int) {
	for i, c := range t.cells {
		if c == NoRule {
			continue
		}
		if int(c) >= insertedPos {
			t.cells[i] = c + 1
		}
	}
}

func decodeWith(idx int, strides []int) []int {
	positions := make([]int, len(strides))
	remaining := idx
	for j, stride := range strides {
		positions[j] = remaining / stride
		remaining -= positions[j] * stride
	}
	return positions
}

func encodeWith(positions []int, strides []int) int {
	idx := 0
	for j, p := range positions {
		idx += p * strides[j]
	}
	return idx
}
