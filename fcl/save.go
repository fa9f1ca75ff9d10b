package fcl

import (
	"fmt"
	"os"
	"strings"

	"github.com/loian/fclfuzzy/ferr"
	"github.com/loian/fclfuzzy/inference"
	"github.com/loian/fclfuzzy/membership"
	"github.com/loian/fclfuzzy/model"
	"github.com/loian/fclfuzzy/ruletable"
	"github.com/loian/fclfuzzy/variable"
)

// SaveFile writes m to path as FCL text, overwriting any existing file.
func SaveFile(m *model.Model, path, blockName string) error {
	text := Save(m, blockName)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return ferr.Wrap(ferr.FileOpen, path, err)
	}
	return nil
}

// Save serializes m to FCL text, the inverse of Load/LoadString. Every rule
// cell is emitted, including empty ones (as a "No Rule Specified" comment),
// so save->load round-trips preserve rule_index assignment exactly.
func Save(m *model.Model, blockName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "FUNCTION_BLOCK %s\n\n", blockName)

	b.WriteString("VAR_INPUT\n")
	for _, v := range m.InputVariables() {
		fmt.Fprintf(&b, "\t%s : REAL; %s\n", v.ID(), formatRange(v.Axis().LeftX(), v.Axis().RightX()))
	}
	b.WriteString("END_VAR\n\n")

	out := m.OutputVariable()
	b.WriteString("VAR_OUTPUT\n")
	if out != nil {
		fmt.Fprintf(&b, "\t%s : REAL; %s\n", out.ID(), formatRange(out.Axis().LeftX(), out.Axis().RightX()))
	}
	b.WriteString("END_VAR\n\n")

	for _, v := range m.InputVariables() {
		saveFuzzify(&b, v)
	}
	if out != nil {
		saveFuzzify(&b, out)
	}

	if out != nil {
		b.WriteString("DEFUZZIFY " + out.ID() + "\n")
		fmt.Fprintf(&b, "\tMETHOD : %s;\n", out.DefuzzMethod())
		b.WriteString("END_DEFUZZIFY\n\n")
	}

	b.WriteString("RULEBLOCK first\n")
	switch m.InferenceOp() {
	case inference.Min:
		b.WriteString("\tAND : MIN;\n")
	case inference.Max:
		b.WriteString("\tAND : MAX;\n")
	}
	if out != nil {
		switch out.CompositionOp() {
		case variable.CompositionMax:
			b.WriteString("\tACCU : MAX;\n")
		case variable.CompositionMin:
			b.WriteString("\tACCU : BSUM;\n")
		}
	}
	saveRules(&b, m)
	b.WriteString("END_RULEBLOCK\n\n")

	b.WriteString("END_FUNCTION_BLOCK\n")
	return b.String()
}

func saveFuzzify(b *strings.Builder, v *variable.Variable) {
	b.WriteString("FUZZIFY " + v.ID() + "\n")
	yMax := v.Axis().Resolution().YMax()
	for _, s := range v.Sets() {
		pairs := functionToPairs(s.Func(), v.Axis(), yMax)
		fmt.Fprintf(b, "\tTERM %s := %s;\n", s.ID(), formatLiteral(pairs, s.Func().Kind()))
	}
	b.WriteString("END_FUZZIFY\n\n")
}

func formatLiteral(pairs []pair, kind membership.Kind) string {
	if kind == membership.Singleton && len(pairs) == 1 {
		return formatNum(pairs[0].x)
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("(%s, %s)", formatNum(p.x), formatNum(p.y))
	}
	return strings.Join(parts, " ")
}

// saveRules emits one RULE line per linear cell index 0..Len()-1, in the
// strict "(var IS term) AND ... THEN (out IS term)" form, per §4.6.
func saveRules(b *strings.Builder, m *model.Model) {
	inputs := m.InputVariables()
	out := m.OutputVariable()
	table := m.Table()

	for idx := 0; idx < table.Len(); idx++ {
		positions := table.Decode(idx)
		cell := table.Get(idx)
		if cell == ruletable.NoRule || out == nil {
			fmt.Fprintf(b, "\tRULE %d : (* No Rule Specified *)\n", idx+1)
			continue
		}

		conds := make([]string, len(inputs))
		for i, v := range inputs {
			term := setIDAtPosition(v, positions[i])
			conds[i] = fmt.Sprintf("(%s IS %s)", v.ID(), term)
		}
		outTerm := setIDAtPosition(out, int(cell))
		fmt.Fprintf(b, "\tRULE %d : IF %s THEN (%s IS %s);\n", idx+1, strings.Join(conds, " AND "), out.ID(), outTerm)
	}
}

func setIDAtPosition(v *variable.Variable, pos int) string {
	for _, s := range v.Sets() {
		if s.Position() == pos {
			return s.ID()
		}
	}
	return "?"
}
