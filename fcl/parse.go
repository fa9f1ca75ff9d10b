package fcl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/loian/fclfuzzy/defuzz"
	"github.com/loian/fclfuzzy/ferr"
	"github.com/loian/fclfuzzy/grid"
	"github.com/loian/fclfuzzy/inference"
	"github.com/loian/fclfuzzy/model"
	"github.com/loian/fclfuzzy/set"
	"github.com/loian/fclfuzzy/variable"
)

// section tracks which block the line scanner is currently inside.
type section int

const (
	secNone section = iota
	secVarInput
	secVarOutput
	secFuzzify
	secRuleBlock
	secDefuzzify
)

// pendingVar remembers a VAR_INPUT/VAR_OUTPUT declaration until every
// declaration has been seen, so that all input variables exist (in
// declaration order) before any FUZZIFY block needs to look one up.
type pendingVar struct {
	id       string
	lo, hi   float64
	isOutput bool
}

// Load reads and parses an FCL file into a new Model.
func Load(path string, res grid.Resolution, autoUnique bool) (*model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ferr.Wrap(ferr.FileOpen, path, err)
	}
	defer f.Close()
	return LoadReader(f, res, autoUnique)
}

// LoadString parses FCL text held entirely in memory.
func LoadString(content string, res grid.Resolution, autoUnique bool) (*model.Model, error) {
	return LoadReader(strings.NewReader(content), res, autoUnique)
}

// LoadReader is the shared parsing entry point: line-buffered, single
// pass, dispatching on the current section per §4.6's loader contract.
func LoadReader(r io.Reader, res grid.Resolution, autoUnique bool) (*model.Model, error) {
	scanner := bufio.NewScanner(r)

	m := model.New(res, autoUnique)
	var pending []pendingVar
	var inputIDs []string
	cur := secNone
	var fuzzifyVar string
	var andOp, accuOp string
	foundBlock := false
	materialized := false

	materialize := func() error {
		if materialized {
			return nil
		}
		materialized = true
		for _, pv := range pending {
			if pv.isOutput {
				if _, err := m.SetOutputVariable(pv.id, pv.lo, pv.hi, defuzz.COG, variable.CompositionMax); err != nil {
					return err
				}
			} else {
				if _, err := m.AddInputVariable(pv.id, pv.lo, pv.hi); err != nil {
					return err
				}
				inputIDs = append(inputIDs, pv.id)
			}
		}
		return nil
	}

	for scanner.Scan() {
		raw := scanner.Text()
		code, comment := stripComment(raw)
		if code == "" {
			continue
		}
		switch {
		case code == "FUNCTION_BLOCK" || strings.HasPrefix(code, "FUNCTION_BLOCK "):
			foundBlock = true
		case code == "VAR_INPUT":
			cur = secVarInput
		case code == "VAR_OUTPUT":
			cur = secVarOutput
		case code == "END_VAR":
			cur = secNone
		case strings.HasPrefix(code, "FUZZIFY"):
			if err := materialize(); err != nil {
				return nil, err
			}
			fuzzifyVar = strings.TrimSpace(strings.TrimPrefix(code, "FUZZIFY"))
			cur = secFuzzify
		case code == "END_FUZZIFY":
			cur = secNone
		case strings.HasPrefix(code, "DEFUZZIFY"):
			if err := materialize(); err != nil {
				return nil, err
			}
			cur = secDefuzzify
		case code == "END_DEFUZZIFY":
			cur = secNone
		case strings.HasPrefix(code, "RULEBLOCK"):
			if err := materialize(); err != nil {
				return nil, err
			}
			cur = secRuleBlock
			andOp, accuOp = "", ""
		case code == "END_RULEBLOCK":
			cur = secNone
		case code == "END_FUNCTION_BLOCK":
			cur = secNone

		case cur == secVarInput:
			id, ok := parseVarDecl(code)
			if !ok {
				continue
			}
			lo, hi, ok := parseRange(comment)
			if !ok {
				return nil, ferr.New(ferr.InvalidFileFormat, id)
			}
			pending = append(pending, pendingVar{id: id, lo: lo, hi: hi})

		case cur == secVarOutput:
			id, ok := parseVarDecl(code)
			if !ok {
				continue
			}
			lo, hi, ok := parseRange(comment)
			if !ok {
				return nil, ferr.New(ferr.InvalidFileFormat, id)
			}
			pending = append(pending, pendingVar{id: id, lo: lo, hi: hi, isOutput: true})

		case cur == secFuzzify:
			if err := parseFuzzifyLine(m, res, fuzzifyVar, code); err != nil {
				return nil, err
			}

		case cur == secDefuzzify:
			if strings.HasPrefix(code, "METHOD") {
				method, err := parseDefuzzMethod(code)
				if err != nil {
					return nil, err
				}
				if out := m.OutputVariable(); out != nil {
					out.SetDefuzzMethod(method)
				}
			}

		case cur == secRuleBlock:
			switch {
			case strings.HasPrefix(code, "AND"):
				andOp = extractAfterColon(code)
			case strings.HasPrefix(code, "OR"):
				andOp = extractAfterColon(code)
			case strings.HasPrefix(code, "ACCU"):
				accuOp = extractAfterColon(code)
			case strings.HasPrefix(code, "RULE"):
				if !strings.Contains(code, "IF") {
					// An empty-cell placeholder, e.g. "RULE 3 : (* No Rule Specified *)".
					continue
				}
				if err := parseRuleLine(m, inputIDs, code); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, ferr.Wrap(ferr.UnexpectedEof, "", err)
	}
	if !foundBlock {
		return nil, ferr.New(ferr.InvalidFileFormat, "FUNCTION_BLOCK not found")
	}
	if err := materialize(); err != nil {
		return nil, err
	}

	switch strings.ToUpper(andOp) {
	case "MIN", "":
		m.SetInferenceOp(inference.Min)
	case "MAX":
		m.SetInferenceOp(inference.Max)
	default:
		return nil, ferr.New(ferr.InvalidMethod, andOp)
	}
	if out := m.OutputVariable(); out != nil {
		switch strings.ToUpper(accuOp) {
		case "MAX", "":
			out.SetCompositionOp(variable.CompositionMax)
		case "BSUM":
			out.SetCompositionOp(variable.CompositionMin)
		default:
			return nil, ferr.New(ferr.InvalidMethod, accuOp)
		}
	}

	return m, nil
}

func extractAfterColon(code string) string {
	code = strings.TrimSuffix(strings.TrimSpace(code), ";")
	idx := strings.Index(code, ":")
	if idx == -1 {
		return ""
	}
	return strings.TrimSpace(code[idx+1:])
}

func parseDefuzzMethod(code string) (defuzz.Method, error) {
	v := strings.ToUpper(extractAfterColon(code))
	switch v {
	case "COG":
		return defuzz.COG, nil
	case "MOM":
		return defuzz.MOM, nil
	default:
		return defuzz.COG, ferr.New(ferr.InvalidMethod, v)
	}
}

// ruleCondition is one parsed "var IS term" pairing, from either the
// strict or shorthand antecedent/consequent forms.
type ruleCondition struct {
	variable string
	term     string
}

func parseRuleLine(m *model.Model, inputIDs []string, line string) error {
	line = strings.TrimSuffix(strings.TrimSpace(line), ";")
	ifIdx := strings.Index(line, "IF")
	thenIdx := strings.Index(line, "THEN")
	if ifIdx == -1 || thenIdx == -1 || thenIdx < ifIdx {
		return ferr.New(ferr.EofReadingRules, line)
	}
	antecedentText := strings.TrimSpace(line[ifIdx+len("IF") : thenIdx])
	consequentText := strings.TrimSpace(line[thenIdx+len("THEN"):])

	subconds := strings.Split(antecedentText, "AND")
	for i := range subconds {
		subconds[i] = strings.TrimSpace(subconds[i])
	}
	if len(subconds) == 0 || subconds[0] == "" {
		return ferr.New(ferr.EofReadingRules, line)
	}

	strict := strings.Contains(subconds[0], "(")
	conds := make([]ruleCondition, len(subconds))
	for i, sc := range subconds {
		if strings.Contains(sc, "(") != strict {
			return ferr.New(ferr.InvalidFileFormat, "mixed antecedent forms in rule: "+line)
		}
		if strict {
			v, term, err := parseStrictCondition(sc)
			if err != nil {
				return err
			}
			conds[i] = ruleCondition{variable: v, term: term}
		} else {
			if i >= len(inputIDs) {
				return ferr.New(ferr.EofReadingRules, line)
			}
			conds[i] = ruleCondition{variable: inputIDs[i], term: sc}
		}
	}

	var outTerm string
	if strings.Contains(consequentText, "(") {
		_, term, err := parseStrictCondition(consequentText)
		if err != nil {
			return err
		}
		outTerm = term
	} else {
		if m.OutputVariable() == nil {
			return ferr.New(ferr.EofReadingRules, line)
		}
		outTerm = consequentText
	}

	positions := make([]int, len(m.InputVariables()))
	for _, c := range conds {
		varIdx, setPos, err := findSet(m, c.variable, c.term)
		if err != nil {
			return err
		}
		positions[varIdx] = setPos
	}

	out := m.OutputVariable()
	outPos := -1
	for _, s := range out.Sets() {
		if strings.EqualFold(s.ID(), outTerm) {
			outPos = s.Position()
			break
		}
	}
	if outPos == -1 {
		return ferr.New(ferr.InvalidFileFormat, outTerm)
	}

	return m.SetRule(positions, outPos)
}

func parseStrictCondition(sc string) (variableID, term string, err error) {
	sc = strings.TrimSpace(sc)
	sc = strings.TrimPrefix(sc, "(")
	sc = strings.TrimSuffix(sc, ")")
	parts := strings.SplitN(sc, " IS ", 2)
	if len(parts) != 2 {
		return "", "", ferr.New(ferr.InvalidFileFormat, sc)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

func findSet(m *model.Model, varID, setID string) (varIdx, setPos int, err error) {
	for i, v := range m.InputVariables() {
		if !strings.EqualFold(v.ID(), varID) {
			continue
		}
		for _, s := range v.Sets() {
			if strings.EqualFold(s.ID(), setID) {
				return i, s.Position(), nil
			}
		}
		return 0, 0, ferr.New(ferr.InvalidFileFormat, setID)
	}
	return 0, 0, ferr.New(ferr.InvalidFileFormat, varID)
}

// parseFuzzifyLine handles one TERM line within a FUZZIFY block. The
// grammar always places VAR_INPUT/VAR_OUTPUT before any FUZZIFY block, so
// by the time this runs the owning variable already exists in m.
func parseFuzzifyLine(m *model.Model, res grid.Resolution, varID, code string) error {
	if !strings.HasPrefix(code, "TERM") {
		return nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(code, "TERM"))
	assignIdx := strings.Index(rest, ":=")
	if assignIdx == -1 {
		return ferr.New(ferr.EofReadingSets, varID)
	}
	termID := strings.TrimSpace(rest[:assignIdx])
	literal := strings.TrimSpace(rest[assignIdx+2:])

	varIdx, isOutput, axis, err := findVariableAxis(m, varID)
	if err != nil {
		return ferr.Wrap(ferr.EofReadingSets, varID, err)
	}

	pairs, isSingleton, err := parsePairs(literal)
	if err != nil {
		return ferr.Wrap(ferr.InvalidFileFormat, termID, err)
	}
	fn, err := buildFunction(res, axis, pairs, isSingleton)
	if err != nil {
		return ferr.Wrap(ferr.InvalidFileFormat, termID, err)
	}
	s, err := set.New(termID, fn)
	if err != nil {
		return ferr.Wrap(ferr.InvalidFileFormat, termID, err)
	}

	if isOutput {
		return m.AddOutputSet(s)
	}
	return m.AddInputSet(varIdx, s)
}

func findVariableAxis(m *model.Model, varID string) (varIdx int, isOutput bool, axis grid.AxisMap, err error) {
	for i, v := range m.InputVariables() {
		if strings.EqualFold(v.ID(), varID) {
			return i, false, v.Axis(), nil
		}
	}
	if out := m.OutputVariable(); out != nil && strings.EqualFold(out.ID(), varID) {
		return 0, true, out.Axis(), nil
	}
	return 0, false, grid.AxisMap{}, fmt.Errorf("fcl: unknown variable %q in FUZZIFY block", varID)
}
