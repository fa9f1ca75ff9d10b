package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loian/fclfuzzy/fcl"
	"github.com/loian/fclfuzzy/grid"
	"github.com/loian/fclfuzzy/ruletable"
)

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.fcl>",
		Short: "Parse an FCL file and print a summary of its variables, sets, and rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			m, err := fcl.Load(path, grid.DefaultResolution(), true)
			if err != nil {
				logger.Error().Err(err).Str("path", path).Msg("load failed")
				return err
			}

			ruleCount := 0
			for i := 0; i < m.Table().Len(); i++ {
				if m.Table().Get(i) != ruletable.NoRule {
					ruleCount++
				}
			}

			logger.Info().
				Str("path", path).
				Int("input_vars", len(m.InputVariables())).
				Int("rule_cells", m.Table().Len()).
				Int("rules_set", ruleCount).
				Msg("loaded")

			fmt.Printf("FCL file: %s\n", path)
			for _, v := range m.InputVariables() {
				fmt.Printf("  input  %-20s sets=%d\n", v.ID(), v.SetCount())
			}
			if out := m.OutputVariable(); out != nil {
				fmt.Printf("  output %-20s sets=%d method=%s\n", out.ID(), out.SetCount(), out.DefuzzMethod())
			}
			fmt.Printf("  rule table: %d cells, %d populated\n", m.Table().Len(), ruleCount)
			return nil
		},
	}
}
