package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loian/fclfuzzy/defuzz"
	"github.com/loian/fclfuzzy/fcl"
	"github.com/loian/fclfuzzy/grid"
)

func newInferCmd() *cobra.Command {
	var inputs []string
	cmd := &cobra.Command{
		Use:   "infer <file.fcl>",
		Short: "Load an FCL file, run one inference, and print the defuzzified output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := fcl.Load(args[0], grid.DefaultResolution(), true)
			if err != nil {
				logger.Error().Err(err).Str("path", args[0]).Msg("load failed")
				return err
			}

			values, err := parseInputFlags(inputs)
			if err != nil {
				return err
			}

			sess := m.NewSession()
			for i, v := range m.InputVariables() {
				val, ok := values[strings.ToLower(v.ID())]
				if !ok {
					return fmt.Errorf("fclctl: missing --input for variable %q", v.ID())
				}
				if err := sess.SetValue(i, val); err != nil {
					return err
				}
			}
			if err := sess.Infer(); err != nil {
				return err
			}

			out, err := sess.OutputValue()
			if err == defuzz.ErrNoOutput {
				fmt.Println("NoOutput")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("%s = %g\n", m.OutputVariable().ID(), out)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&inputs, "input", nil, "Name=Value pair, repeatable")
	return cmd
}

func parseInputFlags(inputs []string) (map[string]float64, error) {
	values := make(map[string]float64, len(inputs))
	for _, kv := range inputs {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("fclctl: --input must be Name=Value, got %q", kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("fclctl: --input %q: %w", kv, err)
		}
		values[strings.ToLower(strings.TrimSpace(parts[0]))] = v
	}
	return values, nil
}
