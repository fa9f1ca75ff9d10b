package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/colorstring"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/loian/fclfuzzy/defuzz"
	"github.com/loian/fclfuzzy/fcl"
	"github.com/loian/fclfuzzy/grid"
)

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file.fcl> <csv>",
		Short: "Evaluate every row of a CSV (one column per input variable) and summarize",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := fcl.Load(args[0], grid.DefaultResolution(), true)
			if err != nil {
				logger.Error().Err(err).Str("path", args[0]).Msg("load failed")
				return err
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			r := csv.NewReader(f)

			header, err := r.Read()
			if err != nil {
				return fmt.Errorf("fclctl: reading csv header: %w", err)
			}
			colIdx := make(map[string]int, len(header))
			for i, h := range header {
				colIdx[strings.ToLower(strings.TrimSpace(h))] = i
			}

			var rows [][]string
			for {
				row, err := r.Read()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				rows = append(rows, row)
			}

			bar := progressbar.Default(int64(len(rows)), "evaluating")
			ok, noOutput := 0, 0
			for _, row := range rows {
				sess := m.NewSession()
				for i, v := range m.InputVariables() {
					col, found := colIdx[strings.ToLower(v.ID())]
					if !found {
						return fmt.Errorf("fclctl: csv has no column for input variable %q", v.ID())
					}
					val, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
					if err != nil {
						return fmt.Errorf("fclctl: row %v: %w", row, err)
					}
					sess.SetValue(i, val)
				}
				if err := sess.Infer(); err != nil {
					return err
				}
				if _, err := sess.OutputValue(); err == defuzz.ErrNoOutput {
					noOutput++
				} else if err != nil {
					return err
				} else {
					ok++
				}
				bar.Add(1)
			}
			fmt.Println()
			fmt.Println(colorstring.Color(fmt.Sprintf("[green]%d ok[reset] / [red]%d NoOutput[reset]", ok, noOutput)))
			return nil
		},
	}
}
