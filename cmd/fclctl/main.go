// Command fclctl is a thin CLI over the model/fcl packages: load an FCL
// file, run one inference, or batch-evaluate a CSV of input rows. It proves
// the external interface end-to-end without exposing a C ABI.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

func main() {
	root := &cobra.Command{
		Use:   "fclctl",
		Short: "Load and evaluate FCL fuzzy controllers",
	}
	root.AddCommand(newLoadCmd(), newInferCmd(), newBatchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
