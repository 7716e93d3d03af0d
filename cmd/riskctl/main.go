// riskctl is the operator CLI: one-shot predictions against a running
// service and incident database maintenance.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riskctl",
	Short: "Operator tooling for the landslide risk service",
}

func init() {
	rootCmd.AddCommand(newPredictCmd())
	rootCmd.AddCommand(newImportIncidentsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
