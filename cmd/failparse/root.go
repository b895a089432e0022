package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "failparse",
	Short: "Heuristic diagnostics for raw test failure output",
	Long: `Failparse converts raw, unstructured output from automated test
runners (pytest, Selenium, JavaScript, JUnit, and unrecognized formats)
into structured, confidence-scored failure records.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	Execute()
}
