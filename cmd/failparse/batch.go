package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/failparse/failparse/internal/enhance"
	"github.com/failparse/failparse/pkg/models"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Enhance a JSON batch of test results",
	Long: `Read a JSON batch of test results ({"requestId": ..., "results": [...]}),
attach failure records to every failed result, and print the enhanced
batch with parsing statistics.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read batch: %w", err)
	}

	var req models.BatchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to parse batch: %w", err)
	}

	var spin *spinner.Spinner
	if isatty.IsTerminal(os.Stderr.Fd()) {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		spin.Suffix = fmt.Sprintf(" Enhancing %d results...", len(req.Results))
		spin.Start()
	}

	enhancer := enhance.NewEnhancer(enhance.NewEngine())
	resp, err := enhancer.ProcessBatch(req)

	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "attempted: %d  parsed: %d  success rate: %.1f%%\n",
		resp.ParsingStats.Attempted, resp.ParsingStats.Parsed, resp.ParsingStats.SuccessRate)
	return nil
}
