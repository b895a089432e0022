package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/failparse/failparse/internal/enhance"
	"github.com/failparse/failparse/pkg/models"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse one blob of raw test output into a failure record",
	Long: `Parse raw test-runner output from a file (or stdin when the file
is "-") and print the synthesized failure record.

Examples:
  failparse parse ./captured-output.txt
  pytest 2>&1 | failparse parse - --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "text", "Output format (text, json, yaml)")
}

func runParse(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	engine := enhance.NewEngine()
	failure, ok := engine.Parse(string(data))
	if !ok {
		failure = models.FallbackFailure()
	}

	switch parseFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(failure)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(failure)
	case "text":
		printFailure(os.Stdout, failure)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", parseFormat)
	}
}

func printFailure(w io.Writer, f *models.Failure) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	header := strings.ToUpper(f.Type)
	if f.File != "" {
		loc := f.File
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		header = fmt.Sprintf("%s in %s", header, loc)
	}
	_, _ = bold.Fprintln(w, header)
	fmt.Fprintln(w)

	fmt.Fprintln(w, f.Message)
	fmt.Fprintln(w)

	if f.Assertion.Available {
		_, _ = bold.Fprintln(w, "ASSERTION")
		if f.Assertion.Expected != "" || f.Assertion.Actual != "" {
			fmt.Fprintf(w, "  expected: %s\n", f.Assertion.Expected)
			fmt.Fprintf(w, "  actual:   %s\n", f.Assertion.Actual)
			if f.Assertion.Operator != "" {
				fmt.Fprintf(w, "  operator: %s\n", f.Assertion.Operator)
			}
		} else if f.Assertion.Expression != "" {
			fmt.Fprintf(w, "  %s\n", f.Assertion.Expression)
		}
		fmt.Fprintln(w)
	}

	_, _ = dim.Fprintf(w, "framework: %s  category: %s\n", f.Framework, f.Category)
	printConfidenceBar(w, f.ParsingConfidence)
}

func printConfidenceBar(w io.Writer, c models.Confidence) {
	const barWidth = 24

	var pct int
	var barColor *color.Color
	switch c {
	case models.ConfidenceHigh:
		pct, barColor = 90, color.New(color.FgGreen)
	case models.ConfidenceMedium:
		pct, barColor = 65, color.New(color.FgYellow)
	case models.ConfidenceLow:
		pct, barColor = 30, color.New(color.FgRed)
	default:
		pct, barColor = 0, color.New(color.FgHiBlack)
	}

	filled := pct * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Fprintf(w, "confidence: %-6s ", c)
	_, _ = barColor.Fprint(w, bar)
	fmt.Fprintln(w)
}
