package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/docustruct/internal/api"
	"github.com/jackzampolin/docustruct/internal/engine"
	"github.com/jackzampolin/docustruct/internal/outline"
)

// Exit codes of the analyze command.
const (
	exitUsage      = 1 // missing or nonexistent input
	exitProcessing = 2 // the PDF could not be analyzed
)

var (
	analyzeOut      string
	analyzeMaxPages int
	analyzeSave     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.pdf>",
	Short: "Outline a PDF locally",
	Long: `Analyze a PDF in-process and print its outline as indented JSON.

Exit status is 1 when the path is missing or does not exist and 2 when the
document cannot be processed.

Examples:
  docustruct analyze report.pdf
  docustruct analyze report.pdf --max-pages 10
  docustruct analyze report.pdf --out report.outline.json
  docustruct analyze report.pdf --save        # writes to ~/.docustruct/results/`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return &exitError{code: exitUsage, err: errors.New("missing path to a PDF file")}
		}
		path := args[0]
		if _, err := os.Stat(path); err != nil {
			return &exitError{code: exitUsage, err: fmt.Errorf("file not found: %s", path)}
		}

		h, mgr, err := loadConfig(nil)
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		maxPages := cfg.Analysis.MaxPages
		if cmd.Flags().Changed("max-pages") {
			maxPages = analyzeMaxPages
		}

		analyzer := outline.NewAnalyzer(outline.AnalyzerConfig{
			Opener:  engine.New(engine.Config{}),
			Options: cfg.ToOptions(),
		})
		result, err := analyzer.AnalyzeFile(path, maxPages)
		if err != nil {
			return &exitError{code: exitProcessing, err: fmt.Errorf("error processing PDF: %w", err)}
		}

		out := analyzeOut
		if analyzeSave && out == "" {
			if err := h.EnsureExists(); err != nil {
				return err
			}
			out = h.ResultPath(path)
		}
		if out != "" {
			if err := api.OutputToFile(out, api.OutputFormatJSON, result); err != nil {
				return err
			}
			fmt.Printf("Wrote: %s\n", out)
			return nil
		}

		// JSON unless --output was given explicitly.
		if cmd.Flags().Changed("output") {
			return api.Output(result)
		}
		return api.OutputAs(api.OutputFormatJSON, result)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "Write the outline as JSON to this file")
	analyzeCmd.Flags().IntVar(&analyzeMaxPages, "max-pages", 0, "Analyze only the first N pages (0 = all)")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Save the outline under the home results directory")

	rootCmd.AddCommand(analyzeCmd)
}
