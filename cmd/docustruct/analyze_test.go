package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackzampolin/docustruct/internal/outline"
	"github.com/jackzampolin/docustruct/internal/testutil"
)

// runCLI executes the root command with args and isolated home/config.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	home := t.TempDir()
	t.Cleanup(func() {
		analyzeOut, analyzeMaxPages, analyzeSave = "", 0, false
		cfgFile, homeDir = "", ""
	})
	rootCmd.SetArgs(append([]string{"--home", home}, args...))
	return rootCmd.ExecuteContext(context.Background())
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if err != nil {
		return 1
	}
	return 0
}

func TestAnalyzeCommand_ExitCodes(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfg, []byte("analysis:\n  max_pages: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	junk := filepath.Join(t.TempDir(), "junk.pdf")
	if err := os.WriteFile(junk, []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing path", []string{"analyze", "--config", cfg}, exitUsage},
		{"nonexistent file", []string{"analyze", "--config", cfg, "/does/not/exist.pdf"}, exitUsage},
		{"unreadable pdf", []string{"analyze", "--config", cfg, junk}, exitProcessing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(runCLI(t, tt.args...)); got != tt.want {
				t.Errorf("exit code = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAnalyzeCommand_Out(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfg, []byte("analysis:\n  max_pages: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	pdf := testutil.WritePDF(t, "guide.pdf",
		[]testutil.TextLine{
			{Text: "Field Guide", Size: 28, X: 72, Y: 700, Bold: true},
			{Text: "first page body", Size: 10, X: 72, Y: 640},
		},
	)
	out := filepath.Join(t.TempDir(), "guide.json")

	if err := runCLI(t, "analyze", "--config", cfg, pdf, "--out", out); err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var result outline.Result
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.Title != "Field Guide" || result.Stats.Pages != 1 {
		t.Errorf("result = %+v", result)
	}
}
