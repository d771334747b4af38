package outline

import (
	"fmt"
	"log/slog"
	"sync"
)

// AnalyzerConfig configures an Analyzer.
type AnalyzerConfig struct {
	// Opener decodes documents. A nil Opener makes every call fail with
	// ErrEngineUnavailable.
	Opener Opener
	// Options tunes the heuristics (zero value: defaults).
	Options Options
	// Logger is the structured logger to use (default: slog.Default()).
	Logger *slog.Logger
}

// Analyzer opens documents with its engine and runs the outline pipeline.
// It is safe for concurrent use; each call works on its own document.
type Analyzer struct {
	opener Opener
	logger *slog.Logger

	mu   sync.RWMutex
	opts Options
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		opener: cfg.Opener,
		logger: logger.With("component", "analyzer"),
		opts:   cfg.Options.withDefaults(),
	}
}

// Options returns the heuristics currently in effect.
func (a *Analyzer) Options() Options {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.opts
}

// SetOptions replaces the heuristics for subsequent calls.
func (a *Analyzer) SetOptions(opts Options) {
	a.mu.Lock()
	a.opts = opts.withDefaults()
	a.mu.Unlock()
}

// Available reports whether a decoding engine is configured.
func (a *Analyzer) Available() bool {
	return a.opener != nil
}

// AnalyzeFile opens the PDF at path and returns its outline.
func (a *Analyzer) AnalyzeFile(path string, maxPages int) (*Result, error) {
	if a.opener == nil {
		return nil, &AnalysisError{Op: "engine", Err: ErrEngineUnavailable}
	}
	doc, err := a.opener.OpenFile(path)
	if err != nil {
		return nil, &AnalysisError{Op: "open", Err: fmt.Errorf("%w: %w", ErrOpen, err)}
	}
	defer doc.Close()
	return a.AnalyzeDocument(doc, maxPages)
}

// AnalyzeBytes decodes an in-memory PDF and returns its outline.
func (a *Analyzer) AnalyzeBytes(data []byte, maxPages int) (*Result, error) {
	if a.opener == nil {
		return nil, &AnalysisError{Op: "engine", Err: ErrEngineUnavailable}
	}
	doc, err := a.opener.OpenBytes(data)
	if err != nil {
		return nil, &AnalysisError{Op: "open", Err: fmt.Errorf("%w: %w", ErrOpen, err)}
	}
	defer doc.Close()
	return a.AnalyzeDocument(doc, maxPages)
}

// AnalyzeDocument runs the pipeline over an already opened document.
// The caller keeps ownership of doc.
func (a *Analyzer) AnalyzeDocument(doc Document, maxPages int) (*Result, error) {
	result, err := Analyze(doc, maxPages, a.Options())
	if err != nil {
		a.logger.Debug("analysis failed", "pages", doc.PageCount(), "error", err)
		return nil, err
	}
	a.logger.Debug("analysis complete",
		"pages", result.Stats.Pages,
		"max_pages", maxPages,
		"sections", len(result.Sections),
		"fonts", result.Stats.Fonts,
	)
	return result, nil
}
