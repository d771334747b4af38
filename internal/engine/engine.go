// Package engine decodes PDFs into outline spans.
//
// Text is pulled from the embedded text layer with github.com/ledongthuc/pdf,
// which reports one positioned glyph at a time. Glyphs are folded into spans
// (same font, same size, same baseline) and spans into blocks (separated by a
// vertical gap). Scanned, image-only PDFs produce no spans.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"github.com/jackzampolin/docustruct/internal/outline"
)

// Config tunes how glyphs are grouped into spans.
type Config struct {
	// LineTolerance is the maximum baseline drift, as a fraction of the font
	// size, for two glyphs to share a span (default: 0.2).
	LineTolerance float64
	// SpaceGap is the horizontal gap, as a fraction of the font size, above
	// which a word break is inserted between glyphs (default: 0.25).
	SpaceGap float64
	// BlockGap is the vertical distance, as a multiple of the font size,
	// that starts a new block (default: 1.8).
	BlockGap float64
	// Logger is the structured logger to use (default: slog.Default()).
	Logger *slog.Logger
}

// Engine opens PDFs with the ledongthuc/pdf reader.
type Engine struct {
	grouping grouping
	logger   *slog.Logger
}

var _ outline.Opener = (*Engine)(nil)

// New creates an Engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	g := grouping{
		lineTolerance: cfg.LineTolerance,
		spaceGap:      cfg.SpaceGap,
		blockGap:      cfg.BlockGap,
	}
	return &Engine{
		grouping: g.withDefaults(),
		logger:   logger.With("component", "engine"),
	}
}

// OpenFile opens the PDF at path.
func (e *Engine) OpenFile(path string) (doc outline.ClosableDocument, err error) {
	defer recoverInto(&err, "open")

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	n := r.NumPage()
	e.logger.Debug("opened pdf", "path", path, "pages", n)
	return &document{reader: r, closer: f, pages: n, grouping: e.grouping}, nil
}

// OpenBytes opens an in-memory PDF.
func (e *Engine) OpenBytes(data []byte) (doc outline.ClosableDocument, err error) {
	defer recoverInto(&err, "open")

	if len(data) == 0 {
		return nil, errors.New("empty pdf data")
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	n := r.NumPage()
	e.logger.Debug("opened pdf", "bytes", len(data), "pages", n)
	return &document{reader: r, pages: n, grouping: e.grouping}, nil
}

// document adapts a pdf.Reader to outline.Document. The page count is read
// once at open time so it is never resolved outside a recover.
type document struct {
	reader   *pdf.Reader
	closer   io.Closer
	pages    int
	grouping grouping
}

func (d *document) PageCount() int {
	return d.pages
}

// Page walks the page tree, which the reader resolves lazily.
func (d *document) Page(index int) (pg outline.Page, err error) {
	defer recoverInto(&err, "load page")

	if index < 0 || index >= d.pages {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, d.pages)
	}
	return &page{p: d.reader.Page(index + 1), grouping: d.grouping}, nil
}

func (d *document) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// page adapts a pdf.Page to outline.Page.
type page struct {
	p        pdf.Page
	grouping grouping
}

func (p *page) Spans() (spans []outline.Span, err error) {
	defer recoverInto(&err, "decode page content")

	if p.p.V.IsNull() {
		return nil, nil
	}
	return p.grouping.spans(p.p.Content().Text), nil
}

// recoverInto converts a panic raised by the pdf reader on malformed input
// into an error.
func recoverInto(err *error, op string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: malformed pdf: %v", op, r)
	}
}
