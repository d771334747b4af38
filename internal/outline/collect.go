package outline

import (
	"fmt"
	"math"
	"strings"
)

// Collect walks the first maxPages pages of doc (all pages when maxPages <= 0)
// and returns the non-empty spans of each page along with the flat list of
// their font sizes. Both aggregates are built from the same span population.
func Collect(doc Document, maxPages int) (PageSpans, []float64, error) {
	limit := doc.PageCount()
	if maxPages > 0 && maxPages < limit {
		limit = maxPages
	}

	pages := make(PageSpans, limit)
	var sizes []float64

	for pno := 0; pno < limit; pno++ {
		page, err := doc.Page(pno)
		if err != nil {
			return nil, nil, &AnalysisError{Op: "page", Err: fmt.Errorf("load page %d: %w", pno+1, err)}
		}
		raw, err := page.Spans()
		if err != nil {
			return nil, nil, &AnalysisError{Op: "page", Err: fmt.Errorf("read spans of page %d: %w", pno+1, err)}
		}

		spans := make([]Span, 0, len(raw))
		for i, s := range raw {
			s, ok, err := normalizeSpan(s)
			if err != nil {
				return nil, nil, &AnalysisError{Op: "span", Err: fmt.Errorf("page %d span %d: %w", pno+1, i, err)}
			}
			if !ok {
				continue
			}
			spans = append(spans, s)
			sizes = append(sizes, s.Size)
		}
		pages[pno] = spans
	}

	return pages, sizes, nil
}

// normalizeSpan trims the span text. It reports false for spans with no text
// and an error for text spans whose size is unusable.
func normalizeSpan(s Span) (Span, bool, error) {
	s.Text = strings.TrimSpace(s.Text)
	if s.Text == "" {
		return s, false, nil
	}
	if math.IsNaN(s.Size) || math.IsInf(s.Size, 0) || s.Size <= 0 {
		return s, false, fmt.Errorf("%w: size %v for %q", ErrInvalidSpan, s.Size, s.Text)
	}
	return s, true, nil
}

// SpanCount returns the number of spans across all pages.
func (p PageSpans) SpanCount() int {
	n := 0
	for _, spans := range p {
		n += len(spans)
	}
	return n
}
