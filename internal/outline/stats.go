package outline

import (
	"fmt"
	"strings"
)

// Summarize computes document statistics. totalPages is the page count of the
// whole document, not just the processed pages. Fonts are counted over the
// collected spans only, so whitespace-only runs do not contribute a font.
func Summarize(totalPages int, pages PageSpans, wordsPerMinute int) Stats {
	fonts := make(map[string]struct{})
	for _, spans := range pages {
		for _, s := range spans {
			fonts[s.Font] = struct{}{}
		}
	}
	return Stats{
		Pages:             totalPages,
		Fonts:             len(fonts),
		EstimatedReadTime: EstimateReadTime(pages, wordsPerMinute),
	}
}

// EstimateReadTime counts whitespace-separated words and formats the reading
// time in whole minutes, rounding down with a floor of one minute.
func EstimateReadTime(pages PageSpans, wordsPerMinute int) string {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := 0
	for _, spans := range pages {
		for _, s := range spans {
			words += len(strings.Fields(s.Text))
		}
	}
	minutes := max(1, words/wordsPerMinute)
	return fmt.Sprintf("%d min", minutes)
}
