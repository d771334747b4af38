package outline

import "unicode/utf8"

// SelectTitle picks the largest span on the first page (first occurrence wins
// ties) and returns its text if it clears the H2 cutoff and is shorter than
// maxLen characters. Otherwise it returns "".
func SelectTitle(pages PageSpans, th Thresholds, maxLen int) string {
	if len(pages) == 0 {
		return ""
	}

	var largest *Span
	for i := range pages[0] {
		s := &pages[0][i]
		if s.Text == "" {
			continue
		}
		if largest == nil || s.Size > largest.Size {
			largest = s
		}
	}
	if largest == nil {
		return ""
	}

	if largest.Size >= th.H2 && utf8.RuneCountInString(largest.Text) < maxLen {
		return largest.Text
	}
	return ""
}
