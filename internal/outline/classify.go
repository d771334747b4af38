package outline

import "unicode/utf8"

// Classify proposes a heading for every span at or above the H2 cutoff whose
// text is shorter than maxLen characters. Output follows page order, then
// span order within the page.
func Classify(pages PageSpans, th Thresholds, maxLen int) []Heading {
	var headings []Heading
	for pno, spans := range pages {
		for _, s := range spans {
			if s.Text == "" {
				continue
			}
			if s.Size < th.H2 || utf8.RuneCountInString(s.Text) >= maxLen {
				continue
			}
			headings = append(headings, Heading{
				Level: levelFor(s.Size, th),
				Text:  s.Text,
				Page:  pno + 1,
			})
		}
	}
	return headings
}

// levelFor maps a size that already passed the H2 gate to a level.
// The H3 fallback is unreachable after the gate; only H1 and H2 come out.
func levelFor(size float64, th Thresholds) Level {
	level := LevelH3
	if size >= th.H1 {
		level = LevelH1
	} else if size >= th.H2 {
		level = LevelH2
	}
	return level
}
