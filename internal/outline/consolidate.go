package outline

// HeadingSeparator joins the texts of merged headings.
const HeadingSeparator = " / "

// Consolidate merges runs of consecutive headings that share both level and
// page into a single heading, folding texts left to right. The input slice is
// left untouched and order is preserved.
func Consolidate(headings []Heading) []Heading {
	out := make([]Heading, 0, len(headings))
	for _, h := range headings {
		if n := len(out); n > 0 && out[n-1].Level == h.Level && out[n-1].Page == h.Page {
			out[n-1].Text += HeadingSeparator + h.Text
			continue
		}
		out = append(out, h)
	}
	return out
}
