package outline

// Analyze runs the full pipeline over an opened document. Only the first
// maxPages pages are processed when maxPages > 0; Stats.Pages always reports
// the document's total page count.
func Analyze(doc Document, maxPages int, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	totalPages := doc.PageCount()

	pages, sizes, err := Collect(doc, maxPages)
	if err != nil {
		return nil, err
	}

	if len(sizes) == 0 {
		return emptyResult(totalPages), nil
	}

	median := Median(sizes)
	th := opts.ThresholdsFor(median)

	sections := Consolidate(Classify(pages, th, opts.MaxHeadingLen))

	return &Result{
		Title:    SelectTitle(pages, th, opts.MaxHeadingLen),
		Sections: sections,
		Stats:    Summarize(totalPages, pages, opts.WordsPerMinute),
	}, nil
}

// emptyResult is the outline of a document without any text. It carries no
// read-time estimate.
func emptyResult(totalPages int) *Result {
	return &Result{
		Title:    "",
		Sections: []Heading{},
		Stats:    Stats{Pages: totalPages, Fonts: 0},
	}
}
