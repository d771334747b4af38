package outline

import "errors"

// fakeDoc is an in-memory Document for tests.
type fakeDoc struct {
	pages   [][]Span
	pageErr map[int]error
	closed  bool
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) Page(index int) (Page, error) {
	if err := d.pageErr[index]; err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.pages) {
		return nil, errors.New("page out of range")
	}
	return fakePage(d.pages[index]), nil
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}

type fakePage []Span

func (p fakePage) Spans() ([]Span, error) { return p, nil }

// fakeOpener returns doc for every call, or err when set.
type fakeOpener struct {
	doc *fakeDoc
	err error
}

func (o *fakeOpener) OpenFile(string) (ClosableDocument, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.doc, nil
}

func (o *fakeOpener) OpenBytes([]byte) (ClosableDocument, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.doc, nil
}

// sp builds a span with the default test font.
func sp(text string, size float64) Span {
	return Span{Text: text, Size: size, Font: "Body"}
}

// repeatSpans returns n body spans of the given size.
func repeatSpans(n int, size float64) []Span {
	spans := make([]Span, n)
	for i := range spans {
		spans[i] = sp("body text", size)
	}
	return spans
}
