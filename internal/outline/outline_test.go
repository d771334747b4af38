package outline

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name  string
		sizes []float64
		want  float64
	}{
		{"empty", nil, 0},
		{"single", []float64{12}, 12},
		{"odd", []float64{14, 10, 12}, 12},
		{"even averages middle values", []float64{10, 20, 12, 14}, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.sizes); got != tt.want {
				t.Errorf("Median(%v) = %v, want %v", tt.sizes, got, tt.want)
			}
		})
	}

	t.Run("does not reorder input", func(t *testing.T) {
		in := []float64{3, 1, 2}
		Median(in)
		if !reflect.DeepEqual(in, []float64{3, 1, 2}) {
			t.Errorf("input mutated: %v", in)
		}
	})
}

func TestCollect(t *testing.T) {
	t.Run("filters empty text and trims", func(t *testing.T) {
		doc := &fakeDoc{pages: [][]Span{{
			sp("  Heading  ", 20),
			sp("   ", 30),
			sp("", 0),
			sp("body", 10),
		}}}
		pages, sizes, err := Collect(doc, 0)
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		if len(pages[0]) != 2 {
			t.Fatalf("expected 2 spans, got %d", len(pages[0]))
		}
		if pages[0][0].Text != "Heading" {
			t.Errorf("text = %q, want %q", pages[0][0].Text, "Heading")
		}
		if !reflect.DeepEqual(sizes, []float64{20, 10}) {
			t.Errorf("sizes = %v, want [20 10]", sizes)
		}
		if pages.SpanCount() != len(sizes) {
			t.Errorf("span count %d != size count %d", pages.SpanCount(), len(sizes))
		}
	})

	t.Run("respects page limit", func(t *testing.T) {
		doc := &fakeDoc{pages: [][]Span{{sp("a", 10)}, {sp("b", 10)}, {sp("c", 10)}}}
		pages, sizes, err := Collect(doc, 2)
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		if len(pages) != 2 || len(sizes) != 2 {
			t.Errorf("got %d pages, %d sizes; want 2 and 2", len(pages), len(sizes))
		}
	})

	t.Run("limit beyond page count processes all pages", func(t *testing.T) {
		doc := &fakeDoc{pages: [][]Span{{sp("a", 10)}, {sp("b", 10)}}}
		pages, _, err := Collect(doc, 50)
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		if len(pages) != 2 {
			t.Errorf("got %d pages, want 2", len(pages))
		}
	})

	t.Run("rejects text span without usable size", func(t *testing.T) {
		doc := &fakeDoc{pages: [][]Span{{sp("broken", 0)}}}
		_, _, err := Collect(doc, 0)
		if !errors.Is(err, ErrInvalidSpan) {
			t.Fatalf("expected ErrInvalidSpan, got %v", err)
		}
		var aerr *AnalysisError
		if !errors.As(err, &aerr) || aerr.Op != "span" {
			t.Errorf("expected AnalysisError with op span, got %v", err)
		}
	})

	t.Run("propagates page load errors", func(t *testing.T) {
		boom := errors.New("boom")
		doc := &fakeDoc{
			pages:   [][]Span{{sp("a", 10)}, {sp("b", 10)}},
			pageErr: map[int]error{1: boom},
		}
		_, _, err := Collect(doc, 0)
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped page error, got %v", err)
		}
	})
}

func TestClassify(t *testing.T) {
	median := 10.0
	th := DefaultOptions().ThresholdsFor(median)

	t.Run("size exactly at H2 cutoff qualifies", func(t *testing.T) {
		pages := PageSpans{{sp("Boundary", th.H2)}}
		got := Classify(pages, th, DefaultMaxHeadingLen)
		if len(got) != 1 || got[0].Level != LevelH2 {
			t.Fatalf("Classify() = %+v, want one H2", got)
		}
	})

	t.Run("size exactly at H1 cutoff is H1", func(t *testing.T) {
		pages := PageSpans{{sp("Top", th.H1)}}
		got := Classify(pages, th, DefaultMaxHeadingLen)
		if len(got) != 1 || got[0].Level != LevelH1 {
			t.Fatalf("Classify() = %+v, want one H1", got)
		}
	})

	t.Run("below H2 cutoff is not a heading", func(t *testing.T) {
		pages := PageSpans{{sp("Body", th.H2-0.01)}}
		if got := Classify(pages, th, DefaultMaxHeadingLen); len(got) != 0 {
			t.Errorf("Classify() = %+v, want none", got)
		}
	})

	t.Run("length bound is exclusive", func(t *testing.T) {
		pages := PageSpans{{
			sp(strings.Repeat("x", 199), 20),
			sp(strings.Repeat("y", 200), 20),
		}}
		got := Classify(pages, th, DefaultMaxHeadingLen)
		if len(got) != 1 || len(got[0].Text) != 199 {
			t.Errorf("Classify() kept %d headings, want only the 199-char one", len(got))
		}
	})

	t.Run("never emits H3 and keeps reading order", func(t *testing.T) {
		pages := PageSpans{
			{sp("A", 20), sp("body", 10), sp("B", 12.5)},
			{sp("C", 30)},
		}
		got := Classify(pages, th, DefaultMaxHeadingLen)
		want := []Heading{
			{Level: LevelH1, Text: "A", Page: 1},
			{Level: LevelH2, Text: "B", Page: 1},
			{Level: LevelH1, Text: "C", Page: 2},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Classify() = %+v, want %+v", got, want)
		}
		for _, h := range got {
			if h.Level == LevelH3 {
				t.Errorf("unexpected H3 heading %+v", h)
			}
		}
	})
}

func TestConsolidate(t *testing.T) {
	t.Run("merges adjacent same-level headings on a page", func(t *testing.T) {
		in := []Heading{
			{Level: LevelH1, Text: "Intro", Page: 3},
			{Level: LevelH1, Text: "Overview", Page: 3},
		}
		got := Consolidate(in)
		want := []Heading{{Level: LevelH1, Text: "Intro / Overview", Page: 3}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Consolidate() = %+v, want %+v", got, want)
		}
		if in[0].Text != "Intro" {
			t.Errorf("input mutated: %+v", in[0])
		}
	})

	t.Run("folds runs left to right", func(t *testing.T) {
		got := Consolidate([]Heading{
			{Level: LevelH2, Text: "a", Page: 1},
			{Level: LevelH2, Text: "b", Page: 1},
			{Level: LevelH2, Text: "c", Page: 1},
		})
		if len(got) != 1 || got[0].Text != "a / b / c" {
			t.Errorf("Consolidate() = %+v", got)
		}
	})

	t.Run("keeps different levels and pages apart", func(t *testing.T) {
		in := []Heading{
			{Level: LevelH1, Text: "a", Page: 1},
			{Level: LevelH2, Text: "b", Page: 1},
			{Level: LevelH1, Text: "c", Page: 1},
			{Level: LevelH1, Text: "d", Page: 2},
		}
		if got := Consolidate(in); !reflect.DeepEqual(got, in) {
			t.Errorf("Consolidate() = %+v, want unchanged", got)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		once := Consolidate([]Heading{
			{Level: LevelH1, Text: "a", Page: 1},
			{Level: LevelH1, Text: "b", Page: 1},
			{Level: LevelH2, Text: "c", Page: 1},
			{Level: LevelH2, Text: "d", Page: 2},
			{Level: LevelH2, Text: "e", Page: 2},
		})
		twice := Consolidate(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("second pass changed output: %+v -> %+v", once, twice)
		}
	})

	t.Run("empty input yields empty non-nil slice", func(t *testing.T) {
		got := Consolidate(nil)
		if got == nil || len(got) != 0 {
			t.Errorf("Consolidate(nil) = %#v", got)
		}
	})
}

func TestSelectTitle(t *testing.T) {
	t.Run("largest first-page span above cutoff", func(t *testing.T) {
		pages := PageSpans{
			{sp("a", 10), sp("b", 10), sp("c", 10), sp("Big Title", 40)},
			repeatSpans(6, 20),
		}
		_, sizes, _ := Collect(&fakeDoc{pages: pages}, 0)
		median := Median(sizes)
		if median != 20 {
			t.Fatalf("test setup: median = %v, want 20", median)
		}
		th := DefaultOptions().ThresholdsFor(median)
		if got := SelectTitle(pages, th, DefaultMaxHeadingLen); got != "Big Title" {
			t.Errorf("SelectTitle() = %q, want %q", got, "Big Title")
		}
	})

	t.Run("largest span below cutoff yields no title", func(t *testing.T) {
		pages := PageSpans{
			{sp("small", 10), sp("almost", 22)},
			repeatSpans(5, 20),
		}
		_, sizes, _ := Collect(&fakeDoc{pages: pages}, 0)
		median := Median(sizes)
		if median != 20 {
			t.Fatalf("test setup: median = %v, want 20", median)
		}
		th := DefaultOptions().ThresholdsFor(median)
		if got := SelectTitle(pages, th, DefaultMaxHeadingLen); got != "" {
			t.Errorf("SelectTitle() = %q, want empty", got)
		}
	})

	t.Run("ties go to the first span", func(t *testing.T) {
		pages := PageSpans{{sp("First", 30), sp("Second", 30)}}
		th := Thresholds{H1: 14.5, H2: 12}
		if got := SelectTitle(pages, th, DefaultMaxHeadingLen); got != "First" {
			t.Errorf("SelectTitle() = %q, want First", got)
		}
	})

	t.Run("overlong title is dropped", func(t *testing.T) {
		pages := PageSpans{{sp(strings.Repeat("t", 200), 30)}}
		th := Thresholds{H1: 14.5, H2: 12}
		if got := SelectTitle(pages, th, DefaultMaxHeadingLen); got != "" {
			t.Errorf("SelectTitle() = %q, want empty", got)
		}
	})

	t.Run("no pages", func(t *testing.T) {
		if got := SelectTitle(nil, Thresholds{}, DefaultMaxHeadingLen); got != "" {
			t.Errorf("SelectTitle(nil) = %q", got)
		}
	})
}

func TestEstimateReadTime(t *testing.T) {
	tests := []struct {
		words int
		want  string
	}{
		{1, "1 min"},
		{199, "1 min"},
		{399, "1 min"},
		{400, "2 min"},
		{1000, "5 min"},
	}
	for _, tt := range tests {
		pages := PageSpans{{sp(strings.TrimSpace(strings.Repeat("word ", tt.words)), 10)}}
		if got := EstimateReadTime(pages, DefaultWordsPerMinute); got != tt.want {
			t.Errorf("EstimateReadTime(%d words) = %q, want %q", tt.words, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	pages := PageSpans{
		{{Text: "one two", Size: 10, Font: "Times"}, {Text: "three", Size: 10, Font: "Helvetica"}},
		{{Text: "four", Size: 10, Font: "Times"}},
	}
	got := Summarize(12, pages, DefaultWordsPerMinute)
	want := Stats{Pages: 12, Fonts: 2, EstimatedReadTime: "1 min"}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}

func TestAnalyze(t *testing.T) {
	t.Run("document without text", func(t *testing.T) {
		for name, doc := range map[string]*fakeDoc{
			"zero pages":       {},
			"whitespace spans": {pages: [][]Span{{sp("  ", 12)}, {}, {sp("\n", 30)}}},
		} {
			t.Run(name, func(t *testing.T) {
				got, err := Analyze(doc, 0, DefaultOptions())
				if err != nil {
					t.Fatalf("Analyze() error = %v", err)
				}
				want := &Result{Sections: []Heading{}, Stats: Stats{Pages: doc.PageCount()}}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("Analyze() = %+v, want %+v", got, want)
				}
				data, _ := json.Marshal(got)
				wantJSON := `{"title":"","sections":[],"stats":{"pages":` +
					jsonInt(doc.PageCount()) + `,"fonts":0}}`
				if string(data) != wantJSON {
					t.Errorf("json = %s, want %s", data, wantJSON)
				}
			})
		}
	})

	t.Run("page limit keeps total page count", func(t *testing.T) {
		pages := make([][]Span, 10)
		pages[0] = []Span{sp("Title", 30), sp("body", 10), sp("body", 10)}
		for i := 1; i < 10; i++ {
			pages[i] = []Span{sp("Chapter", 40), sp("body", 10)}
		}
		got, err := Analyze(&fakeDoc{pages: pages}, 1, DefaultOptions())
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if got.Stats.Pages != 10 {
			t.Errorf("Stats.Pages = %d, want 10", got.Stats.Pages)
		}
		for _, h := range got.Sections {
			if h.Page != 1 {
				t.Errorf("heading from unprocessed page: %+v", h)
			}
		}
		if got.Title != "Title" {
			t.Errorf("Title = %q, want Title", got.Title)
		}
	})

	t.Run("uniform size yields no headings or title", func(t *testing.T) {
		doc := &fakeDoc{pages: [][]Span{
			{sp("Welcome", 12), sp("first paragraph", 12), sp("second paragraph", 12)},
			{sp("Closing words", 12)},
		}}
		got, err := Analyze(doc, 0, DefaultOptions())
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if got.Sections == nil || len(got.Sections) != 0 {
			t.Errorf("Sections = %#v, want empty", got.Sections)
		}
		if got.Title != "" {
			t.Errorf("Title = %q, want empty", got.Title)
		}
		if got.Stats.Pages != 2 || got.Stats.Fonts != 1 {
			t.Errorf("Stats = %+v", got.Stats)
		}
	})

	t.Run("whitespace-only spans do not count as fonts", func(t *testing.T) {
		doc := &fakeDoc{pages: [][]Span{{
			sp("body text", 10),
			{Text: "   ", Size: 10, Font: "Symbol"},
		}}}
		got, err := Analyze(doc, 0, DefaultOptions())
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if got.Stats.Fonts != 1 {
			t.Errorf("Stats.Fonts = %d, want 1", got.Stats.Fonts)
		}
	})

	t.Run("full pipeline", func(t *testing.T) {
		doc := &fakeDoc{pages: [][]Span{
			{
				{Text: "Annual Report", Size: 24, Font: "Bold"},
				{Text: "2025", Size: 24, Font: "Bold"},
				{Text: "body text here", Size: 10, Font: "Body"},
				{Text: "more body", Size: 10, Font: "Body"},
			},
			{
				{Text: "Summary", Size: 13, Font: "Semi"},
				{Text: "body text", Size: 10, Font: "Body"},
				{Text: "body text", Size: 10, Font: "Body"},
			},
		}}
		got, err := Analyze(doc, 0, Options{})
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		want := &Result{
			Title: "Annual Report",
			Sections: []Heading{
				{Level: LevelH1, Text: "Annual Report / 2025", Page: 1},
				{Level: LevelH2, Text: "Summary", Page: 2},
			},
			Stats: Stats{Pages: 2, Fonts: 3, EstimatedReadTime: "1 min"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Analyze() = %+v, want %+v", got, want)
		}
	})
}

func TestAnalyzer(t *testing.T) {
	t.Run("missing engine fails fast", func(t *testing.T) {
		a := NewAnalyzer(AnalyzerConfig{})
		if a.Available() {
			t.Error("Available() = true without opener")
		}
		_, err := a.AnalyzeBytes([]byte("%PDF"), 0)
		if !errors.Is(err, ErrEngineUnavailable) {
			t.Errorf("AnalyzeBytes() error = %v, want ErrEngineUnavailable", err)
		}
		_, err = a.AnalyzeFile("doc.pdf", 0)
		if !errors.Is(err, ErrEngineUnavailable) {
			t.Errorf("AnalyzeFile() error = %v, want ErrEngineUnavailable", err)
		}
	})

	t.Run("open failure is surfaced", func(t *testing.T) {
		cause := errors.New("not a pdf")
		a := NewAnalyzer(AnalyzerConfig{Opener: &fakeOpener{err: cause}})
		_, err := a.AnalyzeBytes([]byte("junk"), 0)
		if !errors.Is(err, ErrOpen) || !errors.Is(err, cause) {
			t.Errorf("AnalyzeBytes() error = %v, want ErrOpen wrapping cause", err)
		}
	})

	t.Run("closes the document after analysis", func(t *testing.T) {
		doc := &fakeDoc{pages: [][]Span{{sp("x", 10)}}}
		a := NewAnalyzer(AnalyzerConfig{Opener: &fakeOpener{doc: doc}})
		if _, err := a.AnalyzeFile("doc.pdf", 0); err != nil {
			t.Fatalf("AnalyzeFile() error = %v", err)
		}
		if !doc.closed {
			t.Error("document was not closed")
		}
	})

	t.Run("closes the document on failure", func(t *testing.T) {
		doc := &fakeDoc{pages: [][]Span{{sp("x", -1)}}}
		a := NewAnalyzer(AnalyzerConfig{Opener: &fakeOpener{doc: doc}})
		if _, err := a.AnalyzeBytes(nil, 0); err == nil {
			t.Fatal("expected error for invalid span")
		}
		if !doc.closed {
			t.Error("document was not closed")
		}
	})

	t.Run("options update applies to later calls", func(t *testing.T) {
		doc := &fakeDoc{pages: [][]Span{{sp("Head", 11), sp("body", 10), sp("body", 10)}}}
		a := NewAnalyzer(AnalyzerConfig{Opener: &fakeOpener{doc: doc}})

		got, err := a.AnalyzeDocument(doc, 0)
		if err != nil {
			t.Fatalf("AnalyzeDocument() error = %v", err)
		}
		if len(got.Sections) != 0 {
			t.Fatalf("expected no sections with defaults, got %+v", got.Sections)
		}

		a.SetOptions(Options{H2Ratio: 1.05})
		got, err = a.AnalyzeDocument(doc, 0)
		if err != nil {
			t.Fatalf("AnalyzeDocument() error = %v", err)
		}
		if len(got.Sections) != 1 || got.Sections[0].Text != "Head" {
			t.Errorf("sections = %+v, want Head", got.Sections)
		}
		if a.Options().H1Ratio != DefaultH1Ratio {
			t.Errorf("unset H1Ratio not defaulted: %v", a.Options().H1Ratio)
		}
	})
}

func jsonInt(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
