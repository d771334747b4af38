package outline

// Level is a heading level label.
type Level string

const (
	LevelH1 Level = "H1"
	LevelH2 Level = "H2"
	// LevelH3 is part of the level vocabulary but is never emitted by
	// Classify: the size gate already excludes anything below the H2 cutoff.
	LevelH3 Level = "H3"
)

// Span is one run of text with uniform formatting, as produced by the engine.
type Span struct {
	Text  string     `json:"text" yaml:"text"`
	Size  float64    `json:"size" yaml:"size"`
	Font  string     `json:"font" yaml:"font"`
	BBox  [4]float64 `json:"bbox" yaml:"bbox"`
	Block int        `json:"block" yaml:"block"`
}

// PageSpans holds the collected spans of each processed page, indexed by
// zero-based page number. Span order within a page is reading order.
type PageSpans [][]Span

// Heading is a heading candidate. Page is one-based.
type Heading struct {
	Level Level  `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
	Page  int    `json:"page" yaml:"page"`
}

// Stats summarizes the analyzed document.
type Stats struct {
	Pages int `json:"pages" yaml:"pages"`
	Fonts int `json:"fonts" yaml:"fonts"`
	// EstimatedReadTime is empty (and omitted) for documents without text.
	EstimatedReadTime string `json:"estimated_read_time,omitempty" yaml:"estimated_read_time,omitempty"`
}

// Result is the outline of one document. Its JSON form is the wire contract
// shared by the CLI and the HTTP API.
type Result struct {
	Title    string    `json:"title" yaml:"title"`
	Sections []Heading `json:"sections" yaml:"sections"`
	Stats    Stats     `json:"stats" yaml:"stats"`
}

// Document is an opened document handle supplied by a decoding engine.
type Document interface {
	// PageCount returns the total number of pages in the document.
	PageCount() int
	// Page loads the page at the zero-based index.
	Page(index int) (Page, error)
}

// Page exposes the spans of a single page in emission order.
type Page interface {
	Spans() ([]Span, error)
}

// Opener constructs documents from a file path or in-memory bytes.
// Documents returned by an Opener must be closed by the caller.
type Opener interface {
	OpenFile(path string) (ClosableDocument, error)
	OpenBytes(data []byte) (ClosableDocument, error)
}

// ClosableDocument is a Document that holds resources until closed.
type ClosableDocument interface {
	Document
	Close() error
}
