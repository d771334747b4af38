package outline

const (
	DefaultH1Ratio        = 1.45
	DefaultH2Ratio        = 1.2
	DefaultMaxHeadingLen  = 200
	DefaultWordsPerMinute = 200
)

// Options tunes the heuristics. The zero value of any field selects its default.
type Options struct {
	// H1Ratio scales the median size into the H1 cutoff.
	H1Ratio float64
	// H2Ratio scales the median size into the H2 cutoff. It also gates titles.
	H2Ratio float64
	// MaxHeadingLen is the exclusive upper bound on heading and title length, in characters.
	MaxHeadingLen int
	// WordsPerMinute is the reading speed used for the read-time estimate.
	WordsPerMinute int
}

// DefaultOptions returns the standard heuristics.
func DefaultOptions() Options {
	return Options{
		H1Ratio:        DefaultH1Ratio,
		H2Ratio:        DefaultH2Ratio,
		MaxHeadingLen:  DefaultMaxHeadingLen,
		WordsPerMinute: DefaultWordsPerMinute,
	}
}

// withDefaults fills unset or invalid fields.
func (o Options) withDefaults() Options {
	if o.H1Ratio <= 0 {
		o.H1Ratio = DefaultH1Ratio
	}
	if o.H2Ratio <= 0 {
		o.H2Ratio = DefaultH2Ratio
	}
	if o.MaxHeadingLen <= 0 {
		o.MaxHeadingLen = DefaultMaxHeadingLen
	}
	if o.WordsPerMinute <= 0 {
		o.WordsPerMinute = DefaultWordsPerMinute
	}
	return o
}

// Thresholds are the absolute heading cutoffs for one document.
type Thresholds struct {
	H1 float64
	H2 float64
}

// ThresholdsFor scales the ratios by the document baseline.
func (o Options) ThresholdsFor(median float64) Thresholds {
	o = o.withDefaults()
	return Thresholds{
		H1: median * o.H1Ratio,
		H2: median * o.H2Ratio,
	}
}
