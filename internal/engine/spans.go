package engine

import (
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/jackzampolin/docustruct/internal/outline"
)

const (
	defaultLineTolerance = 0.2
	defaultSpaceGap      = 0.25
	defaultBlockGap      = 1.8
)

// grouping folds positioned glyphs into spans.
type grouping struct {
	lineTolerance float64
	spaceGap      float64
	blockGap      float64
}

func (g grouping) withDefaults() grouping {
	if g.lineTolerance <= 0 {
		g.lineTolerance = defaultLineTolerance
	}
	if g.spaceGap <= 0 {
		g.spaceGap = defaultSpaceGap
	}
	if g.blockGap <= 0 {
		g.blockGap = defaultBlockGap
	}
	return g
}

// run is a span under construction.
type run struct {
	text  strings.Builder
	font  string
	size  float64
	y     float64
	bbox  [4]float64
	block int
}

func (r *run) right() float64 { return r.bbox[2] }

// span folds compatibility forms so ligature glyphs read as plain letters.
func (r *run) span() outline.Span {
	return outline.Span{
		Text:  norm.NFKC.String(r.text.String()),
		Size:  r.size,
		Font:  r.font,
		BBox:  r.bbox,
		Block: r.block,
	}
}

// spans groups glyphs in emission order. A glyph continues the current span
// when it has the same font and size, sits on the same baseline, and does not
// jump backwards; otherwise a new span starts. A new span whose baseline is
// far from the previous one also starts a new block.
func (g grouping) spans(texts []pdf.Text) []outline.Span {
	var (
		out   []outline.Span
		cur   *run
		block int
	)

	flush := func() {
		if cur != nil && cur.text.Len() > 0 {
			out = append(out, cur.span())
		}
	}

	for _, t := range texts {
		if t.S == "" || t.S == "\n" || t.S == "\r" {
			continue
		}

		if cur != nil && g.continues(cur, t) {
			if gap := t.X - cur.right(); gap > t.FontSize*g.spaceGap && !endsWithSpace(&cur.text) && t.S != " " {
				cur.text.WriteByte(' ')
			}
			cur.text.WriteString(t.S)
			cur.bbox[2] = math.Max(cur.bbox[2], t.X+t.W)
			cur.bbox[3] = math.Max(cur.bbox[3], t.Y+t.FontSize)
			continue
		}

		if cur != nil && math.Abs(t.Y-cur.y) > cur.size*g.blockGap {
			block++
		}
		flush()

		cur = &run{
			font:  t.Font,
			size:  t.FontSize,
			y:     t.Y,
			bbox:  [4]float64{t.X, t.Y, t.X + t.W, t.Y + t.FontSize},
			block: block,
		}
		cur.text.WriteString(t.S)
	}
	flush()

	return out
}

// continues reports whether glyph t belongs to the span being built.
func (g grouping) continues(cur *run, t pdf.Text) bool {
	if t.Font != cur.font || !sameSize(t.FontSize, cur.size) {
		return false
	}
	if math.Abs(t.Y-cur.y) > cur.size*g.lineTolerance {
		return false
	}
	// Glyphs that restart far to the left are a new line at the same height.
	return t.X >= cur.right()-cur.size
}

func sameSize(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func endsWithSpace(b *strings.Builder) bool {
	s := b.String()
	return s != "" && s[len(s)-1] == ' '
}
