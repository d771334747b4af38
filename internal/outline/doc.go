// Package outline infers a document outline (title, headings, reading time)
// from per-page text spans using font-size statistics.
//
// The pipeline is a single forward pass:
//
//	Collect -> Median -> Classify -> Consolidate
//
// with SelectTitle and Summarize reading the same collected spans. Every
// function here is a pure transformation of its input; decoding the PDF is
// the job of an Opener supplied by the caller.
package outline
