package engine

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Probe reads the PDF structure with pdfcpu and returns its page count.
// It is a cheap preflight that rejects payloads that are not PDFs before
// they reach the text engine.
func Probe(rs io.ReadSeeker) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	n, err := api.PageCount(rs, conf)
	if err != nil {
		return 0, fmt.Errorf("probe pdf: %w", err)
	}
	return n, nil
}

// ProbeBytes is Probe for in-memory data.
func ProbeBytes(data []byte) (int, error) {
	return Probe(bytes.NewReader(data))
}
