package ingest

import (
	"io"

	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

// Upload is one roster image awaiting extraction.
type Upload struct {
	Filename string
	// MIMEType is the client-declared type; the content is sniffed regardless.
	MIMEType string
	Open     func() (io.ReadCloser, error)
}

// ImageResult is the per-image extraction outcome. A failed image has Err set and no Records.
type ImageResult struct {
	Index    int
	Filename string
	MIMEType string
	Records  []roster.RawExtraction
	Err      error
}

// Batch holds the results of one request in upload order.
type Batch struct {
	Results []ImageResult
}

// Rows concatenates the records of every image in upload order.
func (b *Batch) Rows() []roster.RawExtraction {
	if b == nil {
		return nil
	}
	var out []roster.RawExtraction
	for _, r := range b.Results {
		out = append(out, r.Records...)
	}
	return out
}

// Failed counts the images that contributed nothing because of an error.
func (b *Batch) Failed() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, r := range b.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
