package llm

import (
	"context"

	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

// ExtractRequest carries one prepared roster image.
type ExtractRequest struct {
	Image    []byte
	MIMEType string
	Filename string
}

// RosterExtractor is the interface the ingestion use case depends on. It returns the
// records read from the image and the cleaned JSON the provider produced.
type RosterExtractor interface {
	ExtractRoster(ctx context.Context, req ExtractRequest) ([]roster.RawExtraction, []byte /*rawJSON*/, error)
}
