package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/roster-reports/internal/common"
	"github.com/joseph-ayodele/roster-reports/internal/imageprep"
	"github.com/joseph-ayodele/roster-reports/internal/llm"
	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

// ImagePreparer normalizes raw upload bytes for the extractor.
type ImagePreparer interface {
	Prepare(data []byte, filename string) (*imageprep.Image, error)
}

type Options struct {
	// Timeout bounds each extraction call. Non-positive means no deadline.
	Timeout time.Duration
	// MaxImageBytes rejects larger images before they are prepared. Zero disables the check.
	MaxImageBytes int64
}

type Usecase struct {
	extractor llm.RosterExtractor
	prep      ImagePreparer
	opts      Options
	log       *zap.SugaredLogger
}

func NewUsecase(extractor llm.RosterExtractor, prep ImagePreparer, opts Options, log *zap.SugaredLogger) *Usecase {
	return &Usecase{extractor: extractor, prep: prep, opts: opts, log: common.OrNop(log)}
}

// Process extracts every upload sequentially in upload order. Failures are recorded per image
// and never stop the batch; once ctx is done the remaining images fail without an AI call.
func (u *Usecase) Process(ctx context.Context, uploads []Upload) *Batch {
	batch := &Batch{Results: make([]ImageResult, 0, len(uploads))}
	start := time.Now()

	for i, up := range uploads {
		res := ImageResult{Index: i, Filename: up.Filename, MIMEType: up.MIMEType}
		if err := ctx.Err(); err != nil {
			res.Err = common.ExtractionError("request canceled before image %d: %v", i, err)
		} else {
			res.Records, res.Err = u.processOne(ctx, up)
		}
		if res.Err != nil {
			res.Records = nil
			u.log.Warnw("ingest.image.failed",
				"req_id", common.RequestIDFromContext(ctx),
				"index", i,
				"filename", up.Filename,
				"error", res.Err,
			)
		} else {
			u.log.Infow("ingest.image.ok",
				"req_id", common.RequestIDFromContext(ctx),
				"index", i,
				"filename", up.Filename,
				"records", len(res.Records),
			)
		}
		batch.Results = append(batch.Results, res)
	}

	u.log.Infow("ingest.batch.done",
		"req_id", common.RequestIDFromContext(ctx),
		"images", len(uploads),
		"failed", batch.Failed(),
		"records", len(batch.Rows()),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return batch
}

func (u *Usecase) processOne(ctx context.Context, up Upload) (recs []roster.RawExtraction, err error) {
	data, err := u.read(up)
	if err != nil {
		return nil, err
	}
	img, err := u.prep.Prepare(data, up.Filename)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := common.WithTimeout(ctx, u.opts.Timeout)
	defer cancel()

	recs, _, err = u.extractor.ExtractRoster(callCtx, llm.ExtractRequest{
		Image:    img.Data,
		MIMEType: img.MIMEType,
		Filename: up.Filename,
	})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return nil, common.ExtractionError("extraction of %q timed out after %s", up.Filename, u.opts.Timeout)
		}
		return nil, err
	}
	return recs, nil
}

func (u *Usecase) read(up Upload) ([]byte, error) {
	if up.Open == nil {
		return nil, common.ExtractionError("no content for %q", up.Filename)
	}
	rc, err := up.Open()
	if err != nil {
		return nil, common.ExtractionError("open %q: %v", up.Filename, err)
	}
	defer func(rc io.ReadCloser) {
		if err := rc.Close(); err != nil {
			u.log.Warnw("ingest.image.close_error", "filename", up.Filename, "error", err)
		}
	}(rc)

	var r io.Reader = rc
	if u.opts.MaxImageBytes > 0 {
		r = io.LimitReader(rc, u.opts.MaxImageBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, common.ExtractionError("read %q: %v", up.Filename, err)
	}
	if u.opts.MaxImageBytes > 0 && int64(len(data)) > u.opts.MaxImageBytes {
		return nil, common.ExtractionError("%q exceeds %s", up.Filename, humanBytes(u.opts.MaxImageBytes))
	}
	return data, nil
}

func humanBytes(n int64) string {
	if n >= 1<<20 {
		return fmt.Sprintf("%d MiB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}
