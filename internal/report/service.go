package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/roster-reports/constants"
	"github.com/joseph-ayodele/roster-reports/internal/common"
	"github.com/joseph-ayodele/roster-reports/internal/master"
	"github.com/joseph-ayodele/roster-reports/internal/reconcile"
	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

// Service turns extracted rows and a master dataset into a finished report.
type Service struct {
	masterOpts master.Options
	log        *zap.SugaredLogger
}

func NewService(opts master.Options, log *zap.SugaredLogger) *Service {
	return &Service{masterOpts: opts, log: common.OrNop(log)}
}

// Generate loads the master dataset, merges rows, reconciles and renders in the requested format.
// Master dataset failures match common.ErrIngestion or common.ErrIntegrity.
func (s *Service) Generate(ctx context.Context, masterData io.Reader, masterName string, rows []roster.RawExtraction, format constants.ReportFormat) ([]byte, error) {
	start := time.Now()
	rid := common.RequestIDFromContext(ctx)

	res, err := s.Reconcile(ctx, masterData, masterName, rows)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := Render(res, format)
	if err != nil {
		s.log.Errorw("report.render.failed", "req_id", rid, "format", format, "error", err)
		return nil, err
	}

	s.log.Infow("report.generate.ok",
		"req_id", rid,
		"format", format,
		"matched", len(res.Matched),
		"not_found", len(res.NotFound),
		"manual_found", res.ManualFound(),
		"grand_total", res.Total,
		"bytes", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Reconcile runs the load, merge and reconcile steps without rendering.
func (s *Service) Reconcile(ctx context.Context, masterData io.Reader, masterName string, rows []roster.RawExtraction) (*reconcile.Result, error) {
	rid := common.RequestIDFromContext(ctx)

	ds, err := master.Load(masterData, masterName, s.masterOpts)
	if err != nil {
		s.log.Errorw("report.master.load_failed", "req_id", rid, "master", masterName, "error", err)
		return nil, err
	}
	if ds.Duplicates > 0 || ds.SkippedRows > 0 {
		s.log.Warnw("report.master.anomalies",
			"req_id", rid,
			"sheet", ds.Sheet,
			"duplicate_codes", ds.Duplicates,
			"skipped_rows", ds.SkippedRows,
		)
	}

	merged, stats := roster.Merge(rows)
	if stats.Overlong > 0 {
		s.log.Warnw("report.merge.overlong_clocks", "req_id", rid, "count", stats.Overlong)
	}
	s.log.Infow("report.merge.ok",
		"req_id", rid,
		"input", stats.Input,
		"dropped", stats.Dropped,
		"overwritten", stats.Overwritten,
		"distinct", merged.Len(),
		"employees", ds.Len(),
	)

	return reconcile.Reconcile(merged, ds), nil
}

// Render dispatches on format.
func Render(res *reconcile.Result, format constants.ReportFormat) ([]byte, error) {
	switch format {
	case constants.FormatPDF, "":
		return RenderPDF(res)
	case constants.FormatXLSX:
		return RenderXLSX(res)
	}
	return nil, common.NewAppError(common.CodeRender, fmt.Sprintf("unsupported report format %q", format), common.ErrInvalidInput)
}
