package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joseph-ayodele/roster-reports/constants"
	"github.com/joseph-ayodele/roster-reports/internal/common"
	"github.com/joseph-ayodele/roster-reports/internal/ingest"
	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

const headerImagesFailed = "X-Images-Failed"

// ImageProcessor extracts roster rows from uploaded images.
type ImageProcessor interface {
	Process(ctx context.Context, uploads []ingest.Upload) *ingest.Batch
}

// ReportGenerator builds the report document.
type ReportGenerator interface {
	Generate(ctx context.Context, master io.Reader, masterName string, rows []roster.RawExtraction, format constants.ReportFormat) ([]byte, error)
}

// MasterSource opens the master dataset for one request.
type MasterSource interface {
	Open() (io.ReadCloser, string, error)
}

type uploadHandler struct {
	images   ImageProcessor
	reports  ReportGenerator
	masters  MasterSource
	maxBytes int64
	log      *zap.SugaredLogger
}

// upload serves POST /api/upload-images.
func (h *uploadHandler) upload(c *gin.Context) {
	ctx := c.Request.Context()
	rid := common.RequestIDFromContext(ctx)

	format, ok := constants.ParseReportFormat(c.Query("format"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported format %q", c.Query("format"))})
		return
	}

	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}
	files, err := formFiles(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.log.Warnw("upload.too_large", "req_id", rid, "limit", tooLarge.Limit)
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds " + strconv.FormatInt(tooLarge.Limit>>20, 10) + " MB"})
			return
		}
	}
	if len(files) == 0 {
		h.log.Warnw("upload.no_files", "req_id", rid, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": constants.UploadMissingMsg})
		return
	}

	uploads := make([]ingest.Upload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, ingest.Upload{
			Filename: fh.Filename,
			MIMEType: fh.Header.Get("Content-Type"),
			Open:     func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	h.log.Infow("upload.received", "req_id", rid, "images", len(uploads), "format", format)

	batch := h.images.Process(ctx, uploads)
	c.Header(headerImagesFailed, strconv.Itoa(batch.Failed()))

	out, err := h.generate(ctx, batch.Rows(), format)
	if err != nil {
		h.log.Errorw("upload.generate_failed", "req_id", rid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": constants.GenerateFailMsg, "details": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	c.Data(http.StatusOK, format.ContentType(), out)
}

func (h *uploadHandler) generate(ctx context.Context, rows []roster.RawExtraction, format constants.ReportFormat) ([]byte, error) {
	rc, name, err := h.masters.Open()
	if err != nil {
		return nil, err
	}
	defer func(rc io.ReadCloser) {
		if err := rc.Close(); err != nil {
			h.log.Warnw("upload.master_close_error", "error", err)
		}
	}(rc)
	return h.reports.Generate(ctx, rc, name, rows, format)
}

// formFiles returns every file under the upload field, also accepting the bracketed form
// browsers send for repeated fields. A missing or non-multipart body yields none.
func formFiles(c *gin.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	files := append([]*multipart.FileHeader(nil), form.File[constants.UploadFieldName]...)
	return append(files, form.File[constants.UploadFieldName+"[]"]...), nil
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
