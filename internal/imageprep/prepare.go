// Package imageprep sniffs, bounds and normalizes roster images before they are sent
// to the extraction service.
package imageprep

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/joseph-ayodele/roster-reports/constants"
	"github.com/joseph-ayodele/roster-reports/internal/common"
)

const (
	defaultMaxDimension = 2048
	defaultJPEGQuality  = 85
)

// Image is a prepared image ready for extraction.
type Image struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
	// Converted is set when Data was re-encoded.
	Converted bool
}

type Preparer struct {
	maxDim  int
	quality int
	log     *zap.SugaredLogger
}

func NewPreparer(cfg common.ImageConfig, log *zap.SugaredLogger) *Preparer {
	p := &Preparer{maxDim: cfg.MaxDimension, quality: cfg.JPEGQuality, log: common.OrNop(log)}
	if p.maxDim <= 0 {
		p.maxDim = defaultMaxDimension
	}
	if p.quality <= 0 || p.quality > 100 {
		p.quality = defaultJPEGQuality
	}
	return p
}

// Prepare sniffs the content type of data and returns an image the extraction service accepts.
// Supported formats within the size bound pass through untouched; larger images are scaled
// down, and formats the service does not take (gif, bmp, tiff) are converted to JPEG.
// HEIC/HEIF cannot be decoded here and are passed through as-is.
func (p *Preparer) Prepare(data []byte, filename string) (*Image, error) {
	if len(data) == 0 {
		return nil, common.ExtractionError("image %q is empty", filename)
	}

	mt := mimetype.Detect(data).String()
	if !isDecodable(mt) && !constants.IsImageMIME(mt) {
		p.log.Warnw("imageprep.unsupported", "filename", filename, "mime_type", mt)
		return nil, common.ExtractionError("unsupported content type %s for %q", mt, filename)
	}
	if !isDecodable(mt) {
		return &Image{Data: data, MIMEType: mt}, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, common.ExtractionError("read image header of %q: %v", filename, err)
	}
	if constants.IsImageMIME(mt) && cfg.Width <= p.maxDim && cfg.Height <= p.maxDim {
		return &Image{Data: data, MIMEType: mt, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, err := decodeImageWithWebPFallback(data)
	if err != nil {
		return nil, common.ExtractionError("decode image %q: %v", filename, err)
	}
	scaled := fit(img, p.maxDim)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, scaled, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, common.ExtractionError("encode image %q: %v", filename, err)
	}
	b := scaled.Bounds()
	p.log.Infow("imageprep.converted",
		"filename", filename,
		"from_mime", mt,
		"from_width", cfg.Width,
		"from_height", cfg.Height,
		"width", b.Dx(),
		"height", b.Dy(),
		"bytes_in", len(data),
		"bytes_out", out.Len(),
	)
	return &Image{Data: out.Bytes(), MIMEType: "image/jpeg", Width: b.Dx(), Height: b.Dy(), Converted: true}, nil
}

func isDecodable(mt string) bool {
	switch mt {
	case "image/jpeg", "image/png", "image/webp", "image/gif", "image/bmp", "image/tiff":
		return true
	}
	return false
}

func decodeImageWithWebPFallback(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err == nil {
		return img, nil
	}
	if decoded, webpErr := webp.Decode(bytes.NewReader(raw)); webpErr == nil {
		return decoded, nil
	}
	return nil, err
}

// fit scales img so neither side exceeds maxDim, keeping the aspect ratio.
// Images already within bounds are redrawn onto an RGBA canvas unscaled.
func fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxDim || h > maxDim {
		if w >= h {
			h = max(1, h*maxDim/w)
			w = maxDim
		} else {
			w = max(1, w*maxDim/h)
			h = maxDim
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
