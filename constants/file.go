package constants

import "strings"

// ImageMIMETypes holds the image content types forwarded to the extraction service.
var ImageMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/heic": {},
	"image/heif": {},
}

// ImageExtensions are picked up when a directory of roster images is collected.
var ImageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
	"heic": {},
	"heif": {},
	"gif":  {},
	"bmp":  {},
	"tif":  {},
	"tiff": {},
}

// LegacyExcelExtensions are opened with the BIFF (.xls) reader instead of excelize.
var LegacyExcelExtensions = map[string]struct{}{
	"xls": {},
	"xsl": {},
}

// MaxSpreadsheetRows bounds how many rows are read from a legacy workbook.
const MaxSpreadsheetRows = 100000

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// IsImageMIME reports whether mt (parameters ignored) is a supported image type.
func IsImageMIME(mt string) bool {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	_, ok := ImageMIMETypes[strings.ToLower(strings.TrimSpace(mt))]
	return ok
}
