package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/roster-reports/constants"
)

// AllowedExt checks if a file extension is a roster image extension.
func AllowedExt(ext string) bool {
	_, ok := constants.ImageExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
