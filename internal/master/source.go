package master

import (
	"io"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/roster-reports/internal/common"
)

// FileSource opens the master dataset at a fixed path, read-only, on every call.
type FileSource struct {
	Path string
}

// Open returns the dataset contents and the name used to pick its reader.
func (s FileSource) Open() (io.ReadCloser, string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, "", common.IngestionError("open master dataset %s: %v", s.Path, err)
	}
	return f, filepath.Base(s.Path), nil
}
