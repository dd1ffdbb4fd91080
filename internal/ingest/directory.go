package ingest

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/roster-reports/internal/common"
)

// FileUpload wraps a local file as an Upload.
func FileUpload(path string) Upload {
	return Upload{
		Filename: filepath.Base(path),
		Open:     func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// CollectPaths expands each path into uploads. Files are taken as given; directories are
// walked for image extensions, skipping hidden entries when asked, in lexical order.
func CollectPaths(paths []string, skipHidden bool) ([]Upload, error) {
	var out []Upload
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		st, err := os.Stat(p)
		if err != nil {
			return nil, common.WrapError(err, "stat "+p)
		}
		if !st.IsDir() {
			out = append(out, FileUpload(p))
			continue
		}
		found, err := collectDirectory(p, skipHidden)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

func collectDirectory(root string, skipHidden bool) ([]Upload, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, common.WrapError(err, "walk "+root)
	}
	sort.Strings(files)

	out := make([]Upload, 0, len(files))
	for _, f := range files {
		out = append(out, FileUpload(f))
	}
	return out, nil
}
