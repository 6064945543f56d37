// Package scan discovers video files under a collection root and derives
// searchable titles from their names.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// videoExtensions is the discovery allow-list, lowercase with leading dot.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".mpeg": true,
	".ts":   true,
}

// Discover walks root and returns every video file path, sorted, excluding
// the store file and anything under media/video (downloaded trailers would
// otherwise be rediscovered as movies).
func Discover(root, storeName string) ([]string, error) {
	trailerDir := filepath.Join(root, "media", "video")

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == trailerDir {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == storeName {
			return nil
		}
		if !videoExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}
