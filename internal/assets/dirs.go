// Package assets acquires the binary artifacts of a resolved movie: poster,
// backdrop, logo and trailer. Acquisition is idempotent; anything already on
// disk for a file stem is never fetched again.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MediaDirs holds the per-kind asset directories under <root>/media.
type MediaDirs struct {
	BoxFront   string
	Screenshot string
	Wheel      string
	Video      string
}

// EnsureMediaDirs creates the media directory tree under root.
func EnsureMediaDirs(root string) (MediaDirs, error) {
	media := filepath.Join(root, "media")
	dirs := MediaDirs{
		BoxFront:   filepath.Join(media, "boxFront"),
		Screenshot: filepath.Join(media, "screenshot"),
		Wheel:      filepath.Join(media, "wheel"),
		Video:      filepath.Join(media, "video"),
	}
	for _, dir := range []string{dirs.BoxFront, dirs.Screenshot, dirs.Wheel, dirs.Video} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return MediaDirs{}, fmt.Errorf("create media dir: %w", err)
		}
	}
	return dirs, nil
}

// Existing references assets already on disk for one file stem. Empty fields
// mean nothing was found for that kind.
type Existing struct {
	BoxFront   string
	Screenshot string
	Wheel      string
	Video      string
}

// Existing scans every media directory for files sharing videoPath's stem.
func (d MediaDirs) Existing(videoPath string) Existing {
	stem := fileStem(videoPath)
	return Existing{
		BoxFront:   firstMatch(d.BoxFront, stem),
		Screenshot: firstMatch(d.Screenshot, stem),
		Wheel:      firstMatch(d.Wheel, stem),
		Video:      firstMatch(d.Video, stem),
	}
}

func firstMatch(dir, stem string) string {
	matches, err := filepath.Glob(filepath.Join(dir, stem+".*"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

func fileStem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
