package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// AddedDateLayout is the timestamp format recorded on enrichment and parsed
// back when deriving the epoch-millisecond export field.
const AddedDateLayout = "2006-01-02 15:04:05"

// ExportText renders the store as the frontend's flat-text collection file.
// The export is fully derived: regenerated on every save, never read back.
func ExportText(s *Store, path string) error {
	var b strings.Builder

	b.WriteString("collection: Movies\n")
	b.WriteString("shortname: movies\n")
	b.WriteString("extension: mp4, mkv, avi, mov, wmv, flv, mpeg, ts\n")
	b.WriteString("launch: command... {file.path}\n\n")

	for _, record := range s.Records {
		if record.Metadata == nil {
			writeUnknownBlock(&b, record)
			continue
		}
		writeRecordBlock(&b, record)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write text export: %w", err)
	}
	return nil
}

// writeUnknownBlock renders the reduced block for a file that was processed
// but never identified, keeping it discoverable in the frontend.
func writeUnknownBlock(b *strings.Builder, record Record) {
	name := filepath.Base(record.OriginalFile)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	fmt.Fprintf(b, "game: %s\n", stem)
	b.WriteString("file:\n")
	fmt.Fprintf(b, "  %s\n", relativeFilePath(record.OriginalFile))
	b.WriteString("developer: Unknown\n")
	b.WriteString("publisher: Unknown\n")
	b.WriteString("genre: Unknown\n")
	b.WriteString("description:\n")
	b.WriteString("  No description available\n")
	b.WriteString("release: Unknown\n")
	b.WriteString("rating: 0%\n")
	b.WriteString("x-tagline: \n")
	b.WriteString("x-lastPosition: 0\n")
	b.WriteString("x-codec: Unknown\n")
	b.WriteString("x-resolution: Unknown\n")
	b.WriteString("x-aspect: Unknown\n")
	b.WriteString("x-audio: Unknown\n")
	b.WriteString("x-classification: Unknown\n\n")
}

func writeRecordBlock(b *strings.Builder, record Record) {
	meta := record.Metadata

	publisher := ""
	if len(meta.ProductionCompanies) > 0 {
		publisher = meta.ProductionCompanies[0]
	}

	fmt.Fprintf(b, "game: %s\n", meta.Title)
	b.WriteString("file:\n")
	fmt.Fprintf(b, "  %s\n", relativeFilePath(record.OriginalFile))
	fmt.Fprintf(b, "developer: %s\n", meta.Director)
	fmt.Fprintf(b, "publisher: %s\n", publisher)
	fmt.Fprintf(b, "genre: %s\n", strings.Join(meta.Genres, ", "))
	b.WriteString("description:\n")
	fmt.Fprintf(b, "  %s\n", meta.Description)
	fmt.Fprintf(b, "release: %s\n", meta.ReleaseDate)
	fmt.Fprintf(b, "rating: %d%%\n", int(meta.Rating*100))

	if p := relativeAssetPath(meta.BoxFrontPath); p != "" {
		fmt.Fprintf(b, "assets.boxFront: %s\n", p)
	}
	if p := relativeAssetPath(meta.ScreenshotPath); p != "" {
		fmt.Fprintf(b, "assets.screenshot: %s\n", p)
	}
	if p := relativeAssetPath(meta.WheelPath); p != "" {
		fmt.Fprintf(b, "assets.wheel: %s\n", p)
	}
	if p := relativeAssetPath(meta.VideoPath); p != "" {
		fmt.Fprintf(b, "assets.video: %s\n", p)
	}

	fmt.Fprintf(b, "x-codec: %s\n", meta.Codec)
	fmt.Fprintf(b, "x-resolution: %s\n", meta.Resolution)
	fmt.Fprintf(b, "x-aspect: %s\n", meta.Aspect)
	fmt.Fprintf(b, "x-audio: %s\n", meta.Audio)

	if ts := epochMillis(meta.AddedDate); ts != "" {
		fmt.Fprintf(b, "x-added-timestamp: %s\n", ts)
	}
	if meta.Duration > 0 {
		fmt.Fprintf(b, "x-Duration: %d\n", meta.Duration)
	}
	fmt.Fprintf(b, "x-tagline: %s\n", meta.Tagline)
	fmt.Fprintf(b, "x-classification: %s\n\n", meta.Classification)
}

// relativeFilePath renders the main file reference as ./<name> with the
// OS-appropriate separator.
func relativeFilePath(path string) string {
	if path == "" {
		return ""
	}
	return "." + string(filepath.Separator) + filepath.Base(path)
}

// relativeAssetPath renders an asset reference relative to the media root:
// ./media/<kind>/<name>.
func relativeAssetPath(path string) string {
	if path == "" {
		return ""
	}
	sep := string(filepath.Separator)
	kind := filepath.Base(filepath.Dir(path))
	return "." + sep + "media" + sep + kind + sep + filepath.Base(path)
}

// epochMillis parses the enrichment timestamp and renders it as epoch
// milliseconds; malformed input yields "" and the field is omitted.
func epochMillis(addedDate string) string {
	parsed, err := time.ParseInLocation(AddedDateLayout, addedDate, time.Local)
	if err != nil {
		return ""
	}
	return strconv.FormatInt(parsed.UnixMilli(), 10)
}
