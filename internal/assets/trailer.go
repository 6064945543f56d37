package assets

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"pegascrape/internal/catalog"
)

// qualityFormats maps the configured quality label onto a yt-dlp stream
// selector with a best-available fallback at the same ceiling.
var qualityFormats = map[string]string{
	"240p":  "bestvideo[height<=240]+bestaudio/best[height<=240]",
	"360p":  "bestvideo[height<=360]+bestaudio/best[height<=360]",
	"480p":  "bestvideo[height<=480]+bestaudio/best[height<=480]",
	"720p":  "bestvideo[height<=720]+bestaudio/best[height<=720]",
	"1080p": "bestvideo[height<=1080]+bestaudio/best[height<=1080]",
}

const defaultQualityFormat = "bestvideo[height<=240]+bestaudio/best[height<=240]"

// VideoLister is the catalog surface the trailer downloader needs.
type VideoLister interface {
	MovieVideos(ctx context.Context, movieID int64, language string) (*catalog.VideoList, error)
}

// runCommandFunc executes an external command and returns its combined
// output. Injectable so tests run without yt-dlp installed.
type runCommandFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// TrailerDownloader walks the configured trailer languages and hands the
// first usable YouTube trailer to yt-dlp. All tool output is captured and
// kept off the process's own streams; it surfaces only in debug logs.
type TrailerDownloader struct {
	videos    VideoLister
	languages []string
	quality   string
	timeout   time.Duration
	log       *slog.Logger
	run       runCommandFunc
}

// NewTrailerDownloader builds a trailer downloader for the configured
// language order and quality label.
func NewTrailerDownloader(videos VideoLister, languages []string, quality string, timeout time.Duration, log *slog.Logger) *TrailerDownloader {
	return &TrailerDownloader{
		videos:    videos,
		languages: languages,
		quality:   quality,
		timeout:   timeout,
		log:       log,
		run:       runCommand,
	}
}

// Download tries every language, trailer and download attempt in order and
// returns the local trailer path on the first success. Individual failures
// are swallowed; ("", nil) means no trailer could be acquired.
func (t *TrailerDownloader) Download(ctx context.Context, movieID int64, destStem string) (string, error) {
	format, ok := qualityFormats[t.quality]
	if !ok {
		format = defaultQualityFormat
	}
	dest := destStem + ".mp4"

	for _, lang := range t.languages {
		listing, err := t.videos.MovieVideos(ctx, movieID, lang)
		if err != nil {
			t.log.Warn("video listing failed", "id", movieID, "language", lang, "error", err)
			continue
		}

		for _, video := range listing.Results {
			if video.Type != "Trailer" || video.Site != "YouTube" {
				continue
			}

			watchURL := catalog.TrailerURL(video.Key)
			t.log.Info("attempting trailer download", "id", movieID, "language", lang, "url", watchURL)

			if err := t.download(ctx, format, destStem, watchURL); err != nil {
				t.log.Warn("trailer download failed", "url", watchURL, "error", err)
				continue
			}
			if _, err := os.Stat(dest); err == nil {
				return dest, nil
			}
		}
	}

	return "", nil
}

func (t *TrailerDownloader) download(ctx context.Context, format, destStem, watchURL string) error {
	runCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	output, err := t.run(runCtx, "yt-dlp",
		"--format", format,
		"--output", destStem+".%(ext)s",
		"--merge-output-format", "mp4",
		"--geo-bypass",
		"--no-check-certificates",
		"--quiet",
		"--no-warnings",
		watchURL,
	)
	if len(output) > 0 {
		t.log.Debug("yt-dlp output", "output", string(output))
	}
	return err
}
