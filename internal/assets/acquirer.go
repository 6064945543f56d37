package assets

import (
	"context"
	"log/slog"
	"path/filepath"

	"pegascrape/internal/catalog"
	"pegascrape/internal/config"
	"pegascrape/internal/store"
)

// Result carries the local asset paths after one acquisition pass plus the
// download counters for the run statistics. Paths already on disk are
// returned unchanged without counting as downloads.
type Result struct {
	BoxFront   string
	Screenshot string
	Wheel      string
	Video      string
	Downloaded store.ImageStats
	Trailers   int
}

// Acquirer applies the per-kind skip rules (existing file, disabled fetch
// flag, missing remote path) and delegates the actual transfers.
type Acquirer struct {
	images          *Downloader
	trailers        *TrailerDownloader
	dirs            MediaDirs
	fetch           config.FetchFlags
	imageURL        func(string) string
	primaryLanguage string
	log             *slog.Logger
}

// NewAcquirer wires an acquirer over the image and trailer downloaders.
// imageURL resolves a relative artwork path to its download URL.
func NewAcquirer(images *Downloader, trailers *TrailerDownloader, dirs MediaDirs, fetch config.FetchFlags, imageURL func(string) string, primaryLanguage string, log *slog.Logger) *Acquirer {
	return &Acquirer{
		images:          images,
		trailers:        trailers,
		dirs:            dirs,
		fetch:           fetch,
		imageURL:        imageURL,
		primaryLanguage: primaryLanguage,
		log:             log,
	}
}

// Acquire fetches the missing assets for one resolved file. Download
// failures leave the corresponding path empty and are never fatal.
func (a *Acquirer) Acquire(ctx context.Context, videoPath string, movieID int64, details *catalog.MovieDetails, logos []catalog.Image, existing Existing) Result {
	stem := fileStem(videoPath)
	result := Result{
		BoxFront:   existing.BoxFront,
		Screenshot: existing.Screenshot,
		Wheel:      existing.Wheel,
		Video:      existing.Video,
	}

	if result.BoxFront == "" && a.fetch.Poster && details.PosterPath != "" {
		dest := filepath.Join(a.dirs.BoxFront, stem)
		if local, err := a.images.Image(ctx, a.imageURL(details.PosterPath), dest); err != nil {
			a.log.Warn("poster download failed", "file", videoPath, "error", err)
		} else {
			result.BoxFront = local
			result.Downloaded.BoxFront++
		}
	}

	if result.Screenshot == "" && a.fetch.Backdrop && details.BackdropPath != "" {
		dest := filepath.Join(a.dirs.Screenshot, stem)
		if local, err := a.images.Image(ctx, a.imageURL(details.BackdropPath), dest); err != nil {
			a.log.Warn("backdrop download failed", "file", videoPath, "error", err)
		} else {
			result.Screenshot = local
			result.Downloaded.Screenshot++
		}
	}

	if result.Wheel == "" && a.fetch.Logo {
		if logo := SelectLogo(logos, a.primaryLanguage); logo != nil {
			dest := filepath.Join(a.dirs.Wheel, stem)
			if local, err := a.images.Image(ctx, a.imageURL(logo.FilePath), dest); err != nil {
				a.log.Warn("logo download failed", "file", videoPath, "error", err)
			} else {
				result.Wheel = local
				result.Downloaded.Wheel++
			}
		} else {
			a.log.Warn("no logo available", "file", videoPath)
		}
	}

	if result.Video == "" && a.fetch.Trailer {
		dest := filepath.Join(a.dirs.Video, stem)
		if local, err := a.trailers.Download(ctx, movieID, dest); err != nil {
			a.log.Warn("trailer download failed", "file", videoPath, "error", err)
		} else if local != "" {
			result.Video = local
			result.Trailers++
		} else {
			a.log.Warn("no trailer acquired", "file", videoPath)
		}
	}

	return result
}
