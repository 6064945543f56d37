package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"pegascrape/internal/catalog"
)

// Downloader fetches image assets over HTTP with retries and exponential
// backoff between attempts.
type Downloader struct {
	httpClient      *http.Client
	maxRetries      int
	initialInterval time.Duration
	log             *slog.Logger
}

// NewDownloader builds a Downloader performing up to maxRetries attempts per
// asset. The supplied client carries the per-request timeout.
func NewDownloader(client *http.Client, maxRetries int, log *slog.Logger) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Downloader{
		httpClient:      client,
		maxRetries:      maxRetries,
		initialInterval: time.Second,
		log:             log,
	}
}

// Image downloads rawURL to destStem plus the extension taken from the URL
// path, returning the final local path. Every failed attempt backs off
// exponentially; exhausting the retries returns the last error.
func (d *Downloader) Image(ctx context.Context, rawURL, destStem string) (string, error) {
	ext, err := urlExtension(rawURL)
	if err != nil {
		return "", err
	}
	dest := destStem + ext

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = d.initialInterval
	policy.Multiplier = 2
	policy.RandomizationFactor = 0

	attempt := 0
	operation := func() error {
		attempt++
		if err := d.fetch(ctx, rawURL, dest); err != nil {
			d.log.Warn("image download attempt failed", "url", rawURL, "attempt", attempt, "error", err)
			return err
		}
		return nil
	}

	err = backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(d.maxRetries-1)), ctx))
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rawURL, err)
	}
	return dest, nil
}

func (d *Downloader) fetch(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return backoff.Permanent(err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	file, err := os.Create(dest)
	if err != nil {
		return backoff.Permanent(err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}

// urlExtension extracts the lowercase file extension from a download URL.
func urlExtension(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse asset url: %w", err)
	}
	ext := path.Ext(parsed.Path)
	if ext == "" {
		return "", fmt.Errorf("asset url %s has no extension", rawURL)
	}
	return ext, nil
}

// SelectLogo applies the logo priority ladder: a logo tagged with the
// primary metadata language, then an English-tagged one when the primary
// language is not English, then an untagged logo, then the first in the
// list. Returns nil when the list is empty.
func SelectLogo(logos []catalog.Image, primaryLanguage string) *catalog.Image {
	if len(logos) == 0 {
		return nil
	}

	base := baseLanguage(primaryLanguage)
	for i := range logos {
		if logos[i].Language == base {
			return &logos[i]
		}
	}
	if base != "en" {
		for i := range logos {
			if logos[i].Language == "en" {
				return &logos[i]
			}
		}
	}
	for i := range logos {
		if logos[i].Language == "" {
			return &logos[i]
		}
	}
	return &logos[0]
}

// baseLanguage strips the region subtag: es-MX -> es.
func baseLanguage(lang string) string {
	if dash := strings.IndexByte(lang, '-'); dash > 0 {
		return lang[:dash]
	}
	return lang
}
