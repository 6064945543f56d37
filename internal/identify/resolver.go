// Package identify turns an extracted title into a single catalog match and
// assembles the full metadata block for it.
package identify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"pegascrape/internal/catalog"
)

// Catalog is the subset of the catalog client used for identification.
type Catalog interface {
	SearchMovies(ctx context.Context, query, year, language string) (*catalog.SearchResponse, error)
	MovieDetails(ctx context.Context, movieID int64, language string) (*catalog.MovieDetails, error)
	MovieReleaseDates(ctx context.Context, movieID int64) (*catalog.ReleaseDates, error)
}

// Candidate is the chosen catalog match for one file.
type Candidate struct {
	ID      int64
	Title   string
	Year    string
	Runtime int
	Score   float64
}

// Resolver scores catalog search hits against extracted titles.
type Resolver struct {
	catalog         Catalog
	searchLanguages []string
	detailLanguage  string
	minRuntime      int
	similarity      *metrics.Levenshtein
	log             *slog.Logger
}

// NewResolver builds a resolver querying each of searchLanguages in order.
// detailLanguage is used for the runtime lookup; minRuntime (minutes)
// filters short-film noise out of the hit list.
func NewResolver(cat Catalog, searchLanguages []string, detailLanguage string, minRuntime int, log *slog.Logger) *Resolver {
	levenshtein := metrics.NewLevenshtein()
	levenshtein.CaseSensitive = false
	return &Resolver{
		catalog:         cat,
		searchLanguages: searchLanguages,
		detailLanguage:  detailLanguage,
		minRuntime:      minRuntime,
		similarity:      levenshtein,
		log:             log,
	}
}

// Resolve queries every configured search language, filters hits by the
// runtime floor and returns the best-scoring candidate, or nil when nothing
// usable was found. Scoring is similarity in [0,1] plus 0.5 when the year
// parsed from the filename equals the hit's release year; on equal scores
// the first-seen hit wins, so the configured language order is the
// tie-break order.
func (r *Resolver) Resolve(ctx context.Context, title, year string) (*Candidate, error) {
	var hits []catalog.SearchResult
	for _, lang := range r.searchLanguages {
		resp, err := r.catalog.SearchMovies(ctx, title, "", lang)
		if err != nil {
			return nil, err
		}
		// Hits are accumulated without de-duplication: the same movie found
		// through two languages is scored twice, which is harmless and keeps
		// whichever localized title matches the filename better.
		hits = append(hits, resp.Results...)
	}
	if len(hits) == 0 {
		r.log.Warn("no candidates found", "title", title)
		return nil, nil
	}

	var best *Candidate
	bestScore := 0.0
	for _, hit := range hits {
		details, err := r.catalog.MovieDetails(ctx, hit.ID, r.detailLanguage)
		if err != nil {
			// One broken hit never fails the resolution.
			r.log.Warn("detail lookup failed", "id", hit.ID, "title", hit.Title, "error", err)
			continue
		}
		if details.Runtime > 0 && details.Runtime < r.minRuntime {
			r.log.Debug("discarding short candidate", "title", hit.Title, "runtime", details.Runtime)
			continue
		}

		hitYear := releaseYear(hit.ReleaseDate)
		score := strutil.Similarity(title, hit.Title, r.similarity)
		if year != "" && hitYear != "" && year == hitYear {
			score += 0.5
		}
		if score > bestScore {
			bestScore = score
			best = &Candidate{
				ID:      hit.ID,
				Title:   hit.Title,
				Year:    hitYear,
				Runtime: details.Runtime,
				Score:   score,
			}
		}
	}

	if best == nil {
		r.log.Warn("no candidates survived filtering", "title", title)
	}
	return best, nil
}

// releaseYear extracts the 4-digit year from a yyyy-mm-dd release date.
func releaseYear(releaseDate string) string {
	if len(releaseDate) < 4 {
		return ""
	}
	year := releaseDate[:4]
	if strings.Trim(year, "0123456789") != "" {
		return ""
	}
	return year
}
