package identify

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"pegascrape/internal/catalog"
	"pegascrape/internal/store"
)

const (
	// noDescription fills the description field when no configured language
	// yields one.
	noDescription = "No description available"
	// unknownDirector fills the director field when the crew list has none.
	unknownDirector = "Unknown"
	// notRated is the certification fallback.
	notRated = "NR"
	// certificationCountry is the market whose certification letters are used.
	certificationCountry = "US"
)

// DurationProber supplies the local file duration fallback.
type DurationProber interface {
	Duration(ctx context.Context, path string) (int, error)
}

// Assembly is the output of one assembly pass: the resolved metadata fields
// plus the primary-language details needed for asset acquisition.
type Assembly struct {
	Meta    store.Metadata
	Details *catalog.MovieDetails
}

// Assembler gathers localized metadata for a resolved candidate.
type Assembler struct {
	catalog   Catalog
	prober    DurationProber
	languages []string
	log       *slog.Logger
	now       func() time.Time
}

// NewAssembler builds an assembler walking languages in priority order; the
// first entry is the primary language sourcing the canonical fields.
func NewAssembler(cat Catalog, prober DurationProber, languages []string, log *slog.Logger) *Assembler {
	return &Assembler{
		catalog:   cat,
		prober:    prober,
		languages: languages,
		log:       log,
		now:       time.Now,
	}
}

// Assemble fetches details for movieID across the configured languages and
// builds the resolved-fields block. videoPath is probed for duration when the
// catalog reports no runtime. Network errors on the per-language ladder are
// fatal to the attempt (the caller retries); certification and duration
// fallbacks degrade to defaults instead of failing.
func (a *Assembler) Assemble(ctx context.Context, movieID int64, videoPath string) (*Assembly, error) {
	description, tagline, duration, err := a.localizedFields(ctx, movieID)
	if err != nil {
		return nil, err
	}

	// The canonical fields always come from the primary language.
	details, err := a.catalog.MovieDetails(ctx, movieID, a.primaryLanguage())
	if err != nil {
		return nil, err
	}
	if description == "" {
		description = details.Overview
	}
	if description == "" {
		description = noDescription
	}

	if duration == 0 {
		duration = details.Runtime
	}
	if duration == 0 {
		probed, err := a.prober.Duration(ctx, videoPath)
		if err != nil {
			a.log.Warn("duration probe failed", "path", videoPath, "error", err)
		} else {
			duration = probed
		}
	}

	director := details.Director()
	if director == "" {
		director = unknownDirector
	}

	companies := make([]string, 0, len(details.ProductionCompanies))
	for _, company := range details.ProductionCompanies {
		companies = append(companies, company.Name)
	}
	genres := make([]string, 0, len(details.Genres))
	for _, genre := range details.Genres {
		genres = append(genres, genre.Name)
	}

	meta := store.Metadata{
		CatalogTitle:        details.Title,
		OriginalTitle:       details.OriginalTitle,
		Year:                releaseYear(details.ReleaseDate),
		Duration:            duration,
		Director:            director,
		ProductionCompanies: companies,
		Rating:              roundRating(details.VoteAverage),
		Description:         description,
		Genres:              genres,
		CatalogID:           details.ID,
		ReleaseDate:         details.ReleaseDate,
		MetadataLanguages:   strings.Join(a.languages, ", "),
		AddedDate:           a.now().Format(store.AddedDateLayout),
		Tagline:             tagline,
		Classification:      a.certification(ctx, movieID),
	}

	return &Assembly{Meta: meta, Details: details}, nil
}

// localizedFields walks the language ladder keeping the first non-empty
// description and tagline and the first non-zero runtime, stopping early once
// all three are found.
func (a *Assembler) localizedFields(ctx context.Context, movieID int64) (string, string, int, error) {
	var description, tagline string
	var runtime int
	for _, lang := range a.languages {
		details, err := a.catalog.MovieDetails(ctx, movieID, lang)
		if err != nil {
			return "", "", 0, err
		}
		if description == "" && details.Overview != "" {
			description = details.Overview
		}
		if tagline == "" && details.Tagline != "" {
			tagline = details.Tagline
		}
		if runtime == 0 && details.Runtime > 0 {
			runtime = details.Runtime
		}
		if description != "" && tagline != "" && runtime != 0 {
			break
		}
	}
	return description, tagline, runtime, nil
}

// certification returns the US certification letters, defaulting to NR on
// absence or any lookup failure.
func (a *Assembler) certification(ctx context.Context, movieID int64) string {
	releases, err := a.catalog.MovieReleaseDates(ctx, movieID)
	if err != nil {
		a.log.Warn("certification lookup failed", "id", movieID, "error", err)
		return notRated
	}
	if cert := releases.Certification(certificationCountry); cert != "" {
		return cert
	}
	return notRated
}

func (a *Assembler) primaryLanguage() string {
	if len(a.languages) == 0 {
		return ""
	}
	return a.languages[0]
}

// roundRating maps the catalog's 0-10 vote average onto [0,1] with two
// decimals.
func roundRating(voteAverage float64) float64 {
	return math.Round(voteAverage*10) / 100
}
