package identify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"pegascrape/internal/catalog"
	"pegascrape/internal/logging"
	"pegascrape/internal/store"
)

type fakeProber struct {
	duration int
	err      error
}

func (f *fakeProber) Duration(ctx context.Context, path string) (int, error) {
	return f.duration, f.err
}

func newAssembler(cat Catalog, prober DurationProber) *Assembler {
	a := NewAssembler(cat, prober, []string{"es-MX", "en-US"}, logging.Discard())
	a.now = func() time.Time {
		return time.Date(2026, 1, 2, 15, 4, 5, 0, time.Local)
	}
	return a
}

func TestAssembleLanguageLadder(t *testing.T) {
	cat := &fakeCatalog{
		details: map[string]map[int64]*catalog.MovieDetails{
			// Primary language has a tagline but no description.
			"es-MX": {348: {
				ID:            348,
				Title:         "Alien, el octavo pasajero",
				OriginalTitle: "Alien",
				Tagline:       "En el espacio nadie puede oírte gritar",
				ReleaseDate:   "1979-05-25",
				Runtime:       117,
				VoteAverage:   8.1,
				Genres:        []catalog.Genre{{ID: 27, Name: "Terror"}},
				ProductionCompanies: []catalog.Company{
					{ID: 19747, Name: "Brandywine Productions"},
				},
				Credits: &catalog.Credits{Crew: []catalog.CrewMember{
					{Name: "Ridley Scott", Job: "Director"},
				}},
			}},
			"en-US": {348: {
				ID:       348,
				Title:    "Alien",
				Overview: "A deep space crew answers a distress call.",
				Runtime:  117,
			}},
		},
		releases: &catalog.ReleaseDates{Results: []catalog.CountryReleases{
			{Country: "US", ReleaseDates: []catalog.ReleaseDate{{Certification: "R"}}},
		}},
	}

	got, err := newAssembler(cat, &fakeProber{}).Assemble(context.Background(), 348, "/movies/Alien (1979).mkv")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	want := store.Metadata{
		CatalogTitle:        "Alien, el octavo pasajero",
		OriginalTitle:       "Alien",
		Year:                "1979",
		Duration:            117,
		Director:            "Ridley Scott",
		ProductionCompanies: []string{"Brandywine Productions"},
		Rating:              0.81,
		Description:         "A deep space crew answers a distress call.",
		Genres:              []string{"Terror"},
		CatalogID:           348,
		ReleaseDate:         "1979-05-25",
		MetadataLanguages:   "es-MX, en-US",
		AddedDate:           "2026-01-02 15:04:05",
		Tagline:             "En el espacio nadie puede oírte gritar",
		Classification:      "R",
	}
	if diff := cmp.Diff(want, got.Meta); diff != "" {
		t.Errorf("Assemble() mismatch (-want +got):\n%s", diff)
	}
	if got.Details == nil || got.Details.Title != "Alien, el octavo pasajero" {
		t.Errorf("Details = %+v, want primary-language payload", got.Details)
	}
}

func TestAssembleDescriptionPlaceholder(t *testing.T) {
	cat := &fakeCatalog{
		fallback: map[int64]*catalog.MovieDetails{
			42: {ID: 42, Title: "Obscure", Runtime: 90},
		},
	}

	got, err := newAssembler(cat, &fakeProber{}).Assemble(context.Background(), 42, "/movies/Obscure.mkv")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if got.Meta.Description != "No description available" {
		t.Errorf("Description = %q, want placeholder", got.Meta.Description)
	}
	if got.Meta.Classification != "NR" {
		t.Errorf("Classification = %q, want NR on lookup failure", got.Meta.Classification)
	}
	if got.Meta.Director != "Unknown" {
		t.Errorf("Director = %q, want Unknown sentinel", got.Meta.Director)
	}
}

func TestAssembleRuntimeFromLanguageLadder(t *testing.T) {
	cat := &fakeCatalog{
		details: map[string]map[int64]*catalog.MovieDetails{
			// Primary language omits the runtime; the next language has it.
			"es-MX": {42: {ID: 42, Title: "Obscure"}},
			"en-US": {42: {ID: 42, Title: "Obscure", Runtime: 95}},
		},
	}

	got, err := newAssembler(cat, &fakeProber{duration: 5400}).Assemble(context.Background(), 42, "/movies/Obscure.mkv")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if got.Meta.Duration != 95 {
		t.Errorf("Duration = %d, want 95 from the secondary language, not the probe", got.Meta.Duration)
	}
}

func TestAssembleDurationFallsBackToProbe(t *testing.T) {
	cat := &fakeCatalog{
		fallback: map[int64]*catalog.MovieDetails{
			42: {ID: 42, Title: "Obscure"},
		},
	}

	got, err := newAssembler(cat, &fakeProber{duration: 5400}).Assemble(context.Background(), 42, "/movies/Obscure.mkv")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if got.Meta.Duration != 5400 {
		t.Errorf("Duration = %d, want probed 5400", got.Meta.Duration)
	}
}

func TestAssembleProbeFailureLeavesZeroDuration(t *testing.T) {
	cat := &fakeCatalog{
		fallback: map[int64]*catalog.MovieDetails{
			42: {ID: 42, Title: "Obscure"},
		},
	}

	got, err := newAssembler(cat, &fakeProber{err: errors.New("no ffprobe")}).Assemble(context.Background(), 42, "/movies/Obscure.mkv")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if got.Meta.Duration != 0 {
		t.Errorf("Duration = %d, want 0", got.Meta.Duration)
	}
}

func TestAssembleDetailErrorPropagates(t *testing.T) {
	cat := &fakeCatalog{detailErrs: map[int64]error{42: errors.New("boom")}}
	if _, err := newAssembler(cat, &fakeProber{}).Assemble(context.Background(), 42, "/movies/Obscure.mkv"); err == nil {
		t.Error("Assemble() succeeded on detail error, want error")
	}
}
