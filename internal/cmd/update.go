package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pegascrape/internal/assets"
	"pegascrape/internal/catalog"
	"pegascrape/internal/config"
	"pegascrape/internal/i18n"
	"pegascrape/internal/identify"
	"pegascrape/internal/pipeline"
	"pegascrape/internal/probe"
	"pegascrape/internal/store"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Manually re-resolve one recorded movie",
	Long: `Update lists the movies already in the store, lets you pick one, searches
the catalog again by its extracted name and replaces the record with the
result you choose. Existing assets for the file are discarded and fetched
fresh for the new identity.`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.closeLog()

	u := &updater{
		cfg:    a.cfg,
		client: a.client,
		prober: probe.New(a.log),
		log:    a.log,
		in:     os.Stdin,
		out:    os.Stdout,
	}
	return u.run(cmd.Context())
}

// updater drives the interactive re-resolution dialogue. Input and output are
// injected so the flow is testable.
type updater struct {
	cfg    *config.Config
	client *catalog.Client
	prober pipeline.TechnicalProber
	log    *slog.Logger
	in     io.Reader
	out    io.Writer
}

func (u *updater) run(ctx context.Context) error {
	lang := u.cfg.InterfaceLanguage

	storePath := filepath.Join(u.cfg.MoviesPath, pipeline.StoreFileName)
	st, err := store.Load(storePath)
	if err != nil {
		return err
	}
	if st == nil || len(st.Records) == 0 {
		fmt.Fprintln(u.out, i18n.T(lang, "no_metadata"))
		return nil
	}

	reader := bufio.NewReader(u.in)

	record := u.chooseRecord(st, reader)
	if record == nil {
		return nil
	}
	fmt.Fprintf(u.out, "%s %s\n", i18n.T(lang, "updating_metadata_for"), record.ExtractedName)

	hit := u.chooseSearchHit(ctx, record.ExtractedName, reader)
	if hit == nil {
		return nil
	}

	meta, err := u.rebuild(ctx, record.OriginalFile, hit.ID)
	if err != nil {
		return err
	}

	updated := *record
	updated.Metadata = meta
	st.Merge([]store.Record{updated}, store.Stats{})
	if err := store.Save(st, storePath); err != nil {
		return err
	}

	fmt.Fprintf(u.out, "%s %s\n", i18n.T(lang, "metadata_updated"), meta.CatalogTitle)
	return nil
}

// chooseRecord prints the recorded movies sorted by extracted name and reads
// the selection. Nil means the user cancelled.
func (u *updater) chooseRecord(st *store.Store, reader *bufio.Reader) *store.Record {
	lang := u.cfg.InterfaceLanguage

	sorted := make([]*store.Record, 0, len(st.Records))
	for i := range st.Records {
		sorted = append(sorted, &st.Records[i])
	}
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].ExtractedName) < strings.ToLower(sorted[j].ExtractedName)
	})

	fmt.Fprintln(u.out, i18n.T(lang, "movies_available"))
	for i, record := range sorted {
		fmt.Fprintf(u.out, "%d. %s (%s: %s)\n", i+1, record.ExtractedName, i18n.T(lang, "file"), filepath.Base(record.OriginalFile))
	}

	choice := u.readChoice(i18n.T(lang, "select_movie"), len(sorted), reader)
	if choice == 0 {
		return nil
	}
	return sorted[choice-1]
}

// chooseSearchHit searches the catalog by name across the configured search
// languages, prints a labeled card per candidate and reads the selection.
// Nil means no results or cancellation.
func (u *updater) chooseSearchHit(ctx context.Context, name string, reader *bufio.Reader) *catalog.SearchResult {
	lang := u.cfg.InterfaceLanguage

	var hits []catalog.SearchResult
	seen := make(map[int64]bool)
	for _, searchLang := range u.cfg.SearchLanguages {
		response, err := u.client.SearchMovies(ctx, name, "", searchLang)
		if err != nil {
			u.log.Warn("search failed", "query", name, "language", searchLang, "error", err)
			continue
		}
		for _, hit := range response.Results {
			if seen[hit.ID] {
				continue
			}
			seen[hit.ID] = true
			hits = append(hits, hit)
		}
	}
	if len(hits) == 0 {
		fmt.Fprintln(u.out, i18n.T(lang, "no_metadata"))
		return nil
	}

	fmt.Fprintf(u.out, "%s %s:\n", i18n.T(lang, "results_for"), name)
	for i, hit := range hits {
		u.printCandidate(ctx, i+1, hit)
	}

	choice := u.readChoice(i18n.T(lang, "select_correct_movie"), len(hits), reader)
	if choice == 0 {
		return nil
	}
	return &hits[choice-1]
}

// printCandidate renders one numbered candidate card. The detail fetch adds
// runtime and genres; when it fails the card falls back to the search fields.
func (u *updater) printCandidate(ctx context.Context, number int, hit catalog.SearchResult) {
	lang := u.cfg.InterfaceLanguage

	year := i18n.T(lang, "unknown")
	if len(hit.ReleaseDate) >= 4 {
		year = hit.ReleaseDate[:4]
	}
	fmt.Fprintf(u.out, "%d. %s (%s: %s)\n", number, hit.Title, i18n.T(lang, "year"), year)
	if hit.OriginalTitle != "" && hit.OriginalTitle != hit.Title {
		fmt.Fprintf(u.out, "   %s: %s\n", i18n.T(lang, "original_title"), hit.OriginalTitle)
	}

	details, err := u.client.MovieDetails(ctx, hit.ID, u.cfg.PrimaryMetadataLanguage())
	if err == nil {
		if details.Runtime > 0 {
			fmt.Fprintf(u.out, "   %s: %d %s\n", i18n.T(lang, "duration"), details.Runtime, i18n.T(lang, "minutes"))
		}
		if len(details.Genres) > 0 {
			names := make([]string, 0, len(details.Genres))
			for _, genre := range details.Genres {
				names = append(names, genre.Name)
			}
			fmt.Fprintf(u.out, "   %s: %s\n", i18n.T(lang, "genres"), strings.Join(names, ", "))
		}
	}

	if hit.Overview != "" {
		fmt.Fprintf(u.out, "   %s: %s\n", i18n.T(lang, "description"), hit.Overview)
	}
}

// readChoice prompts until a number in [0, max] comes in. EOF cancels.
func (u *updater) readChoice(prompt string, max int, reader *bufio.Reader) int {
	for {
		fmt.Fprint(u.out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return 0
		}
		choice, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr == nil && choice >= 0 && choice <= max {
			return choice
		}
		if err != nil {
			return 0
		}
	}
}

// rebuild discards the file's existing assets and runs the assembly and
// acquisition chain against the newly chosen identity.
func (u *updater) rebuild(ctx context.Context, videoPath string, movieID int64) (*store.Metadata, error) {
	dirs, err := assets.EnsureMediaDirs(u.cfg.MoviesPath)
	if err != nil {
		return nil, err
	}
	u.removeExisting(dirs, videoPath)

	assembler := identify.NewAssembler(u.client, u.prober, u.cfg.MetadataLanguages, u.log)
	assembly, err := assembler.Assemble(ctx, movieID, videoPath)
	if err != nil {
		return nil, err
	}

	var logos []catalog.Image
	if images, err := u.client.MovieImages(ctx, movieID); err != nil {
		u.log.Warn("image listing failed", "id", movieID, "error", err)
	} else {
		logos = images.Logos
	}

	acquirer := u.newAcquirer(dirs)
	acquired := acquirer.Acquire(ctx, videoPath, movieID, assembly.Details, logos, assets.Existing{})
	technical := u.prober.Technical(ctx, videoPath)

	meta := assembly.Meta
	name := filepath.Base(videoPath)
	meta.Title = strings.TrimSuffix(name, filepath.Ext(name))
	meta.BoxFrontPath = acquired.BoxFront
	meta.ScreenshotPath = acquired.Screenshot
	meta.WheelPath = acquired.Wheel
	meta.VideoPath = acquired.Video
	meta.Codec = technical.Codec
	meta.Resolution = technical.Resolution
	meta.Aspect = technical.Aspect
	meta.Audio = technical.Audio
	return &meta, nil
}

// removeExisting deletes every on-disk asset sharing the file's stem so the
// acquisition fetches everything for the new identity.
func (u *updater) removeExisting(dirs assets.MediaDirs, videoPath string) {
	existing := dirs.Existing(videoPath)
	for _, path := range []string{existing.BoxFront, existing.Screenshot, existing.Wheel, existing.Video} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil {
			u.log.Warn("stale asset removal failed", "path", path, "error", err)
		}
	}
}

func (u *updater) newAcquirer(dirs assets.MediaDirs) *assets.Acquirer {
	timeout := time.Duration(u.cfg.DownloadTimeout) * time.Second
	images := assets.NewDownloader(nil, u.cfg.MaxRetries, u.log)
	trailers := assets.NewTrailerDownloader(u.client, u.cfg.TrailerLanguages, u.cfg.TrailerQuality, timeout, u.log)
	return assets.NewAcquirer(images, trailers, dirs, u.cfg.Fetch, u.client.ImageURL, u.cfg.PrimaryMetadataLanguage(), u.log)
}
