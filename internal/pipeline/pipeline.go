// Package pipeline drives one enrichment run: discovery, identification,
// assembly, asset acquisition and the final store merge.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	csmap "github.com/mhmtszr/concurrent-swiss-map"

	"pegascrape/internal/assets"
	"pegascrape/internal/catalog"
	"pegascrape/internal/config"
	"pegascrape/internal/i18n"
	"pegascrape/internal/identify"
	"pegascrape/internal/probe"
	"pegascrape/internal/scan"
	"pegascrape/internal/store"
)

// StoreFileName is the store document name inside the collection root.
const StoreFileName = "metadata.json"

// TechnicalProber supplies local stream inspection for discovered files.
type TechnicalProber interface {
	Technical(ctx context.Context, path string) probe.TechnicalInfo
	Duration(ctx context.Context, path string) (int, error)
}

// Pipeline owns all per-run state. Workers share only the resolution cache
// and the counters; everything else is per-file local.
type Pipeline struct {
	cfg       *config.Config
	client    *catalog.Client
	prober    TechnicalProber
	resolver  *identify.Resolver
	assembler *identify.Assembler
	log       *slog.Logger
	out       io.Writer

	// resolutions caches resolver outcomes per (title, year) so duplicate
	// titles across files resolve once per run.
	resolutions *csmap.CsMap[string, *identify.Candidate]

	statsMu sync.Mutex
	stats   store.Stats
	errs    []string
}

// New wires a pipeline over the catalog client and prober. Output such as
// the run summary goes to out.
func New(cfg *config.Config, client *catalog.Client, prober TechnicalProber, log *slog.Logger, out io.Writer) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		client:      client,
		prober:      prober,
		resolver:    identify.NewResolver(client, cfg.SearchLanguages, cfg.PrimaryMetadataLanguage(), cfg.MinRuntime(), log),
		assembler:   identify.NewAssembler(client, prober, cfg.MetadataLanguages, log),
		log:         log,
		out:         out,
		resolutions: csmap.Create[string, *identify.Candidate](),
	}
}

// Run performs one full enrichment pass. Startup gates (API key validation,
// non-empty discovery) abort before any file is touched; per-file failures
// never abort the run.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.client.ValidateKey(ctx); err != nil {
		return fmt.Errorf("validate api key: %w", err)
	}

	files, err := scan.Discover(p.cfg.MoviesPath, StoreFileName)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no video files found under " + p.cfg.MoviesPath)
	}

	storePath := filepath.Join(p.cfg.MoviesPath, StoreFileName)
	st, err := store.Load(storePath)
	if err != nil {
		return err
	}
	if st == nil {
		st = store.New()
	}

	dirs, err := assets.EnsureMediaDirs(p.cfg.MoviesPath)
	if err != nil {
		return err
	}
	acquirer := p.newAcquirer(dirs)

	// Files already recorded skip the whole chain; only the processed
	// counter moves.
	pending := make([]string, 0, len(files))
	for _, file := range files {
		if st.Find(file) != nil {
			p.log.Info("already recorded, skipping", "file", file)
			p.stats.TotalProcessed++
			continue
		}
		pending = append(pending, file)
	}

	lang := p.cfg.InterfaceLanguage
	fmt.Fprintf(p.out, i18n.T(lang, "processing_files")+"\n", len(pending))

	records := p.processAll(ctx, pending, acquirer, dirs)

	st.Merge(records, p.stats)
	st.Errors = append(st.Errors, p.errs...)
	if err := store.Save(st, storePath); err != nil {
		return err
	}

	p.printSummary(strings.TrimSuffix(storePath, ".json") + ".txt")
	return nil
}

func (p *Pipeline) newAcquirer(dirs assets.MediaDirs) *assets.Acquirer {
	timeout := time.Duration(p.cfg.DownloadTimeout) * time.Second
	images := assets.NewDownloader(nil, p.cfg.MaxRetries, p.log)
	trailers := assets.NewTrailerDownloader(p.client, p.cfg.TrailerLanguages, p.cfg.TrailerQuality, timeout, p.log)
	return assets.NewAcquirer(images, trailers, dirs, p.cfg.Fetch, p.client.ImageURL, p.cfg.PrimaryMetadataLanguage(), p.log)
}

// processAll fans files out over a fixed-width worker pool. Each worker
// writes into its own slot of the result slice, so the final order is the
// discovery order regardless of completion order.
func (p *Pipeline) processAll(ctx context.Context, files []string, acquirer *assets.Acquirer, dirs assets.MediaDirs) []store.Record {
	if len(files) == 0 {
		return nil
	}

	results := make([]store.Record, len(files))
	workCh := make(chan int)
	workerCount := min(p.cfg.Workers, len(files))

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				results[idx] = p.processFile(ctx, files[idx], acquirer, dirs)
			}
		}()
	}

	for idx := range files {
		workCh <- idx
	}
	close(workCh)
	wg.Wait()

	return results
}

// processFile runs the resolver/assembler/acquirer chain for one file,
// retrying with exponential backoff when a step fails. Exhausted retries and
// resolution misses both produce a record with a nil metadata block.
func (p *Pipeline) processFile(ctx context.Context, path string, acquirer *assets.Acquirer, dirs assets.MediaDirs) store.Record {
	title, year := scan.ExtractTitleAndYear(path)
	record := store.Record{Type: "movie", OriginalFile: path, ExtractedName: title}

	var lastErr error
	for attempt := 0; attempt < p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}

		meta, resolved, err := p.enrich(ctx, path, title, year, acquirer, dirs)
		if err != nil {
			lastErr = err
			p.log.Warn("enrichment attempt failed", "file", path, "attempt", attempt+1, "error", err)
			continue
		}

		if !resolved {
			p.addStats(store.Stats{TotalProcessed: 1, NotFound: 1})
			return record
		}

		record.Metadata = meta
		return record
	}

	p.log.Error("enrichment failed after retries", "file", path, "attempts", p.cfg.MaxRetries, "error", lastErr)
	p.appendError(fmt.Sprintf("%s: %v", path, lastErr))
	p.addStats(store.Stats{TotalProcessed: 1, NotFound: 1})
	return record
}

// enrich performs one attempt of the full chain. The bool result reports
// whether the file resolved to a catalog entry; false with a nil error is a
// clean miss.
func (p *Pipeline) enrich(ctx context.Context, path, title, year string, acquirer *assets.Acquirer, dirs assets.MediaDirs) (*store.Metadata, bool, error) {
	candidate, err := p.resolveCached(ctx, title, year)
	if err != nil {
		return nil, false, err
	}
	if candidate == nil {
		return nil, false, nil
	}

	assembly, err := p.assembler.Assemble(ctx, candidate.ID, path)
	if err != nil {
		return nil, false, err
	}

	var logos []catalog.Image
	if images, err := p.client.MovieImages(ctx, candidate.ID); err != nil {
		p.log.Warn("image listing failed", "id", candidate.ID, "error", err)
	} else {
		logos = images.Logos
	}

	acquired := acquirer.Acquire(ctx, path, candidate.ID, assembly.Details, logos, dirs.Existing(path))
	technical := p.prober.Technical(ctx, path)

	meta := assembly.Meta
	meta.Title = fileStem(path)
	meta.BoxFrontPath = acquired.BoxFront
	meta.ScreenshotPath = acquired.Screenshot
	meta.WheelPath = acquired.Wheel
	meta.VideoPath = acquired.Video
	meta.Codec = technical.Codec
	meta.Resolution = technical.Resolution
	meta.Aspect = technical.Aspect
	meta.Audio = technical.Audio

	p.addStats(store.Stats{
		TotalProcessed: 1,
		Found:          1,
		Images:         acquired.Downloaded,
		Trailers:       acquired.Trailers,
	})
	p.log.Info("enriched", "file", path, "tmdb_id", candidate.ID, "score", candidate.Score)

	return &meta, true, nil
}

// resolveCached memoizes resolver outcomes per (title, year), including
// clean misses; errors are never cached.
func (p *Pipeline) resolveCached(ctx context.Context, title, year string) (*identify.Candidate, error) {
	key := title + "|" + year
	if candidate, ok := p.resolutions.Load(key); ok {
		return candidate, nil
	}

	candidate, err := p.resolver.Resolve(ctx, title, year)
	if err != nil {
		return nil, err
	}
	p.resolutions.Store(key, candidate)
	return candidate, nil
}

func (p *Pipeline) addStats(delta store.Stats) {
	p.statsMu.Lock()
	p.stats.Add(delta)
	p.statsMu.Unlock()
}

func (p *Pipeline) appendError(message string) {
	p.statsMu.Lock()
	p.errs = append(p.errs, message)
	p.statsMu.Unlock()
}

// Stats returns the counters accumulated so far. Meant for after Run.
func (p *Pipeline) Stats() store.Stats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	return p.stats
}

func fileStem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
