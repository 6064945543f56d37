package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"pegascrape/internal/catalog"
	"pegascrape/internal/config"
	"pegascrape/internal/logging"
	"pegascrape/internal/store"
)

func testAcquirer(t *testing.T, fetch config.FetchFlags, listerOK bool) (*Acquirer, MediaDirs, *int) {
	t.Helper()

	var imageRequests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		imageRequests++
		w.Write([]byte("bytes"))
	}))
	t.Cleanup(server.Close)

	dirs, err := EnsureMediaDirs(t.TempDir())
	if err != nil {
		t.Fatalf("EnsureMediaDirs() error = %v", err)
	}

	lister := &fakeVideoLister{}
	if listerOK {
		lister.byLanguage = map[string][]catalog.Video{
			"en-US": {{Key: "k", Site: "YouTube", Type: "Trailer"}},
		}
	}
	trailers := NewTrailerDownloader(lister, []string{"en-US"}, "480p", 0, logging.Discard())
	trailers.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		// Derive the destination stem from the --output template.
		for i, arg := range args {
			if arg == "--output" {
				stem := args[i+1][:len(args[i+1])-len(".%(ext)s")]
				return nil, os.WriteFile(stem+".mp4", nil, 0644)
			}
		}
		return nil, nil
	}

	imageURL := func(p string) string { return server.URL + p }
	acq := NewAcquirer(fastDownloader(server.Client(), 2), trailers, dirs, fetch, imageURL, "es-ES", logging.Discard())
	return acq, dirs, &imageRequests
}

func TestAcquireDownloadsAllKinds(t *testing.T) {
	fetch := config.FetchFlags{Poster: true, Backdrop: true, Logo: true, Trailer: true}
	acq, dirs, imageRequests := testAcquirer(t, fetch, true)

	details := &catalog.MovieDetails{ID: 348, PosterPath: "/p.jpg", BackdropPath: "/b.jpg"}
	logos := []catalog.Image{{FilePath: "/l.png", Language: "es"}}

	result := acq.Acquire(context.Background(), "/movies/Alien (1979).mkv", 348, details, logos, Existing{})

	if result.BoxFront != filepath.Join(dirs.BoxFront, "Alien (1979).jpg") {
		t.Errorf("BoxFront = %q", result.BoxFront)
	}
	if result.Screenshot == "" || result.Wheel == "" || result.Video == "" {
		t.Errorf("missing assets in result: %+v", result)
	}
	if *imageRequests != 3 {
		t.Errorf("image requests = %d, want 3", *imageRequests)
	}
	if result.Downloaded.BoxFront != 1 || result.Downloaded.Screenshot != 1 || result.Downloaded.Wheel != 1 {
		t.Errorf("Downloaded = %+v, want one per kind", result.Downloaded)
	}
	if result.Trailers != 1 {
		t.Errorf("Trailers = %d, want 1", result.Trailers)
	}
}

func TestAcquireSkipsExistingAssets(t *testing.T) {
	fetch := config.FetchFlags{Poster: true, Backdrop: true, Logo: true, Trailer: true}
	acq, _, imageRequests := testAcquirer(t, fetch, true)

	existing := Existing{
		BoxFront:   "/media/boxFront/Alien (1979).jpg",
		Screenshot: "/media/screenshot/Alien (1979).jpg",
		Wheel:      "/media/wheel/Alien (1979).png",
		Video:      "/media/video/Alien (1979).mp4",
	}
	details := &catalog.MovieDetails{ID: 348, PosterPath: "/p.jpg", BackdropPath: "/b.jpg"}

	result := acq.Acquire(context.Background(), "/movies/Alien (1979).mkv", 348, details, nil, existing)

	if *imageRequests != 0 {
		t.Errorf("image requests = %d, want 0 (idempotent skip)", *imageRequests)
	}
	if result.BoxFront != existing.BoxFront || result.Video != existing.Video {
		t.Errorf("result = %+v, want existing paths unchanged", result)
	}
	if result.Downloaded != (store.ImageStats{}) || result.Trailers != 0 {
		t.Errorf("counters = %+v/%d, want zero for skipped assets", result.Downloaded, result.Trailers)
	}
}

func TestAcquireHonorsFetchFlags(t *testing.T) {
	acq, _, imageRequests := testAcquirer(t, config.FetchFlags{}, false)

	result := acq.Acquire(context.Background(), "/movies/movie.mkv", 348, nil, nil, Existing{})

	if *imageRequests != 0 {
		t.Errorf("image requests = %d, want 0 with all flags off", *imageRequests)
	}
	if result.BoxFront != "" || result.Video != "" {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestMediaDirsExisting(t *testing.T) {
	root := t.TempDir()
	dirs, err := EnsureMediaDirs(root)
	if err != nil {
		t.Fatalf("EnsureMediaDirs() error = %v", err)
	}

	posterPath := filepath.Join(dirs.BoxFront, "Alien (1979).jpg")
	if err := os.WriteFile(posterPath, nil, 0644); err != nil {
		t.Fatal(err)
	}

	existing := dirs.Existing("/movies/Alien (1979).mkv")
	if existing.BoxFront != posterPath {
		t.Errorf("BoxFront = %q, want %q", existing.BoxFront, posterPath)
	}
	if existing.Wheel != "" {
		t.Errorf("Wheel = %q, want empty", existing.Wheel)
	}
}
