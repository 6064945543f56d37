package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleRecord(path, name string) Record {
	return Record{
		Type:          "movie",
		OriginalFile:  path,
		ExtractedName: name,
		Metadata: &Metadata{
			Title:        name,
			CatalogTitle: name,
			Director:     "Unknown",
		},
	}
}

func TestLoadMissingFileReturnsNil(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "metadata.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s != nil {
		t.Errorf("Load() = %+v, want nil for missing file", s)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() succeeded for malformed file, want error")
	}
}

func TestMergeReplacesInPlace(t *testing.T) {
	s := New()
	s.Merge([]Record{
		sampleRecord("/movies/a.mkv", "A"),
		sampleRecord("/movies/b.mkv", "B"),
	}, Stats{TotalProcessed: 2, Found: 2})

	updated := sampleRecord("/movies/a.mkv", "A")
	updated.Metadata.Director = "Ridley Scott"
	s.Merge([]Record{updated}, Stats{TotalProcessed: 1, Found: 1})

	if len(s.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2 (replace in place)", len(s.Records))
	}
	if s.Records[0].OriginalFile != "/movies/a.mkv" {
		t.Errorf("Records[0] key = %q, replaced record moved", s.Records[0].OriginalFile)
	}
	if s.Records[0].Metadata.Director != "Ridley Scott" {
		t.Errorf("Director = %q, want Ridley Scott", s.Records[0].Metadata.Director)
	}
}

func TestMergeAppendsNewKeys(t *testing.T) {
	s := New()
	s.Merge([]Record{sampleRecord("/movies/a.mkv", "A")}, Stats{})
	s.Merge([]Record{sampleRecord("/movies/b.mkv", "B")}, Stats{})

	if len(s.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(s.Records))
	}
}

func TestMergeSumsStats(t *testing.T) {
	s := New()
	run := Stats{
		TotalProcessed: 3,
		Found:          2,
		NotFound:       1,
		Images:         ImageStats{BoxFront: 2, Screenshot: 1, Wheel: 1},
		Trailers:       1,
	}
	s.Merge(nil, run)
	s.Merge(nil, run)

	want := Stats{
		TotalProcessed: 6,
		Found:          4,
		NotFound:       2,
		Images:         ImageStats{BoxFront: 4, Screenshot: 2, Wheel: 2},
		Trailers:       2,
	}
	if diff := cmp.Diff(want, s.Stats); diff != "" {
		t.Errorf("Stats mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRoundTripAndExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metadata.json")

	s := New()
	s.Merge([]Record{sampleRecord("/movies/Alien (1979).mkv", "Alien")}, Stats{TotalProcessed: 1, Found: 1})

	if err := Save(s, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(s, loaded); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}

	// The flat-text export is regenerated next to the store file.
	if _, err := os.Stat(filepath.Join(dir, "metadata.txt")); err != nil {
		t.Errorf("text export missing: %v", err)
	}
}

func TestExportTextRecordBlock(t *testing.T) {
	record := Record{
		Type:          "movie",
		OriginalFile:  "/movies/Alien (1979).mkv",
		ExtractedName: "Alien",
		Metadata: &Metadata{
			Title:               "Alien (1979)",
			CatalogTitle:        "Alien",
			Director:            "Ridley Scott",
			ProductionCompanies: []string{"Brandywine Productions", "20th Century Fox"},
			Rating:              0.81,
			Description:         "A deep space crew answers a distress call.",
			Genres:              []string{"Horror", "Science Fiction"},
			BoxFrontPath:        "/movies/media/boxFront/Alien (1979).jpg",
			VideoPath:           "/movies/media/video/Alien (1979).mp4",
			ReleaseDate:         "1979-05-25",
			AddedDate:           "2026-01-02 15:04:05",
			Duration:            117,
			Tagline:             "In space no one can hear you scream.",
			Classification:      "R",
			Codec:               "H264",
			Resolution:          "1080 HD",
			Aspect:              "16:9",
			Audio:               "Stereo",
		},
	}

	path := filepath.Join(t.TempDir(), "metadata.txt")
	s := &Store{Records: []Record{record}}
	if err := ExportText(s, path); err != nil {
		t.Fatalf("ExportText() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	sep := string(filepath.Separator)

	for _, want := range []string{
		"collection: Movies\n",
		"game: Alien (1979)\n",
		"developer: Ridley Scott\n",
		"publisher: Brandywine Productions\n",
		"genre: Horror, Science Fiction\n",
		"rating: 81%\n",
		"assets.boxFront: ." + sep + "media" + sep + "boxFront" + sep + "Alien (1979).jpg\n",
		"assets.video: ." + sep + "media" + sep + "video" + sep + "Alien (1979).mp4\n",
		"x-Duration: 117\n",
		"x-classification: R\n",
		"x-added-timestamp: ",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("export missing %q\nfull text:\n%s", want, text)
		}
	}

	if strings.Contains(text, "assets.screenshot:") {
		t.Error("export contains assets.screenshot for an absent asset")
	}
}

func TestExportTextUnknownBlock(t *testing.T) {
	record := Record{
		Type:          "movie",
		OriginalFile:  "/movies/Mystery.mkv",
		ExtractedName: "Mystery",
	}

	path := filepath.Join(t.TempDir(), "metadata.txt")
	if err := ExportText(&Store{Records: []Record{record}}, path); err != nil {
		t.Fatalf("ExportText() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	for _, want := range []string{
		"game: Mystery\n",
		"developer: Unknown\n",
		"  No description available\n",
		"rating: 0%\n",
		"x-classification: Unknown\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("export missing %q\nfull text:\n%s", want, text)
		}
	}
}

func TestEpochMillis(t *testing.T) {
	if got := epochMillis("not-a-date"); got != "" {
		t.Errorf("epochMillis(malformed) = %q, want empty", got)
	}
	if got := epochMillis("2026-01-02 15:04:05"); got == "" {
		t.Error("epochMillis(valid) = empty, want millisecond timestamp")
	}
}
