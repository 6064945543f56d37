// Package store persists the per-collection metadata store and derives the
// flat-text frontend export from it.
package store

// ImageStats counts downloaded images by asset kind.
type ImageStats struct {
	BoxFront   int `json:"boxfront"`
	Screenshot int `json:"screenshot"`
	Wheel      int `json:"wheel"`
}

// Stats holds the cumulative run counters. Merging sums field by field.
type Stats struct {
	TotalProcessed int        `json:"total_processed"`
	Found          int        `json:"found"`
	NotFound       int        `json:"not_found"`
	Images         ImageStats `json:"images_downloaded"`
	Trailers       int        `json:"trailers_downloaded"`
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.TotalProcessed += other.TotalProcessed
	s.Found += other.Found
	s.NotFound += other.NotFound
	s.Images.BoxFront += other.Images.BoxFront
	s.Images.Screenshot += other.Images.Screenshot
	s.Images.Wheel += other.Images.Wheel
	s.Trailers += other.Trailers
}

// Metadata is the resolved-fields block of a record. A nil Metadata on a
// Record marks a file that was processed but could not be identified.
type Metadata struct {
	Title               string   `json:"title"`
	CatalogTitle        string   `json:"tmdb_title"`
	OriginalTitle       string   `json:"original_title,omitempty"`
	Year                string   `json:"year,omitempty"`
	Duration            int      `json:"duration,omitempty"`
	Director            string   `json:"director"`
	ProductionCompanies []string `json:"production_companies"`
	Rating              float64  `json:"rating"`
	Description         string   `json:"description"`
	Genres              []string `json:"genres"`
	BoxFrontPath        string   `json:"boxfront_local,omitempty"`
	ScreenshotPath      string   `json:"screenshot_local,omitempty"`
	WheelPath           string   `json:"wheel_local,omitempty"`
	VideoPath           string   `json:"video_local,omitempty"`
	CatalogID           int64    `json:"tmdb_id"`
	ReleaseDate         string   `json:"release_date,omitempty"`
	MetadataLanguages   string   `json:"metadata_languages"`
	AddedDate           string   `json:"x-added-date"`
	Tagline             string   `json:"x-tagline"`
	Classification      string   `json:"x-classification"`
	Codec               string   `json:"x-codec"`
	Resolution          string   `json:"x-resolution"`
	Aspect              string   `json:"x-aspect"`
	Audio               string   `json:"x-audio"`
}

// Record ties one discovered file to its enrichment result.
type Record struct {
	Type          string    `json:"type"`
	OriginalFile  string    `json:"original_file"`
	ExtractedName string    `json:"extracted_name"`
	Metadata      *Metadata `json:"metadata"`
}

// Store is the top-level persisted document for one collection root.
type Store struct {
	Records   []Record `json:"metadata"`
	Errors    []string `json:"errors"`
	Timestamp string   `json:"timestamp"`
	Stats     Stats    `json:"stats"`
}
