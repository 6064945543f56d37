package catalog

// SearchResult is a single movie hit from the search endpoint.
type SearchResult struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	ReleaseDate   string  `json:"release_date"`
	Popularity    float64 `json:"popularity"`
	VoteAverage   float64 `json:"vote_average"`
}

// SearchResponse models the paginated search payload.
type SearchResponse struct {
	Page         int            `json:"page"`
	Results      []SearchResult `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// Genre is a movie genre entry.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Company is a production company entry.
type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CastMember is a single acting credit.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewMember is a single crew credit; Job distinguishes directors.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Credits holds the cast and crew lists appended to a details request.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// MovieDetails is the full movie payload with credits appended.
type MovieDetails struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	OriginalTitle       string    `json:"original_title"`
	Overview            string    `json:"overview"`
	Tagline             string    `json:"tagline"`
	ReleaseDate         string    `json:"release_date"`
	Runtime             int       `json:"runtime"`
	VoteAverage         float64   `json:"vote_average"`
	Genres              []Genre   `json:"genres"`
	ProductionCompanies []Company `json:"production_companies"`
	PosterPath          string    `json:"poster_path"`
	BackdropPath        string    `json:"backdrop_path"`
	Credits             *Credits  `json:"credits"`
}

// Director returns the first crew member credited as Director, or "".
func (d *MovieDetails) Director() string {
	if d.Credits == nil {
		return ""
	}
	for _, member := range d.Credits.Crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}

// Image is one artwork entry. Language carries the iso_639_1 tag; logos use
// it to distinguish localized variants from untagged ones.
type Image struct {
	FilePath string `json:"file_path"`
	Language string `json:"iso_639_1"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Images groups the artwork lists for a movie.
type Images struct {
	Posters   []Image `json:"posters"`
	Backdrops []Image `json:"backdrops"`
	Logos     []Image `json:"logos"`
}

// Video is one video entry; trailers hosted on YouTube are the useful subset.
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Language string `json:"iso_639_1"`
	Official bool   `json:"official"`
}

// VideoList models the videos endpoint payload.
type VideoList struct {
	Results []Video `json:"results"`
}

// ReleaseDate is a single regional release entry; Certification may be "".
type ReleaseDate struct {
	Certification string `json:"certification"`
	Type          int    `json:"type"`
}

// CountryReleases groups release entries for one country.
type CountryReleases struct {
	Country      string        `json:"iso_3166_1"`
	ReleaseDates []ReleaseDate `json:"release_dates"`
}

// ReleaseDates models the release-dates endpoint payload.
type ReleaseDates struct {
	Results []CountryReleases `json:"results"`
}

// Certification returns the first non-empty certification for country, or "".
func (r *ReleaseDates) Certification(country string) string {
	for _, entry := range r.Results {
		if entry.Country != country {
			continue
		}
		for _, release := range entry.ReleaseDates {
			if release.Certification != "" {
				return release.Certification
			}
		}
	}
	return ""
}
