package models

// Runtime bucket labels exposed by the client UI.
const (
	RuntimeUnder90 = "<90"
	Runtime90To120 = "90-120"
	RuntimeOver120 = "2+ hours"
)

// DiscoveryFilters is the request-scoped filter object for the discovery feed.
// Never persisted.
type DiscoveryFilters struct {
	Page          int
	Type          string // "all", "movie" or "tv"
	Genres        []string
	AgeRatings    []string
	MinRating     float64
	Runtimes      []string
	Language      string // ISO-639-1
	NewReleases   bool
	SortBy        string
	Query         string
	IsFree        bool
	IsClassic     bool
	FamilyLiked   bool
	LikedByMember string

	// WatchProviders is computed server-side from group subscriptions,
	// never accepted from the client.
	WatchProviders []int
}

// Title is a catalog provider result. Field names follow the provider's JSON
// so responses pass through unchanged.
type Title struct {
	ID           int     `json:"id"`
	Title        string  `json:"title,omitempty"`          // movies
	Name         string  `json:"name,omitempty"`           // tv
	Overview     string  `json:"overview,omitempty"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`   // movies
	FirstAirDate string  `json:"first_air_date,omitempty"` // tv
	VoteAverage  float64 `json:"vote_average"`
	MediaType    string  `json:"media_type,omitempty"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
}

// DisplayName returns the movie title or tv name, whichever is set
func (t *Title) DisplayName() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Name
}

// Year extracts the four-digit year from the release or first-air date
func (t *Title) Year() string {
	date := t.ReleaseDate
	if date == "" {
		date = t.FirstAirDate
	}
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

// TitlePage is one page of a discovery feed.
type TitlePage struct {
	Page       int     `json:"page"`
	Results    []Title `json:"results"`
	TotalPages int     `json:"total_pages"`
}

// TitleRef identifies a title for catalog hydration.
type TitleRef struct {
	TitleID   int
	MediaType string
}

// Genre is a catalog genre entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
