package catalog

import (
	"github.com/goccy/go-json"
)

// ListType is a curated catalog list.
type ListType string

const (
	NowPlaying ListType = "now_playing"
	Popular    ListType = "popular"
	Upcoming   ListType = "upcoming"
	TopRated   ListType = "top_rated"
)

// DefaultListType is used when the client names no list.
const DefaultListType = NowPlaying

// ParseListType maps "" to DefaultListType and rejects unknown names.
func ParseListType(s string) (ListType, bool) {
	switch ListType(s) {
	case "":
		return DefaultListType, true
	case NowPlaying, Popular, Upcoming, TopRated:
		return ListType(s), true
	}
	return "", false
}

// SearchParams are the supported /search/movie query parameters.  Empty
// optional values are not sent upstream.
type SearchParams struct {
	Query              string
	Page               string
	IncludeAdult       string
	Language           string
	PrimaryReleaseYear string
	Region             string
	Year               string
}

// Details is the upstream movie document.  Raw holds the body exactly as
// received and is what clients see; the typed fields feed the local snapshot.
type Details struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Genres      []Genre `json:"genres"`

	Raw json.RawMessage `json:"-"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Video is one entry of /movie/{id}/videos.
type Video struct {
	ID          string `json:"id"`
	ISO6391     string `json:"iso_639_1"`
	ISO31661    string `json:"iso_3166_1"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Size        int    `json:"size"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

type videoList struct {
	ID      int64   `json:"id"`
	Results []Video `json:"results"`
}

// YouTubeWatchURL is the prefix of a playable trailer link.
const YouTubeWatchURL = "https://www.youtube.com/watch?v="

// PosterBaseURL prefixes poster paths in stored snapshots.
const PosterBaseURL = "https://image.tmdb.org/t/p/w500"

// officialTrailer returns the first official YouTube trailer with Site
// replaced by its watch URL.
func officialTrailer(videos []Video) (Video, bool) {
	for _, v := range videos {
		if v.Type == "Trailer" && v.Site == "YouTube" && v.Official {
			v.Site = YouTubeWatchURL + v.Key
			return v, true
		}
	}
	return Video{}, false
}
