package model

// ================== 通用响应 ==================

// APIResponse is the standard API response format
type APIResponse struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ================== TMDB 数据模型 ==================

// Movie is a list entry as returned by TMDB paged endpoints
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	ReleaseDate  string  `json:"release_date"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
	Popularity   float64 `json:"popularity,omitempty"`
}

// MovieDetail is the full record from GET /movie/{id}
type MovieDetail struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	Tagline      string  `json:"tagline,omitempty"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	ReleaseDate  string  `json:"release_date"`
	Runtime      int     `json:"runtime"`
	Status       string  `json:"status,omitempty"`
	IMDbID       string  `json:"imdb_id,omitempty"`
	Genres       []Genre `json:"genres"`
}

// Genre is an id/name pair from the genre table
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the response from GET /genre/movie/list
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// MoviePage is one page of a paged movie list
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// CastMember is a single cast entry
type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	Order       int     `json:"order"`
	ProfilePath *string `json:"profile_path"`
}

// CrewMember is a single crew entry
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits is the response from GET /movie/{id}/credits
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Video is a single entry from GET /movie/{id}/videos
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// VideoList is the response from GET /movie/{id}/videos
type VideoList struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// ErrorBody is the error payload TMDB sends with non-2xx responses
type ErrorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}

// ================== 派生数据 ==================

const (
	JobDirector = "Director"
	JobWriter   = "Writer"

	VideoTypeTrailer = "Trailer"
	SiteYouTube      = "YouTube"
)

// Director returns the first crew entry whose job is Director
func (c *Credits) Director() *CrewMember {
	for i := range c.Crew {
		if c.Crew[i].Job == JobDirector {
			return &c.Crew[i]
		}
	}
	return nil
}

// Writers returns the names of all crew entries whose job is Writer
func (c *Credits) Writers() []string {
	writers := []string{}
	for _, member := range c.Crew {
		if member.Job == JobWriter {
			writers = append(writers, member.Name)
		}
	}
	return writers
}

// Trailer picks the first YouTube trailer, falling back to any trailer.
func (v *VideoList) Trailer() *Video {
	var fallback *Video
	for i := range v.Results {
		video := &v.Results[i]
		if video.Type != VideoTypeTrailer {
			continue
		}
		if video.Site == SiteYouTube {
			return video
		}
		if fallback == nil {
			fallback = video
		}
	}
	return fallback
}

// PathOf dereferences an optional image path
func PathOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
