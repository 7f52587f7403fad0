package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"movie-discovery-service/internal/model"
	"movie-discovery-service/internal/paging"
	"movie-discovery-service/pkg/httpclient"

	"github.com/rs/zerolog/log"
)

const (
	defaultLanguage = "en-US"
	genreLanguage   = "en"
	defaultTimeout  = 10 * time.Second
)

// ListKind names one of TMDB's fixed movie lists
type ListKind string

const (
	ListPopular    ListKind = "popular"
	ListNowPlaying ListKind = "now_playing"
	ListUpcoming   ListKind = "upcoming"
)

// Valid reports whether k is a known list
func (k ListKind) Valid() bool {
	switch k {
	case ListPopular, ListNowPlaying, ListUpcoming:
		return true
	}
	return false
}

// TMDBService handles TMDB API interactions with token rotation
type TMDBService struct {
	tokens    []string
	baseURL   string
	images    *Images
	client    *httpclient.Client
	keyIndex  uint64 // 原子计数器，用于轮询
	genreMu   sync.RWMutex
	genres    []model.Genre
	genreByID map[int]string
}

// Option configures a TMDBService
type Option func(*TMDBService)

// WithHTTPClient replaces the default transport
func WithHTTPClient(c *httpclient.Client) Option {
	return func(s *TMDBService) {
		if c != nil {
			s.client = c
		}
	}
}

// WithImages replaces the image URL builder
func WithImages(images *Images) Option {
	return func(s *TMDBService) {
		if images != nil {
			s.images = images
		}
	}
}

// NewTMDBService creates a new TMDBService with one or more bearer tokens
func NewTMDBService(tokens []string, baseURL, imageBase string, opts ...Option) *TMDBService {
	s := &TMDBService{
		tokens:  tokens,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		images:  NewImages(imageBase, ""),
		client:  httpclient.NewClient(defaultTimeout),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(tokens) > 1 {
		log.Info().Int("count", len(tokens)).Msg("🔑 TMDB tokens configured, rotating")
	}
	return s
}

// getNextToken returns the next bearer token using round-robin
func (s *TMDBService) getNextToken() string {
	if len(s.tokens) == 0 {
		return ""
	}
	idx := atomic.AddUint64(&s.keyIndex, 1) - 1
	return s.tokens[idx%uint64(len(s.tokens))]
}

// get performs one authenticated GET and decodes the JSON response into result
func (s *TMDBService) get(ctx context.Context, path string, params url.Values, result any) error {
	token := s.getNextToken()
	if token == "" {
		return ErrNotConfigured
	}

	if params == nil {
		params = url.Values{}
	}
	if params.Get("language") == "" {
		params.Set("language", defaultLanguage)
	}
	target := s.baseURL + path + "?" + params.Encode()

	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("Authorization", "Bearer "+token)

	data, err := s.client.Fetch(ctx, target, header)
	if err != nil {
		return wrapFetchError(path, err)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to parse TMDB response for %s: %w", path, err)
	}
	return nil
}

func (s *TMDBService) getPage(ctx context.Context, path string, params url.Values, page int) (*model.MoviePage, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("page", strconv.Itoa(max(page, 1)))

	var result model.MoviePage
	if err := s.get(ctx, path, params, &result); err != nil {
		return nil, err
	}
	if result.Results == nil {
		result.Results = []model.Movie{}
	}

	log.Debug().
		Str("path", path).
		Int("page", result.Page).
		Int("total_pages", result.TotalPages).
		Int("count", len(result.Results)).
		Msg("TMDB: page fetched")

	return &result, nil
}

// List fetches one page of a fixed list (popular, now playing, upcoming)
func (s *TMDBService) List(ctx context.Context, kind ListKind, page int) (*model.MoviePage, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown movie list %q", kind)
	}
	return s.getPage(ctx, "/movie/"+string(kind), nil, page)
}

// Popular fetches one page of popular movies
func (s *TMDBService) Popular(ctx context.Context, page int) (*model.MoviePage, error) {
	return s.List(ctx, ListPopular, page)
}

// NowPlaying fetches one page of movies in theaters
func (s *TMDBService) NowPlaying(ctx context.Context, page int) (*model.MoviePage, error) {
	return s.List(ctx, ListNowPlaying, page)
}

// Upcoming fetches one page of upcoming movies
func (s *TMDBService) Upcoming(ctx context.Context, page int) (*model.MoviePage, error) {
	return s.List(ctx, ListUpcoming, page)
}

// Discover fetches one page of the discovery listing, restricted to
// movies carrying all of genreIDs when any are given
func (s *TMDBService) Discover(ctx context.Context, genreIDs []int, page int) (*model.MoviePage, error) {
	params := url.Values{}
	if len(genreIDs) > 0 {
		params.Set("with_genres", paging.Filter{GenreIDs: genreIDs}.GenreParam())
	}
	return s.getPage(ctx, "/discover/movie", params, page)
}

// Search fetches one page of title search results
func (s *TMDBService) Search(ctx context.Context, query string, page int) (*model.MoviePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	return s.getPage(ctx, "/search/movie", url.Values{"query": {query}}, page)
}

// Browse resolves a filter to its endpoint: a query searches by title,
// genres go to genre-filtered discovery, and an empty filter is the
// default discovery listing
func (s *TMDBService) Browse(ctx context.Context, filter paging.Filter, page int) (*model.MoviePage, error) {
	filter = filter.Normalize()
	if filter.IsSearch() {
		return s.Search(ctx, filter.Query, page)
	}
	return s.Discover(ctx, filter.GenreIDs, page)
}

// Movie fetches the detail record of one movie
func (s *TMDBService) Movie(ctx context.Context, id int) (*model.MovieDetail, error) {
	var result model.MovieDetail
	if err := s.get(ctx, fmt.Sprintf("/movie/%d", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Credits fetches cast and crew of one movie
func (s *TMDBService) Credits(ctx context.Context, id int) (*model.Credits, error) {
	var result model.Credits
	if err := s.get(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Similar fetches one page of movies similar to id
func (s *TMDBService) Similar(ctx context.Context, id, page int) (*model.MoviePage, error) {
	return s.getPage(ctx, fmt.Sprintf("/movie/%d/similar", id), nil, page)
}

// Videos fetches the video list of one movie
func (s *TMDBService) Videos(ctx context.Context, id int) (*model.VideoList, error) {
	var result model.VideoList
	if err := s.get(ctx, fmt.Sprintf("/movie/%d/videos", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Genres returns the genre table, fetching it on first use. A failed
// fetch is not remembered, so the next call tries again.
func (s *TMDBService) Genres(ctx context.Context) ([]model.Genre, error) {
	s.genreMu.RLock()
	if s.genres != nil {
		genres := s.genres
		s.genreMu.RUnlock()
		return genres, nil
	}
	s.genreMu.RUnlock()

	var result model.GenreList
	params := url.Values{"language": {genreLanguage}}
	if err := s.get(ctx, "/genre/movie/list", params, &result); err != nil {
		return nil, err
	}
	if result.Genres == nil {
		result.Genres = []model.Genre{}
	}

	byID := make(map[int]string, len(result.Genres))
	for _, g := range result.Genres {
		byID[g.ID] = g.Name
	}

	s.genreMu.Lock()
	s.genres = result.Genres
	s.genreByID = byID
	s.genreMu.Unlock()

	log.Info().Int("count", len(result.Genres)).Msg("🎭 TMDB genre table loaded")
	return result.Genres, nil
}

// GenreName looks up a genre name in the loaded table
func (s *TMDBService) GenreName(id int) (string, bool) {
	s.genreMu.RLock()
	defer s.genreMu.RUnlock()
	name, ok := s.genreByID[id]
	return name, ok
}

// Images returns the image URL builder
func (s *TMDBService) Images() *Images {
	return s.images
}

// IsConfigured returns true if TMDB is configured
func (s *TMDBService) IsConfigured() bool {
	return len(s.tokens) > 0 && s.baseURL != ""
}

// TokenCount returns the number of configured bearer tokens
func (s *TMDBService) TokenCount() int {
	return len(s.tokens)
}
