package handler

import (
	"net/http"
	"sync"

	"movie-discovery-service/internal/model"
	"movie-discovery-service/internal/paging"
	"movie-discovery-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HeroMovie is a slide of the now-playing carousel
type HeroMovie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	VoteAverage float64  `json:"vote_average"`
	ReleaseDate string   `json:"release_date"`
	BackdropURL string   `json:"backdrop_url"`
	PosterURL   string   `json:"poster_url"`
	HasBackdrop bool     `json:"has_backdrop"`
	Genres      []string `json:"genres"`
}

// HeroHandler handles Hero Banner API requests
type HeroHandler struct {
	tmdbService *service.TMDBService
	limit       int
}

// NewHeroHandler creates a new HeroHandler
func NewHeroHandler(tmdb *service.TMDBService, limit int) *HeroHandler {
	return &HeroHandler{
		tmdbService: tmdb,
		limit:       limit,
	}
}

// GetHero returns the now-playing carousel
// GET /api/v1/hero
func (h *HeroHandler) GetHero(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	col := service.NewCollection(h.tmdbService.ListSource(service.ListNowPlaying))

	var loadErr error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		loadErr = col.Load(ctx, paging.Filter{}, 1)
	}()

	// 类型名称只是锦上添花，失败时不影响轮播
	go func() {
		defer wg.Done()
		if _, err := h.tmdbService.Genres(ctx); err != nil {
			log.Warn().Err(err).Msg("Hero: genre table unavailable")
		}
	}()

	wg.Wait()

	if loadErr != nil {
		upstreamError(c, loadErr)
		return
	}

	movies := col.Snapshot().Items
	if len(movies) > h.limit {
		movies = movies[:h.limit]
	}

	slides := make([]HeroMovie, len(movies))
	for i, m := range movies {
		slides[i] = h.newHeroMovie(m)
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code: http.StatusOK,
		Data: slides,
	})
}

func (h *HeroHandler) newHeroMovie(m model.Movie) HeroMovie {
	images := h.tmdbService.Images()

	genres := []string{}
	for _, id := range m.GenreIDs {
		if name, ok := h.tmdbService.GenreName(id); ok {
			genres = append(genres, name)
		}
	}

	return HeroMovie{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		VoteAverage: m.VoteAverage,
		ReleaseDate: m.ReleaseDate,
		BackdropURL: images.URLOf(service.SizeThumb, m.BackdropPath),
		PosterURL:   images.URLOf(service.SizeFull, m.PosterPath),
		HasBackdrop: model.PathOf(m.BackdropPath) != "",
		Genres:      genres,
	}
}
