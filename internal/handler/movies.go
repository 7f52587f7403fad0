package handler

import (
	"movie-discovery-service/internal/paging"
	"movie-discovery-service/internal/service"

	"github.com/gin-gonic/gin"
)

// MoviesHandler handles the fixed movie lists and similar-title lists
type MoviesHandler struct {
	tmdbService *service.TMDBService
}

// NewMoviesHandler creates a new MoviesHandler
func NewMoviesHandler(tmdb *service.TMDBService) *MoviesHandler {
	return &MoviesHandler{
		tmdbService: tmdb,
	}
}

// GetList returns a handler serving one page of a fixed list
// GET /api/v1/movies/popular?page=1
// GET /api/v1/movies/now-playing?page=1
// GET /api/v1/movies/upcoming?page=1
func (h *MoviesHandler) GetList(kind service.ListKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		col := service.NewCollection(h.tmdbService.ListSource(kind))
		loadPage(c, h.tmdbService, col, paging.Filter{})
	}
}

// GetSimilar returns one page of movies similar to a title
// GET /api/v1/movies/:id/similar?page=1
func (h *MoviesHandler) GetSimilar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	col := service.NewCollection(h.tmdbService.SimilarSource(id))
	loadPage(c, h.tmdbService, col, paging.Filter{})
}
