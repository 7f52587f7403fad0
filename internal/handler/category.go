package handler

import (
	"net/http"

	"movie-discovery-service/internal/model"
	"movie-discovery-service/internal/paging"
	"movie-discovery-service/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves the genre table and genre-filtered discovery
type CategoryHandler struct {
	tmdbService *service.TMDBService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(tmdb *service.TMDBService) *CategoryHandler {
	return &CategoryHandler{
		tmdbService: tmdb,
	}
}

// GetGenres returns the genre table
// GET /api/v1/genres
func (h *CategoryHandler) GetGenres(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	genres, err := h.tmdbService.Genres(ctx)
	if err != nil {
		upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code: http.StatusOK,
		Data: genres,
	})
}

// Discover returns one page of the discovery listing, filtered to movies
// carrying every genre in the comma-separated genres parameter
// GET /api/v1/discover?genres=28,12&page=1
func (h *CategoryHandler) Discover(c *gin.Context) {
	ids, err := paging.ParseGenreIDs(c.Query("genres"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	col := service.NewCollection(h.tmdbService.BrowseSource())
	loadPage(c, h.tmdbService, col, paging.GenreFilter(ids...))
}
