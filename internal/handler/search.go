package handler

import (
	"net/http"

	"movie-discovery-service/internal/model"
	"movie-discovery-service/internal/paging"
	"movie-discovery-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SearchHandler handles search API requests
type SearchHandler struct {
	tmdbService *service.TMDBService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(tmdb *service.TMDBService) *SearchHandler {
	return &SearchHandler{
		tmdbService: tmdb,
	}
}

// Search handles title search requests. A blank query answers with an
// empty list without calling TMDB.
// GET /api/v1/search?q=matrix&page=1
func (h *SearchHandler) Search(c *gin.Context) {
	filter := paging.QueryFilter(c.Query("q"))
	col := service.NewCollection(h.tmdbService.BrowseSource(), paging.RequireFilter())

	if filter.IsEmpty() {
		if _, ok := parsePage(c); !ok {
			return
		}
		_, _ = col.SelectFilter(filter)
		c.JSON(http.StatusOK, model.APIResponse{
			Code: http.StatusOK,
			Data: newPagedMovies(h.tmdbService.Images(), col.Snapshot()),
		})
		return
	}

	log.Debug().Str("query", filter.Query).Msg("🔍 Searching TMDB")
	loadPage(c, h.tmdbService, col, filter)
}
