package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"movie-discovery-service/internal/model"
	"movie-discovery-service/internal/paging"
	"movie-discovery-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const defaultRequestTimeout = 30 * time.Second

// MovieItem is a list entry with resolved image URLs
type MovieItem struct {
	model.Movie
	PosterURL   string `json:"poster_url"`
	BackdropURL string `json:"backdrop_url"`
}

// Pagination describes the page cursor of a list response
type Pagination struct {
	Page         int             `json:"page"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int             `json:"total_results"`
	Pages        []paging.Marker `json:"pages"`
	HasPrev      bool            `json:"has_prev"`
	HasNext      bool            `json:"has_next"`
	Prev         int             `json:"prev"`
	Next         int             `json:"next"`
}

// PagedMovies is the payload of every paged list endpoint
type PagedMovies struct {
	Items      []MovieItem `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

func newMovieItems(images *service.Images, movies []model.Movie) []MovieItem {
	items := make([]MovieItem, len(movies))
	for i, m := range movies {
		items[i] = MovieItem{
			Movie:       m,
			PosterURL:   images.URLOf(service.SizeFull, m.PosterPath),
			BackdropURL: images.URLOf(service.SizeThumb, m.BackdropPath),
		}
	}
	return items
}

func newPagedMovies(images *service.Images, state paging.State) PagedMovies {
	return PagedMovies{
		Items: newMovieItems(images, state.Items),
		Pagination: Pagination{
			Page:         state.Page,
			TotalPages:   state.TotalPages,
			TotalResults: state.TotalResults,
			Pages:        state.Markers(),
			HasPrev:      state.HasPrev(),
			HasNext:      state.HasNext(),
			Prev:         max(state.Page-1, 1),
			Next:         min(state.Page+1, state.TotalPages),
		},
	}
}

// requestContext bounds a handler's upstream work
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), defaultRequestTimeout)
}

// parsePage reads the optional page query parameter, writing a 400 when invalid
func parsePage(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		badRequest(c, "page must be a positive integer")
		return 0, false
	}
	return page, true
}

// parseID reads the :id path parameter, writing a 400 when invalid
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		badRequest(c, "movie id must be a positive integer")
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, model.APIResponse{
		Code:  http.StatusBadRequest,
		Error: msg,
	})
}

// upstreamError reports a failed TMDB call. A TMDB 404 stays a 404; every
// other failure is a bad gateway. The body carries the display text.
func upstreamError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch {
	case service.StatusCode(err) == http.StatusNotFound:
		status = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	_ = c.Error(err)
	log.Warn().Err(err).Str("path", c.FullPath()).Msg("TMDB request failed")

	c.JSON(status, model.APIResponse{
		Code:  status,
		Error: service.ErrorText(err),
	})
}

// loadPage runs a one-shot collection load and writes the paged response
func loadPage(c *gin.Context, tmdb *service.TMDBService, col *paging.Collection, filter paging.Filter) {
	page, ok := parsePage(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := col.Load(ctx, filter, page); err != nil {
		upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code: http.StatusOK,
		Data: newPagedMovies(tmdb.Images(), col.Snapshot()),
	})
}
