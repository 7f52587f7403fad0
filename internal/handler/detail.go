package handler

import (
	"net/http"

	"movie-discovery-service/internal/model"
	"movie-discovery-service/internal/service"

	"github.com/gin-gonic/gin"
)

const castLimit = 12

// DetailResponse is the payload of the detail page
type DetailResponse struct {
	*model.MovieDetail
	PosterURL   string             `json:"poster_url"`
	BackdropURL string             `json:"backdrop_url"`
	Director    *string            `json:"director,omitempty"`
	Writers     []string           `json:"writers"`
	Cast        []model.CastMember `json:"cast"`
	Trailer     *TrailerInfo       `json:"trailer,omitempty"`
	Similar     []MovieItem        `json:"similar"`
}

// TrailerInfo locates a trailer video
type TrailerInfo struct {
	model.Video
	URL string `json:"url,omitempty"`
}

// CreditsResponse is the payload of the credits endpoint
type CreditsResponse struct {
	*model.Credits
	Director *string  `json:"director,omitempty"`
	Writers  []string `json:"writers"`
}

// VideosResponse is the payload of the videos endpoint
type VideosResponse struct {
	Results []model.Video `json:"results"`
	Trailer *TrailerInfo  `json:"trailer,omitempty"`
}

func newTrailerInfo(v *model.Video) *TrailerInfo {
	if v == nil {
		return nil
	}
	info := &TrailerInfo{Video: *v}
	if v.Site == model.SiteYouTube && v.Key != "" {
		info.URL = "https://www.youtube.com/watch?v=" + v.Key
	}
	return info
}

func directorName(credits *model.Credits) *string {
	if d := credits.Director(); d != nil {
		return &d.Name
	}
	return nil
}

// DetailHandler handles detail API requests
type DetailHandler struct {
	tmdbService *service.TMDBService
}

// NewDetailHandler creates a new DetailHandler
func NewDetailHandler(tmdb *service.TMDBService) *DetailHandler {
	return &DetailHandler{
		tmdbService: tmdb,
	}
}

// GetDetail returns movie details with credits, trailer and similar titles
// GET /api/v1/movies/:id
func (h *DetailHandler) GetDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	detail, err := h.tmdbService.Detail(ctx, id)
	if err != nil {
		upstreamError(c, err)
		return
	}

	images := h.tmdbService.Images()
	cast := detail.Credits.Cast
	if len(cast) > castLimit {
		cast = cast[:castLimit]
	}
	if cast == nil {
		cast = []model.CastMember{}
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code: http.StatusOK,
		Data: DetailResponse{
			MovieDetail: detail.Movie,
			PosterURL:   images.URLOf(service.SizeFull, detail.Movie.PosterPath),
			BackdropURL: images.URLOf(service.SizeFull, detail.Movie.BackdropPath),
			Director:    directorName(detail.Credits),
			Writers:     detail.Writers,
			Cast:        cast,
			Trailer:     newTrailerInfo(detail.Trailer),
			Similar:     newMovieItems(images, detail.Similar.Results),
		},
	})
}

// GetCredits returns cast and crew of a movie
// GET /api/v1/movies/:id/credits
func (h *DetailHandler) GetCredits(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	credits, err := h.tmdbService.Credits(ctx, id)
	if err != nil {
		upstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code: http.StatusOK,
		Data: CreditsResponse{
			Credits:  credits,
			Director: directorName(credits),
			Writers:  credits.Writers(),
		},
	})
}

// GetVideos returns the videos of a movie and the chosen trailer
// GET /api/v1/movies/:id/videos
func (h *DetailHandler) GetVideos(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	videos, err := h.tmdbService.Videos(ctx, id)
	if err != nil {
		upstreamError(c, err)
		return
	}

	results := videos.Results
	if results == nil {
		results = []model.Video{}
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code: http.StatusOK,
		Data: VideosResponse{
			Results: results,
			Trailer: newTrailerInfo(videos.Trailer()),
		},
	})
}
