package handler

import (
	"net/http"
	"time"

	"movie-discovery-service/internal/middleware"
	"movie-discovery-service/internal/repository"
	"movie-discovery-service/internal/service"

	"github.com/gin-gonic/gin"
)

// RouterConfig carries what the routes need
type RouterConfig struct {
	TMDB        *service.TMDBService
	Metrics     *repository.Metrics // nil disables metrics
	AdminAPIKey string
	HeroLimit   int
}

// NewRouter builds the gin engine with middleware and every route
func NewRouter(cfg RouterConfig) *gin.Engine {
	heroHandler := NewHeroHandler(cfg.TMDB, cfg.HeroLimit)
	moviesHandler := NewMoviesHandler(cfg.TMDB)
	categoryHandler := NewCategoryHandler(cfg.TMDB)
	searchHandler := NewSearchHandler(cfg.TMDB)
	detailHandler := NewDetailHandler(cfg.TMDB)
	adminHandler := NewAdminHandler(cfg.TMDB, cfg.Metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging("/health"))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.CORS())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	// API routes - 公开访问
	api := r.Group("/api/v1")
	{
		api.GET("/status", adminHandler.GetStatus)
		api.GET("/hero", heroHandler.GetHero)
		api.GET("/genres", categoryHandler.GetGenres)
		api.GET("/discover", categoryHandler.Discover)
		api.GET("/search", searchHandler.Search)

		api.GET("/movies/popular", moviesHandler.GetList(service.ListPopular))
		api.GET("/movies/now-playing", moviesHandler.GetList(service.ListNowPlaying))
		api.GET("/movies/upcoming", moviesHandler.GetList(service.ListUpcoming))

		api.GET("/movies/:id", detailHandler.GetDetail)
		api.GET("/movies/:id/credits", detailHandler.GetCredits)
		api.GET("/movies/:id/videos", detailHandler.GetVideos)
		api.GET("/movies/:id/similar", moviesHandler.GetSimilar)
	}

	// Admin routes - 需要认证（如果配置了 ADMIN_API_KEY）
	admin := r.Group("/api/v1")
	admin.Use(middleware.AdminAuth(cfg.AdminAPIKey))
	{
		admin.GET("/analytics", adminHandler.GetAnalytics)
		admin.GET("/analytics/endpoint", adminHandler.GetEndpointStats)
		admin.DELETE("/analytics", adminHandler.ResetAnalytics)
	}

	return r
}
