package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/student-portal/internal/config"
	"github.com/stemsi/student-portal/internal/handler"
	"github.com/stemsi/student-portal/internal/middleware"
	"github.com/stemsi/student-portal/internal/response"
	"github.com/stemsi/student-portal/internal/spa"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Student *handler.StudentHandler
	Health  *handler.HealthHandler
}

// SetupRouter configures the records API.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// Apply request ID middleware globally so every error carries metadata.
	router.Use(response.RequestIDMiddleware())

	api := router.Group("/api")

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	api.Use(cors.New(corsConfig))

	// Preflight requests must match a route for the group middleware to run.
	api.OPTIONS("/*path", func(c *gin.Context) {})

	api.GET("/health", handlers.Health.Health)

	// ─── Students ──────────────────────────────────────────────────────
	writes := []gin.HandlerFunc{}
	if cfg.RateLimit > 0 {
		writes = append(writes, middleware.NewRateLimiter(cfg.RateLimit, time.Minute).Middleware())
	}

	students := api.Group("/students")
	{
		students.GET("", handlers.Student.ListStudents)
		students.GET("/search", handlers.Student.SearchStudents)
		students.GET("/:id", handlers.Student.GetStudent)
		students.POST("", append(writes, handlers.Student.CreateStudent)...)
		students.PUT("/:id", append(writes, handlers.Student.UpdateStudent)...)
		students.DELETE("/:id", append(writes, handlers.Student.DeleteStudent)...)
	}

	return router
}

// SetupWebRouter configures the static/SPA server: assets from cfg.AssetDir,
// the entry document for everything else. No request logging.
func SetupWebRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.Brotli(),
		middleware.CacheControl(cfg.StaticMaxAge),
	)
	router.NoRoute(spa.Handler(cfg.AssetDir, cfg.IndexFile))
	return router
}
