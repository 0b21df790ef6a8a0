package handlers

import (
	"log/slog"
	"net/http"

	"agririsk-back/internal/auth"
	"agririsk-back/internal/metrics"
	"agririsk-back/internal/middleware"
	"agririsk-back/internal/prediction"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps is everything the router needs. Archiver and Metrics may be nil.
type Deps struct {
	DB          *gorm.DB
	Auth        *auth.Service
	Predictions *prediction.Service
	Archiver    Archiver
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	CORSOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger.With("component", "handlers")

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", middleware.GetRequestID(c))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.CORSMiddleware(d.CORSOrigins))

	r.GET("/health", Health(d.DB, logger))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", Register(d.Auth, d.Metrics, logger))
		public.POST("/login", Login(d.Auth, d.Metrics, logger))
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(d.Auth, d.Metrics, logger))
	{
		protected.POST("/logout", Logout(d.Auth, d.Metrics, logger))
		protected.GET("/validate-token", ValidateToken)
		protected.GET("/dashboard", Dashboard)

		protected.POST("/predict", Predict(d.Predictions, d.Metrics, logger))
		protected.GET("/predictions", ListPredictions(d.Predictions, logger))
		protected.GET("/predictions/latest", LatestPrediction(d.Predictions, logger))
		protected.GET("/predictions/analytics", Analytics(d.Predictions, logger))
		protected.GET("/predictions/export", ExportCSV(d.Predictions, logger))
		protected.POST("/predictions/export", ArchiveExport(d.Predictions, d.Archiver, logger))
		protected.GET("/predictions/:id", GetPrediction(d.Predictions, logger))
	}

	return r
}
