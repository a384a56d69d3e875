package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/geobase-api/internal/apperror"
	"github.com/geobase-api/internal/auth"
	"github.com/geobase-api/internal/config"
	"github.com/geobase-api/internal/models"
	"github.com/geobase-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const currentUserKey = "api.user"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, tokens *auth.TokenService, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	categoryHandler := NewCategoryHandler(services, log)
	submissionHandler := NewSubmissionHandler(services, log)
	importHandler := NewImportHandler(services, cfg, log)
	suggestHandler := NewSuggestHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)

	// Everything else is tenant-scoped
	authed := router.Group("/")
	authed.Use(auth.RequireIdentity(tokens))
	authed.Use(tenantMiddleware(services, log))
	{
		categories := authed.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", categoryHandler.Create)
			categories.DELETE("", categoryHandler.Delete)
			categories.PUT("", categoryHandler.SeedDefaults)
		}

		submissions := authed.Group("/submissions")
		{
			submissions.GET("", submissionHandler.List)
			submissions.POST("", submissionHandler.Create)
			submissions.PATCH("", submissionHandler.UpdateStatus)
			submissions.DELETE("", submissionHandler.Delete)
			submissions.POST("/bulk", submissionHandler.CreateBulk)
		}

		authed.GET("/stats", submissionHandler.Stats)
		authed.GET("/export", submissionHandler.Export)
		authed.POST("/import/preview", importHandler.Preview)
		authed.POST("/suggest-questions", suggestHandler.SuggestQuestions)
		authed.POST("/suggest-answer", suggestHandler.SuggestAnswer)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "geobase-api",
	})
}

// tenantMiddleware resolves the authenticated identity to its user and
// client rows, creating them on first login. The resolved user is stored
// in the request context for handlers.
func tenantMiddleware(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "valid authentication required"})
			return
		}

		user, err := services.Tenant.Resolve(c.Request.Context(), identity)
		if err != nil {
			if errors.Is(err, apperror.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "valid authentication required"})
				return
			}
			log.Error().Err(err).Str("subject", identity.Subject).Msg("Tenant resolution failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentUser retrieves the tenant user set by tenantMiddleware
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// respondError maps domain errors to HTTP status codes. Anything not
// recognized becomes a generic 500 so internal detail never leaks.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
		case errors.Is(err, apperror.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": appErr.Message})
		case errors.Is(err, apperror.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": appErr.Message})
		case errors.Is(err, apperror.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "valid authentication required"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
