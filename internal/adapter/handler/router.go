package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/depot-sh/depot/internal/auth"
	"github.com/depot-sh/depot/internal/domain/entities"
	"github.com/depot-sh/depot/internal/usecase"
	"github.com/depot-sh/depot/pkg/config"
	"github.com/depot-sh/depot/pkg/logging"
)

// NewRouter wires the full HTTP surface. cfg is a snapshot provider so
// limit changes picked up by the config watcher apply to new requests.
func NewRouter(
	ingest *usecase.IngestUseCase,
	catalog *usecase.CatalogUseCase,
	credStore *auth.Store,
	sessions *auth.Sessions,
	cfg func() *config.Config,
	logger *logging.Logger,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := NewAuthHandler(credStore, sessions, logger)
	authHandler.RegisterRoutes(router)

	api := router.Group("/api")
	api.Use(authHandler.Middleware())

	limits := func() entities.Limits {
		c := cfg()
		return entities.Limits{
			MaxContentLength: c.Storage.MaxContentLength,
			MaxFileSize:      c.Storage.MaxFileSize,
		}
	}
	groupsPerPage := func() int { return cfg().Catalog.GroupsPerPage }

	NewUploadHandler(ingest, limits, logger).RegisterRoutes(api)
	NewCatalogHandler(catalog, groupsPerPage).RegisterRoutes(api)

	return router
}

// requestLogger logs method, path and status for every request.
func requestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
