// Package api serves the artifacts and validation report of the latest run
// over HTTP, so dashboards and the MCP bridge can read them without touching
// the filesystem.
package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/umbral-dev/gaceta/api/handler"
	"github.com/umbral-dev/gaceta/api/middleware"
	"github.com/umbral-dev/gaceta/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Health stays outside auth so monitoring probes always work.
func NewRouter(cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}

	protected.GET("/articles", handler.Artifact(cfg.Output.Dir, "articles"))
	protected.GET("/translations", handler.Artifact(cfg.Output.Dir, "translations"))
	protected.GET("/analysis", handler.Artifact(cfg.Output.Dir, "analysis"))
	protected.GET("/report", handler.ValidationReport(cfg.Output.Dir, cfg.Output.ImagesDir, cfg.Scrape.ArticleCount))

	return r
}
