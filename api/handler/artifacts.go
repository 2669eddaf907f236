package handler

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/umbral-dev/gaceta/report"
)

// artifactFiles maps the route names onto the artifact filenames.
var artifactFiles = map[string]string{
	"articles":     report.ArticlesFile,
	"translations": report.TranslationsFile,
	"analysis":     report.AnalysisFile,
}

// Artifact returns a handler serving one JSON artifact of the latest run.
// 404 means no run has produced the artifact yet.
func Artifact(outputDir, name string) gin.HandlerFunc {
	file := artifactFiles[name]
	return func(c *gin.Context) {
		raw, err := os.ReadFile(filepath.Join(outputDir, file))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "no " + name + " artifact; run a scrape first",
			})
			return
		}

		var payload any
		if err := json.Unmarshal(raw, &payload); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "artifact is corrupt"})
			return
		}
		c.JSON(http.StatusOK, payload)
	}
}

// ValidationReport returns a handler that validates the latest run's
// artifacts on demand and serves the result.
func ValidationReport(outputDir, imagesDir string, wantArticles int) gin.HandlerFunc {
	return func(c *gin.Context) {
		r := report.Validate(outputDir, imagesDir, wantArticles)
		status := http.StatusOK
		if !r.Ok() {
			// Still a successful request; the report just carries failures.
			c.Header("X-Gaceta-Validation", "failed")
		}
		c.JSON(status, r)
	}
}
