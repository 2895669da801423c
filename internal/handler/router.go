package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/resumehelp-api/internal/middleware"
)

// NewRouter wires middleware, CORS and routes
func NewRouter(analyze *AnalyzeHandler, frontendOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(frontendOrigin))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "resumehelp-api",
			"time":    time.Now().UTC(),
		})
	})

	api := r.Group("/api")
	{
		api.POST("/analyze-file", analyze.AnalyzeFile)
		api.POST("/improve-file", analyze.ImproveFile)
	}

	return r
}
