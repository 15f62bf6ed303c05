// router.go - Gin engine setup shared by cmd/api and tests

package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/bosocmputer/sar_caption_gemini/configs"
	"github.com/bosocmputer/sar_caption_gemini/internal/ai"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	serviceName    = "sar-caption-service"
	serviceVersion = "1.0.0"
)

// NewRouter builds the gin engine with all routes registered
func NewRouter(cfg configs.Config, requester *ai.CaptionRequester) *gin.Engine {
	router := gin.Default()
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	// Add CORS middleware - configure allowed origins for production
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	h := NewHandler(requester)

	router.GET("/", h.IndexHandler)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})

	router.POST("/caption", h.CaptionPageHandler)
	router.POST("/api/v1/caption", h.CaptionAPIHandler)

	return router
}

func corsMiddleware(allowedOrigins string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
