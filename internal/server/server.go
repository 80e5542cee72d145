// Package server wires the gin router: routes, middleware and the static
// results area.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/filemill/filemill/internal/config"
	"github.com/filemill/filemill/internal/handlers"
)

// Router builds the gateway's HTTP routes.
func Router(cfg *config.Config, logger *logrus.Logger, h *handlers.Handler, resultsDir string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger), cors.Default())
	r.MaxMultipartMemory = cfg.MaxUploadSize

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Produced artifacts are served statically; they carry unguessable
	// UUID names and no directory listing is exposed.
	r.Static("/files", resultsDir)

	api := r.Group("/api")
	{
		api.POST("/image/compress", h.CompressImage)
		api.POST("/convert/office", h.OfficeToPDF)
		api.POST("/convert/image", h.ImageToPDF)
		api.POST("/convert/editable", h.PDFToEditable)
		api.POST("/pdf/searchable", h.MakeSearchable)
		api.POST("/pdf/merge", h.MergePDFs)
		api.POST("/pdf/encrypt", h.EncryptPDF)
		api.POST("/pdf/reorganize", h.ReorganizePDF)
		api.POST("/pdf/rotate", h.RotatePDF)
		api.POST("/pdf/rasterize", h.RasterizePDF)
		api.POST("/pdf/compress", h.CompressPDF)
		api.POST("/video/compress", h.CompressVideo)
	}

	return r
}

// New returns the configured http.Server. Long write timeouts make room
// for large artifact downloads and slow tool-backed endpoints.
func New(cfg *config.Config, logger *logrus.Logger, h *handlers.Handler, resultsDir string) *http.Server {
	return &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        Router(cfg, logger, h, resultsDir),
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   cfg.ToolTimeout + 30*time.Second,
		IdleTimeout:    2 * time.Minute,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Round(time.Millisecond).String(),
		}).Info("request handled")
	}
}
