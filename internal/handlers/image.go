package handlers

import (
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/filemill/filemill/internal/raster"
)

// CompressImage re-encodes a JPEG or PNG at a caller-chosen compression
// level (0-100, higher means better quality; default 75).
//
// POST /api/image/compress  multipart field "image", form "level"
func (h *Handler) CompressImage(c *gin.Context) {
	level := 75
	if raw := c.PostForm("level"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > 100 {
			h.badRequest(c, "level must be an integer between 0 and 100")
			return
		}
		level = v
	}

	up, ok := h.acceptUpload(c, "image", imageOnly)
	if !ok {
		return
	}
	defer up.Release()

	img, err := imaging.Open(up.Path)
	if err != nil {
		h.badRequest(c, "could not decode image")
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(up.Path)), ".")
	resultPath := h.WS.ResultPath(ext)

	// JPEG honours the quality level directly; PNG is lossless, so the
	// best we can do is maximum deflate effort.
	err = imaging.Save(img, resultPath,
		imaging.JPEGQuality(level),
		imaging.PNGCompressionLevel(png.BestCompression),
	)
	if err != nil {
		h.internalError(c, err, "failed to re-encode image")
		return
	}

	h.publish(c, resultPath, true)
}

// ImageToPDF wraps a single JPEG/PNG into a one-page PDF sized to the
// image.
//
// POST /api/convert/image  multipart field "image"
func (h *Handler) ImageToPDF(c *gin.Context) {
	up, ok := h.acceptUpload(c, "image", imageOnly)
	if !ok {
		return
	}
	defer up.Release()

	f, err := os.Open(up.Path)
	if err != nil {
		h.internalError(c, err, "failed to read upload")
		return
	}
	defer func() { _ = f.Close() }()

	data, err := raster.ImagesToPDF([]io.Reader{f})
	if err != nil {
		h.internalError(c, err, "failed to build PDF from image")
		return
	}

	resultPath := h.WS.ResultPath("pdf")
	if err := os.WriteFile(resultPath, data, 0o644); err != nil {
		h.internalError(c, err, "failed to write result")
		return
	}

	h.publish(c, resultPath, false)
}
