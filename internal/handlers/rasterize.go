package handlers

import (
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RasterizePDF renders every page of a PDF to a PNG and returns them as a
// ZIP archive.
//
// POST /api/pdf/rasterize  multipart field "pdf"
func (h *Handler) RasterizePDF(c *gin.Context) {
	up, ok := h.acceptUpload(c, "pdf", pdfOnly)
	if !ok {
		return
	}
	defer up.Release()

	data, err := os.ReadFile(up.Path)
	if err != nil {
		h.internalError(c, err, "failed to read upload")
		return
	}

	resultPath := h.WS.ResultPath("zip")
	out, err := os.Create(resultPath)
	if err != nil {
		h.internalError(c, err, "failed to create result")
		return
	}

	pages, err := h.Raster.ZipPages(data, out)
	closeErr := out.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(resultPath)
		if err == nil {
			err = closeErr
		}
		h.internalError(c, err, "rasterization failed")
		return
	}

	h.Log.WithField("pages", pages).Debug("rasterized document")
	h.publish(c, resultPath, false)
}

// CompressPDF applies extreme compression: every page is rasterised and
// re-encoded as a JPEG, and a fresh image-only PDF is assembled. Text and
// vector content is flattened in the process.
//
// POST /api/pdf/compress  multipart field "pdf", form "quality" (1-100, default 60)
func (h *Handler) CompressPDF(c *gin.Context) {
	quality := 60
	if raw := c.PostForm("quality"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 100 {
			h.badRequest(c, "quality must be an integer between 1 and 100")
			return
		}
		quality = v
	}

	up, ok := h.acceptUpload(c, "pdf", pdfOnly)
	if !ok {
		return
	}
	defer up.Release()

	data, err := os.ReadFile(up.Path)
	if err != nil {
		h.internalError(c, err, "failed to read upload")
		return
	}

	compressed, err := h.Raster.CompressToPDF(data, quality)
	if err != nil {
		h.internalError(c, err, "compression failed")
		return
	}

	resultPath := h.WS.ResultPath("pdf")
	if err := os.WriteFile(resultPath, compressed, 0o644); err != nil {
		h.internalError(c, err, "failed to write result")
		return
	}

	h.publish(c, resultPath, true)
}
