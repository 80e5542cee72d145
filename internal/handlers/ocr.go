package handlers

import "github.com/gin-gonic/gin"

// MakeSearchable runs OCR over a PDF and returns a copy with an embedded
// text layer.
//
// POST /api/pdf/searchable  multipart field "pdf"
func (h *Handler) MakeSearchable(c *gin.Context) {
	up, ok := h.acceptUpload(c, "pdf", pdfOnly)
	if !ok {
		return
	}
	defer up.Release()

	resultPath := h.WS.ResultPath("pdf")
	if err := h.OCR.MakeSearchable(c.Request.Context(), up.Path, resultPath); err != nil {
		h.internalError(c, err, "OCR failed")
		return
	}

	h.publish(c, resultPath, false)
}
