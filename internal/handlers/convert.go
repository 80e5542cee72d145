package handlers

import (
	"os"

	"github.com/gin-gonic/gin"
)

// OfficeToPDF converts an office document (docx, odt, pptx, xlsx, ...) to
// PDF via the office adapter.
//
// POST /api/convert/office  multipart field "document"
func (h *Handler) OfficeToPDF(c *gin.Context) {
	h.convertWithOffice(c, "document", officeDoc, "pdf")
}

// PDFToEditable converts a PDF into an editable document (docx) via the
// office adapter.
//
// POST /api/convert/editable  multipart field "document"
func (h *Handler) PDFToEditable(c *gin.Context) {
	h.convertWithOffice(c, "document", pdfOnly, "docx")
}

func (h *Handler) convertWithOffice(c *gin.Context, field string, allow allowList, format string) {
	up, ok := h.acceptUpload(c, field, allow)
	if !ok {
		return
	}
	defer up.Release()

	scratch, err := up.NewScratchDir()
	if err != nil {
		h.internalError(c, err, "failed to prepare conversion")
		return
	}

	outPath, err := h.Office.Convert(c.Request.Context(), up.Path, scratch, format)
	if err != nil {
		h.internalError(c, err, "document conversion failed")
		return
	}

	resultPath := h.WS.ResultPath(format)
	if err := os.Rename(outPath, resultPath); err != nil {
		h.internalError(c, err, "failed to store result")
		return
	}

	h.publish(c, resultPath, false)
}
