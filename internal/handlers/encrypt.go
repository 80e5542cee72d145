package handlers

import "github.com/gin-gonic/gin"

// EncryptPDF password-protects a PDF.
//
// POST /api/pdf/encrypt  multipart field "pdf", form "password" (required)
func (h *Handler) EncryptPDF(c *gin.Context) {
	password := c.PostForm("password")
	if password == "" {
		h.badRequest(c, "password is required")
		return
	}

	up, ok := h.acceptUpload(c, "pdf", pdfOnly)
	if !ok {
		return
	}
	defer up.Release()

	resultPath := h.WS.ResultPath("pdf")
	if err := h.Encryptor.Protect(c.Request.Context(), up.Path, resultPath, password); err != nil {
		h.internalError(c, err, "encryption failed")
		return
	}

	h.publish(c, resultPath, false)
}
