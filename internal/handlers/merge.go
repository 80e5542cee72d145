package handlers

import (
	"github.com/gin-gonic/gin"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/filemill/filemill/internal/storage"
)

// MergePDFs concatenates two or more PDFs in upload order.
//
// POST /api/pdf/merge  multipart field "files" (repeated, at least 2)
func (h *Handler) MergePDFs(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.badRequest(c, "invalid multipart payload")
		return
	}

	files := form.File["files"]
	if len(files) < 2 {
		h.badRequest(c, "at least two PDF files are required in field 'files'")
		return
	}

	var uploads []*storage.Upload
	defer func() {
		for _, up := range uploads {
			up.Release()
		}
	}()

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		if !pdfOnly.extOK(fh.Filename) {
			h.badRequest(c, "unsupported file type, expected a "+pdfOnly.label)
			return
		}
		up, err := h.WS.SaveUpload(fh)
		if err != nil {
			h.internalError(c, err, "failed to store upload")
			return
		}
		uploads = append(uploads, up)
		paths = append(paths, up.Path)
	}

	resultPath := h.WS.ResultPath("pdf")
	if err := pdfapi.MergeCreateFile(paths, resultPath, false, model.NewDefaultConfiguration()); err != nil {
		h.internalError(c, err, "merge failed")
		return
	}

	h.publish(c, resultPath, false)
}
