package handlers

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/filemill/filemill/internal/assembly"
)

// ReorganizePDF rebuilds a PDF from an ordered page selection. The "pages"
// form value is a comma-separated list of 0-based page indices and "blank"
// markers, e.g. "2,blank,0". Out-of-range indices are skipped.
//
// POST /api/pdf/reorganize  multipart field "pdf", form "pages"
func (h *Handler) ReorganizePDF(c *gin.Context) {
	ops, err := parsePageList(c.PostForm("pages"))
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	h.assemble(c, ops)
}

// RotatePDF rebuilds a PDF from {index, rotation} instructions; pages not
// listed are dropped, so the same endpoint covers rotation and deletion.
// The "ops" form value is a JSON array like [{"index":0,"rotation":90}].
//
// POST /api/pdf/rotate  multipart field "pdf", form "ops"
func (h *Handler) RotatePDF(c *gin.Context) {
	ops, err := parseRotateList(c.PostForm("ops"))
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	h.assemble(c, ops)
}

// assemble is the shared tail of both page-level endpoints: load the
// source, run the engine, persist and publish the output.
func (h *Handler) assemble(c *gin.Context, ops []assembly.Operation) {
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

	src, err := assembly.Load(data)
	if err != nil {
		h.badRequest(c, "could not parse PDF")
		return
	}

	res, err := assembly.Assemble(src, ops)
	if err != nil {
		h.internalError(c, err, "page assembly failed")
		return
	}
	if skipped := res.Skipped(); len(skipped) > 0 {
		h.Log.WithFields(logrus.Fields{
			"path":    c.FullPath(),
			"skipped": skipped,
		}).Info("skipped operations with out-of-range page indices")
	}

	resultPath := h.WS.ResultPath("pdf")
	if err := os.WriteFile(resultPath, res.Bytes(), 0o644); err != nil {
		h.internalError(c, err, "failed to write result")
		return
	}

	h.publish(c, resultPath, false)
}

func parsePageList(raw string) ([]assembly.Operation, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		// An empty selection is valid and yields an empty document.
		return nil, nil
	}

	var ops []assembly.Operation
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if strings.EqualFold(token, "blank") {
			ops = append(ops, assembly.Blank())
			continue
		}
		index, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid page token %q: expected an index or \"blank\"", token)
		}
		ops = append(ops, assembly.Copy(index))
	}
	return ops, nil
}

func parseRotateList(raw string) ([]assembly.Operation, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var items []struct {
		Index    int `json:"index"`
		Rotation int `json:"rotation"`
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("ops must be a JSON array of {index, rotation}")
	}

	ops := make([]assembly.Operation, 0, len(items))
	for _, item := range items {
		ops = append(ops, assembly.Rotate(item.Index, item.Rotation))
	}
	return ops, nil
}
