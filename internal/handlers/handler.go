// Package handlers contains one HTTP handler per gateway operation. Every
// handler follows the same shape: validate the upload, call an adapter or
// the assembly engine, publish the artifact, and release the temp input on
// every exit path.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/filemill/filemill/internal/storage"
	"github.com/filemill/filemill/internal/tools"
)

// Adapter contracts, satisfied by internal/tools and by fakes in tests.
// Handlers depend on these interfaces, never on concrete command lines.
type (
	OfficeConverter interface {
		Convert(ctx context.Context, inputPath, outDir, format string) (string, error)
	}
	Searchabler interface {
		MakeSearchable(ctx context.Context, inputPath, outputPath string) error
	}
	Encrypter interface {
		Protect(ctx context.Context, inputPath, outputPath, password string) error
	}
	Transcoder interface {
		Transcode(ctx context.Context, inputPath, outputPath string, crf int) error
	}
	Rasterizer interface {
		ZipPages(data []byte, w io.Writer) (int, error)
		CompressToPDF(data []byte, quality int) ([]byte, error)
	}
)

// Handler carries the shared collaborators for all endpoints.
type Handler struct {
	Log       *logrus.Logger
	WS        *storage.Workspace
	Office    OfficeConverter
	OCR       Searchabler
	Encryptor Encrypter
	Video     Transcoder
	Raster    Rasterizer
}

// New wires a Handler from its collaborators.
func New(log *logrus.Logger, ws *storage.Workspace, office OfficeConverter, ocr Searchabler, enc Encrypter, video Transcoder, raster Rasterizer) *Handler {
	return &Handler{Log: log, WS: ws, Office: office, OCR: ocr, Encryptor: enc, Video: video, Raster: raster}
}

type downloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
	Size        int64  `json:"size"`
}

type compressResponse struct {
	DownloadURL string `json:"downloadUrl"`
	Size        int64  `json:"size"`
	FinalSize   int64  `json:"finalSize"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// allowList is a per-endpoint extension/MIME allow-list. MIME constraints
// are checked by sniffing the saved upload, not by trusting headers; an
// empty mime spec means extension-only validation.
type allowList struct {
	label      string
	exts       map[string]bool
	mimes      []string
	mimePrefix string
}

var (
	pdfOnly = allowList{
		label: "PDF",
		exts:  map[string]bool{".pdf": true},
		mimes: []string{"application/pdf"},
	}
	imageOnly = allowList{
		label: "JPEG or PNG image",
		exts:  map[string]bool{".jpg": true, ".jpeg": true, ".png": true},
		mimes: []string{"image/jpeg", "image/png"},
	}
	officeDoc = allowList{
		label: "office document",
		exts: map[string]bool{
			".doc": true, ".docx": true, ".odt": true, ".rtf": true,
			".ppt": true, ".pptx": true, ".odp": true,
			".xls": true, ".xlsx": true, ".ods": true, ".txt": true,
		},
	}
	videoFile = allowList{
		label:      "video file",
		exts:       map[string]bool{".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true},
		mimePrefix: "video/",
	}
)

func (a allowList) extOK(filename string) bool {
	return a.exts[strings.ToLower(filepath.Ext(filename))]
}

func (a allowList) mimeOK(mt *mimetype.MIME) bool {
	if len(a.mimes) == 0 && a.mimePrefix == "" {
		return true
	}
	for _, want := range a.mimes {
		if mt.Is(want) {
			return true
		}
	}
	return a.mimePrefix != "" && strings.HasPrefix(mt.String(), a.mimePrefix)
}

// sniffOK detects the saved file's actual content type and checks it
// against the allow-list. An error means the file could not be inspected,
// not that its content was rejected.
func (a allowList) sniffOK(path string) (bool, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return false, err
	}
	return a.mimeOK(mt), nil
}

// acceptUpload materialises the uploaded file and enforces the endpoint's
// allow-list before any tool or engine runs. On rejection the temp input
// is already gone. The boolean reports whether the request may proceed.
func (h *Handler) acceptUpload(c *gin.Context, field string, allow allowList) (*storage.Upload, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		h.badRequest(c, "no file uploaded in field '"+field+"'")
		return nil, false
	}
	if !allow.extOK(fh.Filename) {
		h.badRequest(c, "unsupported file type, expected a "+allow.label)
		return nil, false
	}

	up, err := h.WS.SaveUpload(fh)
	if err != nil {
		h.internalError(c, err, "failed to store upload")
		return nil, false
	}

	ok, err := allow.sniffOK(up.Path)
	if err != nil {
		up.Release()
		h.internalError(c, err, "failed to inspect upload")
		return nil, false
	}
	if !ok {
		up.Release()
		h.badRequest(c, "uploaded content is not a "+allow.label)
		return nil, false
	}

	return up, true
}

func (h *Handler) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func (h *Handler) internalError(c *gin.Context, err error, msg string) {
	entry := h.Log.WithError(err).WithField("path", c.FullPath())

	var toolErr *tools.ToolError
	if errors.As(err, &toolErr) {
		entry = entry.WithField("tool", toolErr.Tool)
		if toolErr.Stderr != "" {
			entry = entry.WithField("stderr", toolErr.Stderr)
		}
	}
	entry.Error(msg)

	c.JSON(http.StatusInternalServerError, errorResponse{Error: msg})
}

// publish finalises the artifact and writes the standard success response.
func (h *Handler) publish(c *gin.Context, path string, withFinalSize bool) {
	art, err := h.WS.Publish(path)
	if err != nil {
		h.internalError(c, err, "produced file is missing or empty")
		return
	}

	if withFinalSize {
		c.JSON(http.StatusOK, compressResponse{DownloadURL: art.URL, Size: art.Size, FinalSize: art.Size})
		return
	}
	c.JSON(http.StatusOK, downloadResponse{DownloadURL: art.URL, Size: art.Size})
}
