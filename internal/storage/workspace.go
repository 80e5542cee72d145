// Package storage owns the transient file areas the gateway works with:
// an uploads scratch directory and a statically served results directory.
// Nothing here is persistent state; both areas are safe to wipe between
// runs.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Workspace manages request-scoped files. File names are always derived
// from a fresh UUID, so concurrent requests can never collide.
type Workspace struct {
	uploadsDir string
	resultsDir string
	baseURL    string
	logger     *logrus.Logger
}

// New creates the uploads and results directories under dataDir.
func New(dataDir, baseURL string, logger *logrus.Logger) (*Workspace, error) {
	ws := &Workspace{
		uploadsDir: filepath.Join(dataDir, "uploads"),
		resultsDir: filepath.Join(dataDir, "results"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
	for _, dir := range []string{ws.uploadsDir, ws.resultsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return ws, nil
}

// ResultsDir returns the directory served statically under /files.
func (w *Workspace) ResultsDir() string { return w.resultsDir }

// UploadsDir returns the transient upload scratch area.
func (w *Workspace) UploadsDir() string { return w.uploadsDir }

// Upload is a temporarily materialised request input. The owning handler
// must call Release on every exit path.
type Upload struct {
	Path     string
	Original string
	ws       *Workspace
	scratch  []string
	released bool
}

// SaveUpload writes the multipart file into the uploads scratch area under
// a unique name, preserving the original extension.
func (w *Workspace) SaveUpload(fh *multipart.FileHeader) (*Upload, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	path := filepath.Join(w.uploadsDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating temp input: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("writing temp input: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("writing temp input: %w", err)
	}

	return &Upload{Path: path, Original: fh.Filename, ws: w}, nil
}

// NewScratchDir creates a request-scoped scratch directory tied to the
// upload's lifetime; Release removes it with everything inside.
func (u *Upload) NewScratchDir() (string, error) {
	dir := filepath.Join(u.ws.uploadsDir, "scratch-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating scratch dir: %w", err)
	}
	u.scratch = append(u.scratch, dir)
	return dir, nil
}

// Release deletes the temp input and any scratch directories. It is
// idempotent and must run on success, validation failure and tool failure
// alike.
func (u *Upload) Release() {
	if u.released {
		return
	}
	u.released = true

	if err := os.Remove(u.Path); err != nil && !os.IsNotExist(err) {
		u.ws.logger.WithError(err).WithField("path", u.Path).Warn("failed to delete temp upload")
	}
	for _, dir := range u.scratch {
		if err := os.RemoveAll(dir); err != nil {
			u.ws.logger.WithError(err).WithField("path", dir).Warn("failed to delete scratch dir")
		}
	}
}

// Artifact is a published result.
type Artifact struct {
	Name string
	Size int64
	URL  string
}

// ResultPath reserves a unique path in the results directory for a new
// artifact with the given extension (without dot).
func (w *Workspace) ResultPath(ext string) string {
	return filepath.Join(w.resultsDir, uuid.NewString()+"."+ext)
}

// Publish finalises a produced file already located in the results
// directory: it stats the file and returns its download metadata. An
// empty or missing file is an error; partial artifacts are removed.
func (w *Workspace) Publish(path string) (*Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("result missing: %w", err)
	}
	if info.Size() == 0 {
		_ = os.Remove(path)
		return nil, fmt.Errorf("result is empty")
	}

	name := filepath.Base(path)
	return &Artifact{Name: name, Size: info.Size(), URL: w.URLFor(name)}, nil
}

// URLFor builds the absolute download URL for a published artifact.
func (w *Workspace) URLFor(name string) string {
	return w.baseURL + "/files/" + name
}

// SweepUploads removes upload-area entries older than ttl. Run at startup
// to clear leftovers from a previous crash; steady-state cleanup happens
// per request via Release.
func (w *Workspace) SweepUploads(ttl time.Duration) {
	entries, err := os.ReadDir(w.uploadsDir)
	if err != nil {
		w.logger.WithError(err).Warn("upload sweep failed")
		return
	}

	cutoff := time.Now().Add(-ttl)
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(w.uploadsDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			w.logger.WithError(err).WithField("path", path).Warn("upload sweep failed")
		} else {
			w.logger.WithField("path", path).Debug("swept stale upload")
		}
	}
}
