// Package assembly builds new PDF documents from an ordered list of page
// operations applied against a single source document. It is a pure
// in-memory transformation: bytes in, bytes out, no file system access.
package assembly

import (
	"bytes"
	"errors"
	"fmt"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrInvalidPageReference classifies an operation whose page index falls
	// outside the source document. Such operations are skipped, never fatal.
	ErrInvalidPageReference = errors.New("page index out of range")

	// ErrAssemblyFailed is returned when the output document cannot be
	// serialised to a well-formed byte representation.
	ErrAssemblyFailed = errors.New("document assembly failed")
)

// Document is a successfully parsed, immutable source document.
type Document struct {
	ctx       *model.Context
	pageCount int
}

// newConfiguration returns the engine's processing configuration. Cross
// reference and object streams are disabled so the serialised output keeps
// its file ID and info dates in cleartext, where canonicalize can reach
// them.
func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}

// Load parses a PDF from memory. Parsing or validation failure is the
// caller's concern to report; Load never touches the file system.
func Load(data []byte) (*Document, error) {
	ctx, err := pdfapi.ReadValidateAndOptimize(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("resolving page count: %w", err)
	}

	return &Document{ctx: ctx, pageCount: ctx.PageCount}, nil
}

// PageCount returns the number of pages in the source document.
func (d *Document) PageCount() int {
	return d.pageCount
}

// PageRotation returns the effective rotation entry of the 0-based page.
func (d *Document) PageRotation(index int) (int, error) {
	if index < 0 || index >= d.pageCount {
		return 0, ErrInvalidPageReference
	}
	_, _, inh, err := d.ctx.PageDict(index+1, false)
	if err != nil {
		return 0, err
	}
	return inh.Rotate, nil
}

// PageDims returns the media box width and height of the 0-based page.
func (d *Document) PageDims(index int) (width, height float64, err error) {
	if index < 0 || index >= d.pageCount {
		return 0, 0, ErrInvalidPageReference
	}
	_, _, inh, err := d.ctx.PageDict(index+1, false)
	if err != nil {
		return 0, 0, err
	}
	box := inh.CropBox
	if box == nil {
		box = inh.MediaBox
	}
	if box == nil {
		return 0, 0, fmt.Errorf("page %d has no media box", index)
	}
	return box.Width(), box.Height(), nil
}
