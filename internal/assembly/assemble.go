package assembly

import (
	"bytes"
	"fmt"
	"io"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Result is the serialised output document together with what happened to
// each operation. It is discarded by the caller after persistence; the
// engine keeps no state across calls.
type Result struct {
	data      []byte
	pageCount int
	skipped   []int
}

// Bytes returns the serialised output document.
func (r *Result) Bytes() []byte { return r.data }

// PageCount returns the number of pages in the output, which equals the
// number of operations that succeeded.
func (r *Result) PageCount() int { return r.pageCount }

// Skipped returns the list positions of operations that were dropped
// because their page index was out of range.
func (r *Result) Skipped() []int { return r.skipped }

// Assemble applies ops against src in list order and serialises the output
// document once. An empty list is valid and yields a zero-page document.
//
// An out-of-range page index is skipped, uniformly for copy and rotate
// operations; the output then contains exactly the successfully resolved
// operations in their original order. Skipped positions are reported on the
// Result so callers can surface them.
func Assemble(src *Document, ops []Operation) (*Result, error) {
	segments := make([][]byte, 0, len(ops))
	var skipped []int

	for pos, op := range ops {
		if op.kind == opBlank {
			segments = append(segments, BlankDocument(1))
			continue
		}
		if op.index < 0 || op.index >= src.pageCount {
			skipped = append(skipped, pos)
			continue
		}
		rotation := -1
		if op.kind == opRotate {
			rotation = NormalizeAngle(op.angle)
		}
		seg, err := src.pageSegment(op.index+1, rotation)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrAssemblyFailed, op, err)
		}
		segments = append(segments, seg)
	}

	data, err := mergeSegments(segments)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssemblyFailed, err)
	}
	if len(data) == 0 {
		return nil, ErrAssemblyFailed
	}

	return &Result{data: data, pageCount: len(segments), skipped: skipped}, nil
}

// pageSegment extracts the 1-based page into a standalone single-page
// document. A rotation >= 0 replaces the page's rotation entry; the angle
// is already normalised by the caller.
func (d *Document) pageSegment(pageNr int, rotation int) ([]byte, error) {
	ctxPage, err := pdfcpu.ExtractPages(d.ctx, []int{pageNr}, false)
	if err != nil {
		return nil, err
	}
	if err := ctxPage.EnsurePageCount(); err != nil {
		return nil, err
	}

	if rotation >= 0 {
		pageDict, _, _, err := ctxPage.PageDict(1, false)
		if err != nil {
			return nil, err
		}
		if pageDict == nil {
			return nil, fmt.Errorf("page %d missing after extraction", pageNr)
		}
		// Normalise first, then set. Never merge with whatever rotation
		// metadata the source page carried.
		pageDict["Rotate"] = types.Integer(rotation)
	}

	var out bytes.Buffer
	if err := pdfapi.WriteContext(ctxPage, &out); err != nil {
		return nil, err
	}
	return canonicalize(out.Bytes()), nil
}

func mergeSegments(segments [][]byte) ([]byte, error) {
	switch len(segments) {
	case 0:
		return BlankDocument(0), nil
	case 1:
		return segments[0], nil
	}

	readers := make([]io.ReadSeeker, len(segments))
	for i, seg := range segments {
		readers[i] = bytes.NewReader(seg)
	}

	var out bytes.Buffer
	if err := pdfapi.MergeRaw(readers, &out, false, newConfiguration()); err != nil {
		return nil, err
	}
	return canonicalize(out.Bytes()), nil
}
