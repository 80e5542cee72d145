// Package raster renders PDF pages to images and rebuilds image-only PDFs.
package raster

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Engine is the concrete rasterizer behind the handler-level interface.
type Engine struct{}

// ZipPages renders every page of the PDF to a PNG and writes them into a
// ZIP archive on w, named page_0001.png onwards. Returns the page count.
func (Engine) ZipPages(data []byte, w io.Writer) (int, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return 0, fmt.Errorf("opening document: %w", err)
	}
	defer doc.Close()

	zw := zip.NewWriter(w)
	pages := doc.NumPage()

	for n := 0; n < pages; n++ {
		img, err := doc.Image(n)
		if err != nil {
			return 0, fmt.Errorf("rendering page %d: %w", n+1, err)
		}

		entry, err := zw.Create(fmt.Sprintf("page_%04d.png", n+1))
		if err != nil {
			return 0, err
		}
		if err := imaging.Encode(entry, img, imaging.PNG); err != nil {
			return 0, fmt.Errorf("encoding page %d: %w", n+1, err)
		}
	}

	if err := zw.Close(); err != nil {
		return 0, err
	}
	return pages, nil
}

// CompressToPDF is the extreme compression path: every page is rasterised,
// re-encoded as a JPEG at the given quality (1-100), and a fresh PDF is
// assembled from the images. All text and vector content is flattened.
func (Engine) CompressToPDF(data []byte, quality int) ([]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	images := make([]io.Reader, 0, pages)
	for n := 0; n < pages; n++ {
		img, err := doc.Image(n)
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", n+1, err)
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("encoding page %d: %w", n+1, err)
		}
		images = append(images, bytes.NewReader(buf.Bytes()))
	}

	return ImagesToPDF(images)
}

// ImagesToPDF assembles a PDF with one page per image, each page sized to
// its image.
func ImagesToPDF(images []io.Reader) ([]byte, error) {
	var out bytes.Buffer
	if err := pdfapi.ImportImages(nil, &out, images, nil, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("importing images: %w", err)
	}
	return out.Bytes(), nil
}
