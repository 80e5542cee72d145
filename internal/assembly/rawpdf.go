package assembly

import (
	"bytes"
	"fmt"
)

// A4 in PDF points. Blank pages are caller-independent, so the size is fixed.
const (
	blankPageWidth  = 595.28
	blankPageHeight = 841.89
)

type pageSize struct {
	width, height float64
}

// writeRawDocument serialises a document consisting solely of contentless
// pages. It writes the PDF by hand so the result is byte-for-byte
// deterministic (no timestamps, no document ID) and so a zero-page document
// can be produced at all, which stream-level PDF tooling refuses to do.
func writeRawDocument(pages []pageSize) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.7\n")

	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, b.Len())
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	kids := ""
	for i := range pages {
		if i > 0 {
			kids += " "
		}
		kids += fmt.Sprintf("%d 0 R", 3+i)
	}

	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))
	for _, p := range pages {
		writeObj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] /Resources << >> >>", p.width, p.height))
	}

	// Cross-reference entries must be exactly 20 bytes each.
	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(offsets)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefOffset)

	return b.Bytes()
}

// BlankDocument returns a well-formed PDF with the given number of empty A4
// pages. Zero is valid and yields an empty document. Used for blank-page
// synthesis and as a convenient fixture builder in tests.
func BlankDocument(pageCount int) []byte {
	pages := make([]pageSize, pageCount)
	for i := range pages {
		pages[i] = pageSize{width: blankPageWidth, height: blankPageHeight}
	}
	return writeRawDocument(pages)
}
