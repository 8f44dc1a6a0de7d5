package corpus

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF reads the document at path and returns one Segment per
// non-empty page, tagged with the document's provenance metadata and a
// per-page section identifier ("page_N"). Pages whose extraction fails or
// that contain only whitespace are dropped entirely. An unreadable document
// is a fatal error: a partial corpus must never be indexed.
func ExtractPDF(path string, meta DocumentMeta) ([]Segment, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var segments []Segment
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unextractable page is a dropped region, not a
			// pipeline failure.
			continue
		}
		text = normalizePageText(text)
		if text == "" {
			continue
		}

		segments = append(segments, Segment{
			DocID:        meta.DocID,
			Source:       meta.Source,
			URL:          meta.URL,
			Jurisdiction: meta.Jurisdiction,
			Topic:        meta.Topic,
			Section:      fmt.Sprintf("page_%d", i),
			Text:         text,
		})
	}

	return segments, nil
}

// normalizePageText trims each line and drops blank lines, matching the
// shape chunking and retrieval expect.
func normalizePageText(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
