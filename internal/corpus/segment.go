// Package corpus handles the offline evidence pipeline: extracting raw text
// segments from the guideline document, chunking them into retrievable
// units, and serializing both as line-delimited JSON streams.
package corpus

// DocumentMeta is the provenance metadata constant for one source document.
type DocumentMeta struct {
	DocID        string
	Source       string
	URL          string
	Jurisdiction string
	Topic        string
}

// Segment is one extracted region of the source document (typically a page).
// Immutable once produced; consumed only by the chunker.
type Segment struct {
	DocID        string `json:"doc_id"`
	Source       string `json:"source"`
	URL          string `json:"url"`
	Jurisdiction string `json:"jurisdiction"`
	Topic        string `json:"topic"`
	Section      string `json:"section"`
	Text         string `json:"text"`
}

// Chunk is a bounded slice of segment text, the unit of retrieval and
// citation. ChunkID is a stable content-derived hash so repeated ingestion
// runs are idempotent and citations survive index rebuilds. No downstream
// component may split a chunk further.
type Chunk struct {
	ChunkID      string `json:"chunk_id"`
	DocID        string `json:"doc_id"`
	Source       string `json:"source"`
	URL          string `json:"url"`
	Jurisdiction string `json:"jurisdiction"`
	Topic        string `json:"topic"`
	Section      string `json:"section"`
	Text         string `json:"text"`
}
