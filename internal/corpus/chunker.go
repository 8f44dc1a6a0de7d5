package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// idPrefixRunes is how much of the chunk text participates in the ID hash,
// enough to disambiguate near-duplicate chunk starts within one section.
const idPrefixRunes = 40

// Chunker slides a fixed-size window over segment text with a fixed
// backward overlap between consecutive windows, so context spanning a
// window boundary is never lost.
type Chunker struct {
	maxChars int
	overlap  int
}

// NewChunker validates the window parameters. overlap >= maxChars would
// stall forward progress and is rejected.
func NewChunker(maxChars, overlap int) (*Chunker, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("max chars must be positive, got %d", maxChars)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must be non-negative, got %d", overlap)
	}
	if overlap >= maxChars {
		return nil, fmt.Errorf("overlap (%d) must be less than max chars (%d)", overlap, maxChars)
	}
	return &Chunker{maxChars: maxChars, overlap: overlap}, nil
}

// Split chunks one segment, preserving all its metadata. Windows are
// whitespace-trimmed and empty windows are dropped. Chunk IDs are
// deterministic: splitting identical input twice yields byte-identical
// output.
func (c *Chunker) Split(seg Segment) []Chunk {
	var chunks []Chunk
	for idx, text := range c.windows(seg.Text) {
		chunks = append(chunks, Chunk{
			ChunkID:      chunkID(seg.DocID, seg.Section, idx, text),
			DocID:        seg.DocID,
			Source:       seg.Source,
			URL:          seg.URL,
			Jurisdiction: seg.Jurisdiction,
			Topic:        seg.Topic,
			Section:      seg.Section,
			Text:         text,
		})
	}
	return chunks
}

// SplitAll chunks a sequence of segments in order.
func (c *Chunker) SplitAll(segments []Segment) []Chunk {
	var chunks []Chunk
	for _, seg := range segments {
		chunks = append(chunks, c.Split(seg)...)
	}
	return chunks
}

// windows cuts text into maxChars-sized windows, each starting overlap
// characters before the previous window's end. The final window ends
// exactly at the end of the text. Offsets are in runes so multi-byte
// guideline text chunks identically regardless of encoding width.
func (c *Chunker) windows(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for start < len(runes) {
		end := start + c.maxChars
		if end > len(runes) {
			end = len(runes)
		}
		window := strings.TrimSpace(string(runes[start:end]))
		if window != "" {
			out = append(out, window)
		}
		if end == len(runes) {
			break
		}
		start = end - c.overlap
		if start < 0 {
			start = 0
		}
	}
	return out
}

// chunkID derives a stable 16-hex-char identifier from the chunk's
// provenance and the first runes of its text.
func chunkID(docID, section string, index int, text string) string {
	prefix := text
	if r := []rune(text); len(r) > idPrefixRunes {
		prefix = string(r[:idPrefixRunes])
	}
	h := sha256.Sum256([]byte(strings.Join([]string{docID, section, strconv.Itoa(index), prefix}, "::")))
	return hex.EncodeToString(h[:])[:16]
}
