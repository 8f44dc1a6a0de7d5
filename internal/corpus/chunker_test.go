package corpus

import (
	"reflect"
	"strings"
	"testing"
)

func testSegment(text string) Segment {
	return Segment{
		DocID:        "nice_ng109_visual_summary",
		Source:       "NICE",
		URL:          "https://example.org/ng109",
		Jurisdiction: "UK",
		Topic:        "lower_uti_antimicrobial",
		Section:      "page_1",
		Text:         text,
	}
}

func TestNewChunkerRejectsBadWindows(t *testing.T) {
	tests := []struct {
		name     string
		maxChars int
		overlap  int
		wantErr  bool
	}{
		{"valid", 2400, 250, false},
		{"zero overlap", 100, 0, false},
		{"overlap equals max", 100, 100, true},
		{"overlap exceeds max", 100, 200, true},
		{"zero max", 0, 0, true},
		{"negative overlap", 100, -5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunker(tt.maxChars, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewChunker(%d, %d) error = %v, wantErr %v", tt.maxChars, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestSplitShortSegmentYieldsSingleChunk(t *testing.T) {
	c, err := NewChunker(100, 20)
	if err != nil {
		t.Fatal(err)
	}
	chunks := c.Split(testSegment("  short guideline passage  "))
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "short guideline passage" {
		t.Errorf("chunk text = %q, want trimmed input", chunks[0].Text)
	}
	if chunks[0].Section != "page_1" || chunks[0].DocID != "nice_ng109_visual_summary" {
		t.Error("segment metadata not preserved")
	}
	if len(chunks[0].ChunkID) != 16 {
		t.Errorf("chunk id %q should be 16 hex chars", chunks[0].ChunkID)
	}
}

func TestSplitWindowsOverlapExactly(t *testing.T) {
	c, err := NewChunker(20, 5)
	if err != nil {
		t.Fatal(err)
	}
	// 50 chars of distinct, whitespace-free text so the trim step is a no-op
	// and window boundaries are directly observable.
	text := "abcdefghijklmnopqrstuvwxyz0123456789ABCDEFGHIJKLMN"
	windows := c.windows(text)

	if len(windows) < 2 {
		t.Fatalf("expected multiple windows, got %d", len(windows))
	}
	for i := 1; i < len(windows); i++ {
		prev, cur := windows[i-1], windows[i]
		// Each window starts exactly overlap chars before the previous end.
		if !strings.HasPrefix(cur, prev[len(prev)-5:]) {
			t.Errorf("window %d does not overlap previous by 5 chars: %q -> %q", i, prev, cur)
		}
	}
	last := windows[len(windows)-1]
	if !strings.HasSuffix(text, last) {
		t.Errorf("final window %q must end exactly at the segment end", last)
	}
	// Reassembly: dropping the overlap from each later window reproduces the text.
	rebuilt := windows[0]
	for _, w := range windows[1:] {
		rebuilt += w[5:]
	}
	if rebuilt != text {
		t.Errorf("windows do not reassemble the text:\n got %q\nwant %q", rebuilt, text)
	}
}

func TestSplitFinalWindowEndsAtSegmentEnd(t *testing.T) {
	c, err := NewChunker(10, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, length := range []int{9, 10, 11, 17, 25, 40} {
		text := strings.Repeat("abcdefg", 10)[:length]
		windows := c.windows(text)
		last := windows[len(windows)-1]
		if !strings.HasSuffix(text, last) {
			t.Errorf("len %d: final window %q does not end at text end", length, last)
		}
	}
}

func TestSplitIdempotent(t *testing.T) {
	c, err := NewChunker(30, 8)
	if err != nil {
		t.Fatal(err)
	}
	seg := testSegment(strings.Repeat("dipstick testing before prescribing ", 10))

	first := c.Split(seg)
	second := c.Split(seg)
	if !reflect.DeepEqual(first, second) {
		t.Error("chunking identical input twice must yield identical chunks, including IDs")
	}
}

func TestChunkIDsDistinguishPosition(t *testing.T) {
	// Same text prefix at different window indexes must produce distinct IDs.
	a := chunkID("doc", "page_1", 0, "nitrofurantoin 100mg modified-release")
	b := chunkID("doc", "page_1", 1, "nitrofurantoin 100mg modified-release")
	if a == b {
		t.Error("chunk IDs must incorporate the window index")
	}

	// Different sections likewise.
	c := chunkID("doc", "page_2", 0, "nitrofurantoin 100mg modified-release")
	if a == c {
		t.Error("chunk IDs must incorporate the section")
	}
}

func TestSplitAllPreservesSegmentOrder(t *testing.T) {
	c, err := NewChunker(1000, 100)
	if err != nil {
		t.Fatal(err)
	}
	segs := []Segment{testSegment("first page"), {DocID: "d", Section: "page_2", Text: "second page"}}
	chunks := c.SplitAll(segs)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "first page" || chunks[1].Text != "second page" {
		t.Error("chunks out of order")
	}
}

func TestSplitDropsWhitespaceOnlyWindows(t *testing.T) {
	c, err := NewChunker(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	chunks := c.Split(testSegment("ab      cd"))
	for _, ch := range chunks {
		if strings.TrimSpace(ch.Text) == "" {
			t.Errorf("whitespace-only chunk emitted: %q", ch.Text)
		}
	}
}
