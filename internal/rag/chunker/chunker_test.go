package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/auramind/rag-api/internal/domain/commonModels"
)

func onePage(content string) []commonModels.PageText {
	return []commonModels.PageText{{Number: 1, Content: content}}
}

func TestChunkCount(t *testing.T) {
	// Concatenated length includes one separator char per page.
	tests := []struct {
		name     string
		content  string
		size     int
		overlap  int
		expected int
	}{
		{"fits in one window", strings.Repeat("a", 99), 500, 50, 1},
		{"exactly one window", strings.Repeat("a", 499), 500, 50, 1},
		{"just past one window", strings.Repeat("a", 500), 500, 50, 2},
		{"two strides", strings.Repeat("a", 900), 500, 50, 2},
		{"three strides", strings.Repeat("a", 959), 500, 50, 3},
		{"shorter than overlap", "hi", 500, 50, 1},
		{"no overlap", strings.Repeat("a", 999), 500, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Chunk(onePage(tt.content), tt.size, tt.overlap)
			if err != nil {
				t.Fatalf("Chunk failed: %v", err)
			}
			if len(chunks) != tt.expected {
				t.Errorf("chunk count got %d, want %d (text length %d)",
					len(chunks), tt.expected, len(tt.content)+1)
			}
			for i, c := range chunks {
				if len(c.Content) > tt.size {
					t.Errorf("chunk %d exceeds size: %d > %d", i, len(c.Content), tt.size)
				}
			}
		})
	}
}

func TestChunkReconstruction(t *testing.T) {
	content := strings.Repeat("the quick brown fox jumps over the lazy dog ", 40)
	size, overlap := 200, 30
	stride := size - overlap

	chunks, err := Chunk(onePage(content), size, overlap)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	// Concatenating each chunk's non-overlapping leading segment must
	// reconstruct the concatenated text exactly.
	var sb strings.Builder
	for i, c := range chunks {
		if i == len(chunks)-1 {
			sb.WriteString(c.Content)
			continue
		}
		sb.WriteString(c.Content[:stride])
	}

	want := content + PageSeparator
	if sb.String() != want {
		t.Errorf("reconstruction mismatch: got %d chars, want %d", sb.Len(), len(want))
	}
}

func TestChunkPagesSpanBoundary(t *testing.T) {
	// 300 chars per page with size 500: the first chunk must span both pages.
	pages := []commonModels.PageText{
		{Number: 1, Content: strings.Repeat("a", 300)},
		{Number: 2, Content: strings.Repeat("b", 300)},
	}

	chunks, err := Chunk(pages, 500, 50)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	wantFirst := []int{1, 2}
	if len(chunks[0].Pages) != 2 || chunks[0].Pages[0] != wantFirst[0] || chunks[0].Pages[1] != wantFirst[1] {
		t.Errorf("first chunk pages got %v, want %v", chunks[0].Pages, wantFirst)
	}
	if len(chunks[1].Pages) != 1 || chunks[1].Pages[0] != 2 {
		t.Errorf("second chunk pages got %v, want [2]", chunks[1].Pages)
	}
}

func TestChunkPagesIntersection(t *testing.T) {
	pages := []commonModels.PageText{
		{Number: 1, Content: strings.Repeat("a", 10)},
		{Number: 2, Content: strings.Repeat("b", 10)},
		{Number: 3, Content: strings.Repeat("c", 10)},
	}

	chunks, err := Chunk(pages, 12, 4)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}

	for i, c := range chunks {
		if len(c.Pages) == 0 {
			t.Errorf("chunk %d has an empty page set", i)
		}
		for j := 1; j < len(c.Pages); j++ {
			if c.Pages[j] <= c.Pages[j-1] {
				t.Errorf("chunk %d pages not strictly ascending: %v", i, c.Pages)
			}
		}
	}
}

func TestChunkRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
		{"negative overlap", 100, -1},
		{"zero size", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Chunk(onePage("some text"), tt.size, tt.overlap)
			if !errors.Is(err, ErrBadChunkConfig) {
				t.Errorf("expected ErrBadChunkConfig, got %v", err)
			}
		})
	}
}

func TestChunkEmptyInput(t *testing.T) {
	chunks, err := Chunk(nil, 500, 50)
	if err != nil {
		t.Fatalf("Chunk failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for no pages, got %d", len(chunks))
	}
}

func TestFormatPages(t *testing.T) {
	if got := FormatPages([]int{1, 2}); got != "[1, 2]" {
		t.Errorf("FormatPages got %q, want %q", got, "[1, 2]")
	}
	if got := FormatPages(nil); got != "[]" {
		t.Errorf("FormatPages got %q, want %q", got, "[]")
	}
}
