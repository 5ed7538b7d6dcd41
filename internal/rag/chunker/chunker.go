package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/auramind/rag-api/internal/domain/commonModels"
)

// ErrBadChunkConfig rejects window parameters that would never advance.
var ErrBadChunkConfig = errors.New("chunk overlap must be non-negative and smaller than chunk size")

// PageSeparator is appended after every page so page boundaries are
// well-defined offsets in the concatenated text.
const PageSeparator = "\n"

type pageSpan struct {
	start, end int //half-open [start, end) in the concatenated text
	page       int
}

// Chunk slides a window of width size over the concatenation of all page
// contents with stride size-overlap. Each chunk records every page whose span
// intersects the window. Pure function of its inputs.
func Chunk(pages []commonModels.PageText, size, overlap int) ([]commonModels.Chunk, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrBadChunkConfig, size, overlap)
	}

	var sb strings.Builder
	spans := make([]pageSpan, 0, len(pages))
	for _, p := range pages {
		start := sb.Len()
		sb.WriteString(p.Content)
		sb.WriteString(PageSeparator)
		spans = append(spans, pageSpan{start: start, end: sb.Len(), page: p.Number})
	}

	text := sb.String()
	length := len(text)
	if length == 0 {
		return nil, nil
	}

	stride := size - overlap
	var chunks []commonModels.Chunk
	// A window is only worth emitting while it holds text beyond the previous
	// window's overlap; otherwise it would be a pure duplicate suffix.
	for start := 0; start == 0 || start+overlap < length; start += stride {
		end := start + size
		if end > length {
			end = length
		}

		var pageNums []int
		for _, s := range spans {
			if s.start < end && start < s.end {
				pageNums = append(pageNums, s.page)
			}
		}

		chunks = append(chunks, commonModels.Chunk{
			Content: text[start:end],
			Pages:   pageNums,
		})
	}

	return chunks, nil
}

// FormatPages renders a chunk's page set the way it is stored in index
// metadata and shown in citations, e.g. "[1, 2]".
func FormatPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
