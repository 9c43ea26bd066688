package extractor

import (
	"unicode"
)

// SplitText splits text into chunks of at most size runes, with overlap runes
// shared between neighbouring chunks so a grant listing straddling a boundary
// still appears whole in one chunk. Chunk ends prefer whitespace boundaries.
func SplitText(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []string{text}
	}
	if overlap >= size {
		overlap = 0
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		// Back up to the nearest whitespace so words stay intact
		cut := end
		for cut > start+size-overlap && !unicode.IsSpace(runes[cut-1]) {
			cut--
		}
		if cut == start+size-overlap {
			cut = end
		}

		chunks = append(chunks, string(runes[start:cut]))

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}

	return chunks
}
