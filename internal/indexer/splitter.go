package indexer

import "strings"

const (
	// Child span sizing, in runes. Small spans match narrow queries well;
	// the parent text supplies the surrounding context at answer time.
	defaultSpanSize    = 200
	defaultSpanOverlap = 50
)

// splitSpans splits text into overlapping spans of at most size runes,
// with roughly overlap runes carried between consecutive spans. Split points
// prefer paragraph breaks, then line breaks, then sentence ends, before
// falling back to a hard rune cut.
func splitSpans(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		if span := strings.TrimSpace(text); span != "" {
			return []string{span}
		}
		return nil
	}

	var spans []string
	start := 0

	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			if span := strings.TrimSpace(string(runes[start:])); span != "" {
				spans = append(spans, span)
			}
			break
		}

		cut := boundaryCut(string(runes[start:end]))
		if cut <= 0 {
			cut = size
		}

		if span := strings.TrimSpace(string(runes[start : start+cut])); span != "" {
			spans = append(spans, span)
		}

		next := start + cut - overlap
		if next <= start {
			next = start + cut
		}
		start = next
	}

	return spans
}

// boundaryCut finds the best split position (in runes) within window,
// preferring paragraph boundaries over line boundaries over sentence ends.
// Returns 0 when no boundary is found.
func boundaryCut(window string) int {
	if i := strings.LastIndex(window, "\n\n"); i != -1 {
		return runeLen(window[:i+2])
	}
	if i := strings.LastIndex(window, "\n"); i != -1 {
		return runeLen(window[:i+1])
	}
	if i := strings.LastIndex(window, ". "); i != -1 {
		return runeLen(window[:i+2])
	}
	return 0
}

func runeLen(s string) int {
	return len([]rune(s))
}
