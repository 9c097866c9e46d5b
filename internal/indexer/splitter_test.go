package indexer

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitSpans_ShortTextSingleSpan(t *testing.T) {
	spans := splitSpans("The capital of France is Paris.", defaultSpanSize, defaultSpanOverlap)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0] != "The capital of France is Paris." {
		t.Fatalf("span altered: %q", spans[0])
	}
}

func TestSplitSpans_EmptyText(t *testing.T) {
	if spans := splitSpans("", defaultSpanSize, defaultSpanOverlap); spans != nil {
		t.Fatalf("expected nil spans, got %v", spans)
	}
	if spans := splitSpans("   \n  ", defaultSpanSize, defaultSpanOverlap); spans != nil {
		t.Fatalf("expected nil spans for whitespace, got %v", spans)
	}
}

func TestSplitSpans_RespectsMaxSize(t *testing.T) {
	text := strings.Repeat("Paris has a population of about 2.1 million. ", 40)
	spans := splitSpans(text, defaultSpanSize, defaultSpanOverlap)
	if len(spans) < 2 {
		t.Fatalf("expected multiple spans, got %d", len(spans))
	}
	for i, span := range spans {
		if n := utf8.RuneCountInString(span); n > defaultSpanSize {
			t.Fatalf("span %d has %d runes, max %d", i, n, defaultSpanSize)
		}
	}
}

func TestSplitSpans_PrefersSentenceBoundaries(t *testing.T) {
	text := strings.Repeat("A complete sentence that ends here. ", 30)
	spans := splitSpans(text, defaultSpanSize, defaultSpanOverlap)
	for i, span := range spans {
		if !strings.HasSuffix(span, ".") {
			t.Fatalf("span %d does not end at a sentence boundary: %q", i, span)
		}
	}
}

func TestSplitSpans_OverlapCarriesText(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon zeta. ", 30)
	spans := splitSpans(text, defaultSpanSize, defaultSpanOverlap)
	if len(spans) < 2 {
		t.Fatalf("expected multiple spans, got %d", len(spans))
	}

	// The head of each span after the first should reappear near the tail of
	// the previous one.
	for i := 1; i < len(spans); i++ {
		head := spans[i]
		if n := utf8.RuneCountInString(head); n > 20 {
			head = string([]rune(head)[:20])
		}
		if !strings.Contains(spans[i-1], strings.TrimSpace(head)) {
			t.Fatalf("span %d head %q not found in previous span", i, head)
		}
	}
}

func TestSplitSpans_HardCutWithoutBoundaries(t *testing.T) {
	text := strings.Repeat("x", 600)
	spans := splitSpans(text, defaultSpanSize, defaultSpanOverlap)
	if len(spans) < 3 {
		t.Fatalf("expected at least 3 spans, got %d", len(spans))
	}
	for i, span := range spans {
		if n := utf8.RuneCountInString(span); n > defaultSpanSize {
			t.Fatalf("span %d has %d runes, max %d", i, n, defaultSpanSize)
		}
	}
}

func TestSplitSpans_UnicodeSafe(t *testing.T) {
	text := strings.Repeat("许多文字没有空格或句点可以分割", 30)
	spans := splitSpans(text, defaultSpanSize, defaultSpanOverlap)
	for i, span := range spans {
		if !utf8.ValidString(span) {
			t.Fatalf("span %d is not valid UTF-8", i)
		}
	}
}
