package indexer

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// stubCompleter tags its output so tests can tell normalized text from raw.
type stubCompleter struct {
	calls int
	err   error
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "RESTRUCTURED", nil
}

func numberedText(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "value %d ", i)
	}
	return b.String()
}

func TestNormalize_BelowThresholdPassesThrough(t *testing.T) {
	completer := &stubCompleter{}
	normalizer := NewTableNormalizer(completer)

	input := numberedText(defaultNumericThreshold) // exactly at threshold
	if got := normalizer.Normalize(context.Background(), input); got != input {
		t.Fatalf("text at threshold should pass through unchanged")
	}
	if completer.calls != 0 {
		t.Fatalf("expected no collaborator calls, got %d", completer.calls)
	}
}

func TestNormalize_AboveThresholdRoutesThroughLLM(t *testing.T) {
	completer := &stubCompleter{}
	normalizer := NewTableNormalizer(completer)

	got := normalizer.Normalize(context.Background(), numberedText(defaultNumericThreshold+1))
	if got != "RESTRUCTURED" {
		t.Fatalf("expected restructured output, got %q", got)
	}
	if completer.calls != 1 {
		t.Fatalf("expected 1 collaborator call, got %d", completer.calls)
	}
}

func TestNormalize_LLMFailureKeepsRawText(t *testing.T) {
	completer := &stubCompleter{err: fmt.Errorf("boom")}
	normalizer := NewTableNormalizer(completer)

	input := numberedText(defaultNumericThreshold + 5)
	if got := normalizer.Normalize(context.Background(), input); got != input {
		t.Fatalf("expected raw text on LLM failure, got %q", got)
	}
}

func TestCountNumericTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"plain integers", "1 2 3", 3},
		{"decimals and signs", "-1.5 +2.25 .75", 3},
		{"scientific notation", "6.02e23 1E-9", 2},
		{"numbers inside words are skipped", "abc123 v2 file_3", 0},
		{"no numbers", "only words here", 0},
		{"punctuation adjacent", "total: 42, rate: 3.5%", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countNumericTokens(tt.text); got != tt.want {
				t.Fatalf("countNumericTokens(%q)=%d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
