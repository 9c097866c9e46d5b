package indexer

import (
	"context"
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"

	"sherlock/internal/contextutil"
)

// defaultNumericThreshold is the numeric-token count above which a page is
// presumed to contain tabular data.
const defaultNumericThreshold = 30

// numberPattern covers integers, decimals, signed values, and scientific
// notation. Word-boundary checks happen separately because RE2 has no
// lookarounds.
var numberPattern = regexp.MustCompile(`[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`)

// Completer is the synchronous single-turn completion collaborator.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// TableNormalizer classifies pages as table-like by numeric-token density and
// delegates restructuring to the LLM. This is a heuristic, not a parser:
// dense prose with many numbers is a false positive and a sparse-numeric
// table a false negative, both accepted trade-offs.
type TableNormalizer struct {
	completer Completer
	threshold int
}

// NewTableNormalizer creates a normalizer with the default threshold.
func NewTableNormalizer(completer Completer) *TableNormalizer {
	return &TableNormalizer{
		completer: completer,
		threshold: defaultNumericThreshold,
	}
}

// Normalize returns text unchanged when its numeric-token count is at or
// below the threshold. Above it, the text is rewritten by the LLM to keep
// prose verbatim and re-render tabular regions as structured records. If the
// LLM is unavailable the raw page text is kept so the upload still succeeds.
func (n *TableNormalizer) Normalize(ctx context.Context, text string) string {
	count := countNumericTokens(text)
	if count <= n.threshold {
		return text
	}

	logger := contextutil.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "page classified as table-like", "numeric_tokens", count, "threshold", n.threshold)

	restructured, err := n.completer.Complete(ctx, buildTablePrompt(text))
	if err != nil {
		logger.WarnContext(ctx, "table restructuring failed, keeping raw text", "error", err)
		return text
	}
	if restructured == "" {
		return text
	}
	return restructured
}

// countNumericTokens counts standalone numeric tokens: matches of
// numberPattern that are not embedded in a larger word.
func countNumericTokens(text string) int {
	matches := numberPattern.FindAllStringIndex(text, -1)
	count := 0
	for _, m := range matches {
		if isWordChar(runeBefore(text, m[0])) || isWordChar(runeAt(text, m[1])) {
			continue
		}
		count++
	}
	return count
}

func runeBefore(s string, i int) rune {
	if i <= 0 {
		return 0
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return r
}

func runeAt(s string, i int) rune {
	if i >= len(s) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// buildTablePrompt renders the restructuring instruction for a table-like
// page.
func buildTablePrompt(pageText string) string {
	return fmt.Sprintf(`You are given a text extract which possibly contains tables in some portion or is a table in whole.
Your job is to restructure the extract so that text and tables are easy to interpret.
Restructuring logic:
1. Keep the prose part (if it's there) exactly as it is.
2. Restructure the tables into key-value records (json).

text extract:
//
%s
//

//
**Restructured output only**
//
`, pageText)
}
