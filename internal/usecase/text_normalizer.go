package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Separators accepted by TextNormalizer
const (
	SeparatorSpace      = " "
	SeparatorUnderscore = "_"
)

// Compiled patterns for OCR/list text handling
var (
	// newline and comma delimit shopping-list items
	itemDelimiterPattern = regexp.MustCompile(`[\r\n,]+`)

	// OCR punctuation noise; commas survive because they delimit items
	ocrNoisePattern = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\s,]`)

	multiSpacePattern = regexp.MustCompile(`[ \t\f\v]+`)
)

// TextNormalizer canonicalizes item names so that inventory entries and
// query tokens can be compared with plain equality.
type TextNormalizer struct {
	separator string
}

// NewTextNormalizer creates a normalizer joining words with separator.
// Anything other than an underscore falls back to a single space.
func NewTextNormalizer(separator string) *TextNormalizer {
	if separator != SeparatorUnderscore {
		separator = SeparatorSpace
	}
	return &TextNormalizer{separator: separator}
}

// Separator returns the word separator used in normalized output
func (n *TextNormalizer) Separator() string {
	return n.separator
}

// Normalize lowercases s, drops punctuation, and joins the remaining words with
// the configured separator. Normalize(Normalize(s)) == Normalize(s).
func (n *TextNormalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		switch {
		case r == '_' || unicode.IsSpace(r):
			pendingSep = b.Len() > 0
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			if pendingSep {
				b.WriteString(n.separator)
				pendingSep = false
			}
			b.WriteRune(r)
		}
	}

	// stripped runes can leave a base letter next to its combining mark
	return norm.NFC.String(b.String())
}

// Equal reports whether a and b name the same item
func (n *TextNormalizer) Equal(a, b string) bool {
	return n.Normalize(a) == n.Normalize(b)
}

// Tokenize splits free-form list text into item tokens on newlines and commas.
// Tokens are trimmed and empty ones dropped; case is preserved for display.
func Tokenize(text string) []string {
	parts := itemDelimiterPattern.Split(text, -1)
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// CleanOCRText strips punctuation noise and collapses spaces on every line,
// keeping the line structure that Tokenize relies on.
func CleanOCRText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = ocrNoisePattern.ReplaceAllString(line, "")
		line = multiSpacePattern.ReplaceAllString(line, " ")
		cleaned = append(cleaned, strings.TrimSpace(line))
	}
	return strings.Join(cleaned, "\n")
}
