package pipeline

import (
	"strings"
	"unicode"
)

var transcriptReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
	"…", "...",
	" ", " ",
)

// normalizeTranscript flattens typographic quotes, dashes and
// ellipses to their ASCII forms, collapses runs of whitespace, and
// strips control characters. Raw transcripts arrive with inconsistent typography
// depending on which call-hosting service the provider scraped.
func normalizeTranscript(raw string) string {
	cleaned := transcriptReplacer.Replace(raw)

	var b strings.Builder
	b.Grow(len(cleaned))
	space := false
	for _, r := range cleaned {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r):
			continue
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// wordCount counts whitespace-delimited tokens.
func wordCount(text string) int {
	return len(strings.Fields(text))
}
