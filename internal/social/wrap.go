package social

import (
	"strings"

	"golang.org/x/net/html"
)

// Wrap splits text into lines no wider than maxWidth as measured by m.
//
// Markup tags are removed first. Words are added greedily; a word that does
// not fit starts a new line, and a word wider than maxWidth is placed alone on
// its own line without being split. Lines beyond maxLines are dropped.
// maxLines <= 0 keeps every line.
func Wrap(text string, maxWidth int, m Measurer, maxLines int) []string {
	lines, _ := wrap(text, maxWidth, m, maxLines)
	return lines
}

// wrap is Wrap that also returns the last candidate line it tried, whether or
// not that candidate fit.
func wrap(text string, maxWidth int, m Measurer, maxLines int) (lines []string, last string) {
	var current []string
	for _, word := range strings.Fields(StripTags(text)) {
		candidate := strings.Join(append(current, word), " ")
		last = candidate
		if len(current) == 0 || m.Measure(candidate) <= maxWidth {
			current = append(current, word)
			continue
		}
		lines = append(lines, strings.Join(current, " "))
		current = []string{word}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines, last
}

// StripTags removes markup tags from s and returns the remaining text with
// entities decoded.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
