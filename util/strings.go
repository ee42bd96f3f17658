package util

import (
	"strings"

	"golang.org/x/net/html"
)

// Trunc truncates the input string to a specific length.
// It is UTF8-safe, but does not care for HTML.
func Trunc(s string, maxRunes int) string {
	s = strings.TrimSpace(s)
	var runes = 0
	for i := range s {
		runes++
		if runes == maxRunes {
			return strings.TrimSpace(s[:i]) // trim spaces again
		}
	}
	return s
}

// StripTags removes all HTML tags from a fragment, keeping the text.
// Used for plain-text teasers of rendered content.
func StripTags(fragment string) string {

	tokenizer := html.NewTokenizerFragment(strings.NewReader(fragment), "body")

	var text strings.Builder
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break // assuming tokenizer.Err() == io.EOF
		}
		if tt == html.TextToken {
			text.Write(tokenizer.Text())
		}
	}

	return strings.Join(strings.Fields(text.String()), " ")
}
