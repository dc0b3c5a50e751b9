// Package htmltext reduces stored HTML to short plain-text excerpts.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Excerpt strips all markup from the fragment and returns at most max runes
// of the remaining text, with an ellipsis when it was cut. Unparseable input
// falls back to the raw string.
func Excerpt(fragment string, max int) string {
	text := fragment
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err == nil {
		text = doc.Text()
	}

	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
