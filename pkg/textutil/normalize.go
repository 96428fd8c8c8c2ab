package textutil

import "strings"

// Normalize strips non-ASCII code points and collapses whitespace runs to
// single spaces. Embedding models choke on exotic unicode from scraped PDFs,
// so document and profile text goes through here before chunking.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
