package forum

import (
	"strings"
)

// DefaultQuery is used when the caller supplies no search text.
const DefaultQuery = " "

// HomeTopicLimit caps the topic side list on listing pages.
const HomeTopicLimit = 5

// NormalizeQuery maps an absent or empty query onto DefaultQuery. Any
// other text is used verbatim, surrounding spaces included.
func NormalizeQuery(q string) string {
	if q == "" {
		return DefaultQuery
	}
	return q
}

// likePattern builds a LIKE pattern matching q as a literal substring.
// Case is left alone; callers fold both sides with LOWER(). Use with
// ESCAPE '\'.
func likePattern(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 2)
	b.WriteByte('%')
	for _, r := range q {
		switch r {
		case '\\', '%', '_':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('%')
	return b.String()
}
