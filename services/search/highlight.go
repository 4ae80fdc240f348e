package search

import (
	"html"
	"regexp"
	"strings"
)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// Highlight wraps query matches in text with marker tags. The text is
// HTML-escaped before wrapping so a match can never break out of the
// markup. Matching is case-insensitive; wholeWordsOnly restricts matches to
// word boundaries.
func Highlight(text, query string, wholeWordsOnly bool) string {
	query = strings.TrimSpace(query)
	if len(text) == 0 || len(query) == 0 {
		return text
	}

	escaped := html.EscapeString(text)

	pattern := regexp.QuoteMeta(html.EscapeString(query))
	if wholeWordsOnly {
		pattern = `\b` + pattern + `\b`
	}
	matcher, err := regexp.Compile(`(?i)` + pattern)
	if err != nil {
		return escaped
	}

	return matcher.ReplaceAllString(escaped, markOpen+"$0"+markClose)
}

// HighlightSlice highlights each element of texts.
func HighlightSlice(texts []string, query string, wholeWordsOnly bool) []string {
	if len(texts) == 0 {
		return nil
	}

	highlighted := make([]string, len(texts))
	for i, text := range texts {
		highlighted[i] = Highlight(text, query, wholeWordsOnly)
	}
	return highlighted
}

// applyHighlights decorates results in place with highlighted variants of
// the fields that exist. Titles and descriptions match whole words only, so
// a query does not light up inside unrelated longer words; authors and tags
// match substrings to support partial-name discovery.
func applyHighlights(results []Result, query string) {
	if len(strings.TrimSpace(query)) == 0 {
		return
	}

	for i := range results {
		result := &results[i]
		if len(result.Title) > 0 {
			result.TitleHighlighted = Highlight(result.Title, query, true)
		}
		if len(result.Description) > 0 {
			result.DescriptionHighlighted = Highlight(result.Description, query, true)
		}
		if len(result.Author) > 0 {
			result.AuthorHighlighted = Highlight(result.Author, query, false)
		}
		if len(result.Tags) > 0 {
			result.TagsHighlighted = HighlightSlice(result.Tags, query, false)
		}
	}
}
