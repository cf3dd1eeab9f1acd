package domain

import "strings"

var markdownMarkers = strings.NewReplacer("**", "", "*", "", "`", "")

// StripMarkdown removes emphasis and code markers from generated text.
// Every other character is kept in order.
func StripMarkdown(text string) string {
	return markdownMarkers.Replace(text)
}
