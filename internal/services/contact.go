package services

import "regexp"

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// ExtractEmail returns the leftmost email-shaped substring of text.
func ExtractEmail(text string) (string, bool) {
	match := emailPattern.FindString(text)
	return match, match != ""
}
