// Package mentions parses the inline mention markup carried verbatim in post
// and comment bodies.
package mentions

import (
	"regexp"
	"strconv"
)

// Markup grammar: @[displayName](userId). Anything malformed or partial is
// left alone as literal text.
var markupPattern = regexp.MustCompile(`@\[([^\[\]]+)\]\((\d+)\)`)

// Mention is one parsed occurrence of the markup
type Mention struct {
	DisplayName string `json:"display_name"`
	UserID      string `json:"user_id"`
}

// Extract returns every well-formed mention in the text, in order of
// appearance. Never errors: unparseable markup simply yields no match.
func Extract(text string) []Mention {
	matches := markupPattern.FindAllStringSubmatch(text, -1)
	result := make([]Mention, 0, len(matches))
	for _, m := range matches {
		result = append(result, Mention{DisplayName: m[1], UserID: m[2]})
	}
	return result
}

// ContainsUser reports whether the text mentions the given user id
func ContainsUser(text string, userID uint) bool {
	want := strconv.FormatUint(uint64(userID), 10)
	for _, m := range Extract(text) {
		if m.UserID == want {
			return true
		}
	}
	return false
}
