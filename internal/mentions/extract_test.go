package mentions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	text := "hi @[Bob](42) say hello to @[Alice Smith](7)"
	got := Extract(text)

	assert.Len(t, got, 2)
	assert.Equal(t, Mention{DisplayName: "Bob", UserID: "42"}, got[0])
	assert.Equal(t, Mention{DisplayName: "Alice Smith", UserID: "7"}, got[1])
}

func TestExtractNoMentions(t *testing.T) {
	assert.Empty(t, Extract("no markup here"))
	assert.Empty(t, Extract(""))
}

func TestExtractMalformedMarkup(t *testing.T) {
	cases := []string{
		"@Bob",
		"@[Bob]",
		"@[Bob](notanumber)",
		"@[](42)",
		"@[Bo[b](42)",
		"[Bob](42)",
	}
	for _, text := range cases {
		assert.Empty(t, Extract(text), "input: %s", text)
	}
}

func TestExtractMalformedNextToWellFormed(t *testing.T) {
	got := Extract("@[broken @[Bob](42)")
	assert.Len(t, got, 1)
	assert.Equal(t, "42", got[0].UserID)
}

func TestContainsUser(t *testing.T) {
	text := "ping @[Bob](42)"
	assert.True(t, ContainsUser(text, 42))
	assert.False(t, ContainsUser(text, 7))
	assert.False(t, ContainsUser("plain text", 42))
}
