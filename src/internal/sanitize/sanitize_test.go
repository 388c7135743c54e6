package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"depositimport/src/internal/schema"
)

func TestCleanString(t *testing.T) {
	out := CleanString("  \tHello\x00World\n  ", 100)
	assert.Equal(t, "HelloWorld", out)
	assert.Equal(t, "abc", CleanString("abcdef", 3))
	assert.Equal(t, "éà", CleanString("éàü", 2))
	assert.True(t, utf8.ValidString(out))
}

func TestCleanURL(t *testing.T) {
	assert.Equal(t, "", CleanURL(""))
	assert.Equal(t, "", CleanURL("not a url"))
	assert.Equal(t, "", CleanURL("ftp://x"))
	assert.Equal(t, "https://arxiv.org/abs/1207.7214", CleanURL(" https://arxiv.org/abs/1207.7214 "))
}

func TestCleanCategories(t *testing.T) {
	assert.Equal(t, []string{"hep-ex", "math.GT"}, CleanCategories([]string{" hep-ex", "math.GT", "hep-ex", ""}))
	assert.Nil(t, CleanCategories(nil))

	many := make([]string, 50)
	for i := range many {
		many[i] = strings.Repeat("c", i+1)
	}
	assert.Len(t, CleanCategories(many), 32)
}

func TestCleanEntry(t *testing.T) {
	e := schema.Entry{
		ID:      " id\x01 ",
		Type:    "article",
		Title:   " Observation\x00 of a new boson ",
		Authors: schema.Authors{{Family: " Aad "}, {Family: " ", Given: ""}},
		URL:     "javascript:alert(1)",
	}
	CleanEntry(&e)
	assert.Equal(t, "id", e.ID)
	assert.Equal(t, "Observation of a new boson", e.Title)
	assert.Equal(t, schema.Authors{{Family: "Aad"}}, e.Authors)
	assert.Equal(t, "", e.URL)

	CleanEntry(nil)
}
