package mapper

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depositimport/src/internal/importsource"
)

// decode mimics what importsource hands a mapper: a JSON object decoded to map[string]any.
func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

const doiQuery = `{
  "status": "success",
  "title": " Observation of a new boson ",
  "authors": [{"family": "Chatrchyan", "given": "S."}, {"family": "CMS Collaboration"}],
  "journal": "Phys. Lett. B",
  "volume": "716",
  "issue": "1",
  "pages": "30-61",
  "year": 2012,
  "date": "2012-09-17",
  "publisher": "Elsevier",
  "doi": "10.1016/j.physletb.2012.08.021"
}`

func TestDOIRules_Article(t *testing.T) {
	m, err := New(DOIRules)
	require.NoError(t, err)

	got, err := m.Map(decode(t, doiQuery), TypeArticle)
	require.NoError(t, err)
	assert.Equal(t, importsource.Mapping{
		"title":                 "Observation of a new boson",
		"authors":               []map[string]any{{"name": "Chatrchyan, S."}, {"name": "CMS Collaboration"}},
		"doi":                   "10.1016/j.physletb.2012.08.021",
		"journal_title":         "Phys. Lett. B",
		"volume":                "716",
		"issue":                 "1",
		"page_range_article_id": "30-61",
		"year":                  2012,
	}, got)
}

func TestDOIRules_ThesisAndBook(t *testing.T) {
	m, err := New(DOIRules)
	require.NoError(t, err)

	thesis, err := m.Map(decode(t, doiQuery), TypeThesis)
	require.NoError(t, err)
	assert.Equal(t, "2012-09-17", thesis["defense_date"])
	assert.Equal(t, "Elsevier", thesis["institution"])
	assert.NotContains(t, thesis, "journal_title")
	assert.NotContains(t, thesis, "volume")

	book, err := m.Map(decode(t, doiQuery), TypeBook)
	require.NoError(t, err)
	assert.Equal(t, "Elsevier", book["publisher_name"])
	assert.NotContains(t, book, "defense_date")
}

func TestArXivRules(t *testing.T) {
	m, err := New(ArXivRules)
	require.NoError(t, err)
	q := decode(t, `{"status":"success","title":"The Large N limit","arxiv_id":"hep-th/9711200","categories":["hep-th","gr-qc"],"date":"1997-11-27","year":1997}`)

	got, err := m.Map(q, TypeArticle)
	require.NoError(t, err)
	assert.Equal(t, "hep-th, gr-qc", got["categories"])
	assert.Equal(t, "hep-th/9711200", got["arxiv_id"])
	assert.Equal(t, "1997-11-27", got["preprint_created"])
	assert.Equal(t, 1997, got["year"])
	assert.NotContains(t, got, "doi")
}

func TestISBNRules_Chapter(t *testing.T) {
	m, err := New(ISBNRules)
	require.NoError(t, err)
	q := decode(t, `{"status":"success","title":"Clean Code","isbn":"9780132350884","publisher":"Prentice Hall","year":"2008"}`)

	got, err := m.Map(q, TypeChapter)
	require.NoError(t, err)
	assert.Equal(t, "Clean Code", got["book_title"])
	assert.Equal(t, 2008, got["year"])

	got, err = m.Map(q, TypeBook)
	require.NoError(t, err)
	assert.NotContains(t, got, "book_title")
}

func TestMap_NestedPaths(t *testing.T) {
	m, err := New([]Rule{
		{From: "pub_info.year", To: "imprint.date", Transform: "year"},
		{From: "pub_info.missing", To: "imprint.other"},
		{From: "titles", To: "title", Transform: "first"},
	})
	require.NoError(t, err)
	q := decode(t, `{"pub_info":{"year":"1998"},"titles":["A","B"]}`)

	got, err := m.Map(q, "")
	require.NoError(t, err)
	assert.Equal(t, importsource.Mapping{
		"imprint": map[string]any{"date": 1998},
		"title":   "A",
	}, got)
}

func TestMap_SkipsEmptyValues(t *testing.T) {
	m, err := New([]Rule{{From: "title", To: "title", Transform: "trim"}, {From: "authors", To: "authors", Transform: "authors"}})
	require.NoError(t, err)
	got, err := m.Map(decode(t, `{"title":"  ","authors":[]}`), TypeArticle)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMap_TransformTypeError(t *testing.T) {
	m, err := New([]Rule{{From: "title", To: "title", Transform: "upper"}})
	require.NoError(t, err)
	_, err = m.Map(map[string]any{"title": 42.0}, TypeArticle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title -> title")
}

func TestNew_RejectsBadRules(t *testing.T) {
	_, err := New([]Rule{{From: "title", To: "title", Transform: "rot13"}})
	require.Error(t, err)
	_, err = New([]Rule{{From: "", To: "title"}})
	require.Error(t, err)
}

func TestTransforms(t *testing.T) {
	v, err := transforms["lower"]("ABC")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	v, err = transforms["join"]("already joined")
	require.NoError(t, err)
	assert.Equal(t, "already joined", v)

	_, err = transforms["join"](3.0)
	require.Error(t, err)

	v, err = transforms["first"]([]any{})
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = transforms["authors"]([]any{"Hawking, S. W.", map[string]any{"given": "J."}, 7.0})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"name": "Hawking, S. W."}, {"name": "J."}}, v)

	_, err = transforms["year"](true)
	require.Error(t, err)
}

func TestLoadRules(t *testing.T) {
	doc := `
rules:
  - from: title
    to: title
    transform: trim
  - from: journal
    to: journal_title
    types: [article]
`
	rules, err := LoadRules(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []Rule{
		{From: "title", To: "title", Transform: "trim"},
		{From: "journal", To: "journal_title", Types: []string{"article"}},
	}, rules)

	_, err = LoadRules(strings.NewReader(""))
	require.Error(t, err)
	_, err = LoadRules(strings.NewReader("rules: []\n"))
	require.Error(t, err)
	_, err = LoadRules(strings.NewReader("rules:\n  - from: a\n    to: b\n    bogus: c\n"))
	require.Error(t, err)
}

func TestLoadRules_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"unknown transform": "rules:\n  - {from: title, to: title, transform: rot13}\n",
		"missing to":        "rules:\n  - {from: title}\n",
		"empty from":        "rules:\n  - {from: '', to: title}\n",
		"types not a list":  "rules:\n  - {from: title, to: title, types: article}\n",
		"extra top key":     "rules:\n  - {from: a, to: b}\nversion: 2\n",
		"not an object":     "- from: a\n  to: b\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadRules(strings.NewReader(doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid mapping document")
		})
	}
}

func TestLoadRules_EmptyDocument(t *testing.T) {
	_, err := LoadRules(strings.NewReader("# nothing here\n"))
	assert.ErrorContains(t, err, "empty mapping document")
}

func TestForConfig(t *testing.T) {
	m, err := ForConfig("arxiv", "")
	require.NoError(t, err)
	assert.Equal(t, ArXivRules, m.Rules())

	_, err = ForConfig("orcid", "")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - {from: title, to: name}\n"), 0o644))
	m, err = ForConfig("orcid", path)
	require.NoError(t, err)
	got, err := m.Map(map[string]any{"title": "T"}, TypeArticle)
	require.NoError(t, err)
	assert.Equal(t, importsource.Mapping{"name": "T"}, got)

	_, err = ForConfig("doi", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestForSource(t *testing.T) {
	for _, id := range []string{"doi", "arxiv", "isbn"} {
		rules, ok := ForSource(id)
		assert.True(t, ok, id)
		_, err := New(rules)
		assert.NoError(t, err, id)
	}
	_, ok := ForSource("nope")
	assert.False(t, ok)
}
