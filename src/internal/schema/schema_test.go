package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSlugify(t *testing.T) {
	y := 2020
	cases := []struct {
		in   string
		year *int
		want string
	}{
		{"Hello, World!", nil, "hello-world"},
		{" Go  &  YAML ", &y, "go-yaml-2020"},
		{"  multiple---dashes__here ", nil, "multiple-dashes-here"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in, c.year), c.in)
	}
}

func TestValidate(t *testing.T) {
	e := Entry{ID: "id", Type: TypeArticle, Title: "Title"}
	require.Error(t, e.Validate(), "identifier missing")
	e.DOI = "10.1/x"
	require.NoError(t, e.Validate())

	e.Type = "movie"
	require.Error(t, e.Validate())
	e.Type = TypeBook
	e.Title = " "
	require.Error(t, e.Validate())
	e.Title = "T"
	e.ID = ""
	require.Error(t, e.Validate())
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestAuthorFullName(t *testing.T) {
	assert.Equal(t, "Maldacena, J.", Author{Family: "Maldacena", Given: "J."}.FullName())
	assert.Equal(t, "ATLAS Collaboration", Author{Family: "ATLAS Collaboration"}.FullName())
	assert.Equal(t, "J.", Author{Given: "J."}.FullName())
	assert.Equal(t, "", Author{}.FullName())
}

func TestAuthorsUnmarshalShapes(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want Authors
	}{
		{"scalar", "authors: CMS Collaboration\n", Authors{{Family: "CMS Collaboration"}}},
		{"null", "authors: null\n", nil},
		{"strings", "authors: [A, ' ', B]\n", Authors{{Family: "A"}, {Family: "B"}}},
		{"mapping", "authors: {family: Doe, given: J.}\n", Authors{{Family: "Doe", Given: "J."}}},
		{"mixed", "authors:\n  - {family: Doe}\n  - {}\n  - Roe\n", Authors{{Family: "Doe"}, {Family: "Roe"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var e Entry
			require.NoError(t, yaml.Unmarshal([]byte(tc.doc), &e))
			assert.Equal(t, tc.want, e.Authors)
		})
	}
}
