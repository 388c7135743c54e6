package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Record types held in the local database.
const (
	TypeArticle  = "article"
	TypePreprint = "preprint"
	TypeBook     = "book"
	TypeThesis   = "thesis"
)

// Entry is a bibliographic record as stored on disk and served by lookups.
type Entry struct {
	ID         string   `yaml:"id" json:"id"`
	Type       string   `yaml:"type" json:"type"`
	Provider   string   `yaml:"provider,omitempty" json:"provider,omitempty"`
	Title      string   `yaml:"title" json:"title"`
	Authors    Authors  `yaml:"authors,omitempty" json:"authors,omitempty"`
	Year       *int     `yaml:"year,omitempty" json:"year,omitempty"`
	Date       string   `yaml:"date,omitempty" json:"date,omitempty"`
	Journal    string   `yaml:"journal,omitempty" json:"journal,omitempty"`
	Volume     string   `yaml:"volume,omitempty" json:"volume,omitempty"`
	Issue      string   `yaml:"issue,omitempty" json:"issue,omitempty"`
	Pages      string   `yaml:"pages,omitempty" json:"pages,omitempty"`
	Publisher  string   `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	DOI        string   `yaml:"doi,omitempty" json:"doi,omitempty"`
	ArXivID    string   `yaml:"arxiv_id,omitempty" json:"arxiv_id,omitempty"`
	ISBN       string   `yaml:"isbn,omitempty" json:"isbn,omitempty"`
	Abstract   string   `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Categories []string `yaml:"categories,omitempty" json:"categories,omitempty"`
	URL        string   `yaml:"url,omitempty" json:"url,omitempty"`
}

type Author struct {
	Family string `yaml:"family" json:"family"`
	Given  string `yaml:"given,omitempty" json:"given,omitempty"`
}

// FullName renders "Family, Given", or whichever part is present.
func (a Author) FullName() string {
	f, g := strings.TrimSpace(a.Family), strings.TrimSpace(a.Given)
	switch {
	case f != "" && g != "":
		return f + ", " + g
	case f != "":
		return f
	}
	return g
}

// Authors is a slice of Author that can unmarshal from multiple YAML shapes:
// - a single string (collaboration or full name; stored in Family)
// - a sequence of strings
// - a mapping (single Author object)
// - a sequence of Author mappings
type Authors []Author

func (a *Authors) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch value.Kind {
	case yaml.ScalarNode:
		s := strings.TrimSpace(value.Value)
		if s == "" || s == "null" {
			*a = nil
			return nil
		}
		*a = Authors{{Family: s}}
		return nil
	case yaml.SequenceNode:
		var out Authors
		for _, n := range value.Content {
			switch n.Kind {
			case yaml.ScalarNode:
				if s := strings.TrimSpace(n.Value); s != "" {
					out = append(out, Author{Family: s})
				}
			case yaml.MappingNode:
				var au Author
				if err := n.Decode(&au); err != nil {
					return err
				}
				if au.FullName() != "" {
					out = append(out, au)
				}
			}
		}
		*a = out
		return nil
	case yaml.MappingNode:
		var au Author
		if err := value.Decode(&au); err != nil {
			return err
		}
		if au.FullName() == "" {
			*a = nil
			return nil
		}
		*a = Authors{au}
		return nil
	default:
		// Unknown shape; leave nil rather than erroring
		*a = nil
		return nil
	}
}

// Validate checks the fields a stored record cannot do without.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("id is required")
	}
	switch e.Type {
	case TypeArticle, TypePreprint, TypeBook, TypeThesis:
	default:
		return errors.Newf("invalid type: %s", e.Type)
	}
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(e.DOI) == "" && strings.TrimSpace(e.ArXivID) == "" && strings.TrimSpace(e.ISBN) == "" {
		return errors.New("one of doi, arxiv_id or isbn is required")
	}
	return nil
}

// NewID returns a fresh random record id.
func NewID() string { return uuid.NewString() }

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
var dashCollapse = regexp.MustCompile(`-+`)

// Slugify generates an id-friendly slug from title and optional year.
func Slugify(title string, year *int) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = nonAlnum.ReplaceAllString(t, "-")
	t = dashCollapse.ReplaceAllString(t, "-")
	t = strings.Trim(t, "-")
	if year != nil {
		return fmt.Sprintf("%s-%d", t, *year)
	}
	return t
}
