package doi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"depositimport/src/internal/dates"
	"depositimport/src/internal/httpx"
	"depositimport/src/internal/names"
	"depositimport/src/internal/sanitize"
	"depositimport/src/internal/schema"
	"depositimport/src/internal/stringsx"
)

// Provider is the provider name recorded on entries fetched here.
const Provider = "crossref"

// DefaultBaseURL is the DOI resolver used for content negotiation.
const DefaultBaseURL = "https://doi.org/"

// ErrNotFound is returned when the resolver does not know the DOI.
var ErrNotFound = errors.New("doi: not found")

var (
	client  httpx.Doer = httpx.NewClient(0)
	baseURL            = DefaultBaseURL
)

// SetHTTPClient allows tests to inject a fake HTTP client.
func SetHTTPClient(c httpx.Doer) { client = c }

// SetBaseURL points lookups at another resolver; it must end with a slash.
func SetBaseURL(u string) { baseURL = u }

// FetchRecord uses doi.org content negotiation (CSL JSON) to build an Entry.
func FetchRecord(ctx context.Context, doi string) (schema.Entry, error) {
	doi = strings.TrimSpace(doi)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+doi, nil)
	if err != nil {
		return schema.Entry{}, err
	}
	req.Header.Set("Accept", "application/vnd.citationstyles.csl+json")
	httpx.SetUA(req)
	resp, err := client.Do(req)
	if err != nil {
		return schema.Entry{}, errors.Wrap(err, "doi: request")
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return schema.Entry{}, errors.Wrapf(ErrNotFound, "doi %s", doi)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return schema.Entry{}, errors.Newf("doi: http %d: %s", resp.StatusCode, string(b))
	}
	var csl CSL
	if err := json.NewDecoder(resp.Body).Decode(&csl); err != nil {
		return schema.Entry{}, errors.Wrap(err, "doi: decode CSL")
	}
	e := mapCSLToEntry(csl)
	if e.DOI == "" {
		e.DOI = doi
	}
	e.URL = DefaultBaseURL + e.DOI
	sanitize.CleanEntry(&e)
	e.ID = schema.NewID()
	if err := e.Validate(); err != nil {
		return schema.Entry{}, err
	}
	return e, nil
}

// CSL is a partial model of the citationstyles JSON
type CSL struct {
	Title          any         `json:"title"`
	Author         []CSLAuthor `json:"author"`
	ContainerTitle any         `json:"container-title"`
	Issued         CSLIssued   `json:"issued"`
	Volume         any         `json:"volume"`
	Issue          any         `json:"issue"`
	Page           string      `json:"page"`
	DOI            string      `json:"DOI"`
	ISBN           any         `json:"ISBN"`
	Publisher      string      `json:"publisher"`
	Abstract       string      `json:"abstract"`
	Subject        []string    `json:"subject"`
	Type           string      `json:"type"`
}

type CSLAuthor struct {
	Given   string `json:"given"`
	Family  string `json:"family"`
	Literal string `json:"literal"`
	Name    string `json:"name"`
}

type CSLIssued struct {
	DateParts [][]int `json:"date-parts"`
}

// mapCSLToEntry converts a minimal CSL JSON structure into an Entry.
func mapCSLToEntry(c CSL) schema.Entry {
	e := schema.Entry{
		Type:       typeFromCSL(c.Type),
		Provider:   Provider,
		Title:      stringsx.Collapse(toString(c.Title)),
		Journal:    toString(c.ContainerTitle),
		Volume:     toString(c.Volume),
		Issue:      toString(c.Issue),
		Pages:      c.Page,
		DOI:        strings.TrimSpace(c.DOI),
		ISBN:       toString(c.ISBN),
		Publisher:  c.Publisher,
		Abstract:   stripJATS(c.Abstract),
		Categories: c.Subject,
	}
	if len(c.Issued.DateParts) > 0 {
		if y, d := dates.FromParts(c.Issued.DateParts[0]); y > 0 {
			e.Year = &y
			e.Date = d
		}
	}
	for _, a := range c.Author {
		if fam := strings.TrimSpace(a.Family); fam != "" {
			e.Authors = append(e.Authors, schema.Author{Family: fam, Given: names.Initials(a.Given)})
			continue
		}
		if lit := stringsx.FirstNonEmpty(a.Literal, a.Name); lit != "" {
			fam, giv := names.Split(lit)
			e.Authors = append(e.Authors, schema.Author{Family: fam, Given: giv})
		}
	}
	return e
}

// typeFromCSL maps CSL item types onto record types.
func typeFromCSL(t string) string {
	switch t {
	case "book", "monograph", "edited-book", "reference-book":
		return schema.TypeBook
	case "dissertation", "thesis":
		return schema.TypeThesis
	case "posted-content", "preprint":
		return schema.TypePreprint
	default:
		return schema.TypeArticle
	}
}

var jatsTag = regexp.MustCompile(`</?jats:[^>]*>`)

// stripJATS removes the JATS markup Crossref wraps abstracts in.
func stripJATS(s string) string { return stringsx.Collapse(jatsTag.ReplaceAllString(s, " ")) }

// toString coerces a string, number, or first element of an array to a string.
func toString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return fmt.Sprintf("%g", t)
	case []any:
		if len(t) > 0 {
			return toString(t[0])
		}
	}
	return ""
}
