// Package arxiv fetches preprint metadata from the arXiv Atom API.
package arxiv

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"

	"depositimport/src/internal/dates"
	"depositimport/src/internal/httpx"
	"depositimport/src/internal/ident"
	"depositimport/src/internal/names"
	"depositimport/src/internal/sanitize"
	"depositimport/src/internal/schema"
	"depositimport/src/internal/stringsx"
)

// Provider is the provider name recorded on entries fetched here.
const Provider = "arxiv"

// DefaultBaseURL is the arXiv query endpoint.
const DefaultBaseURL = "https://export.arxiv.org/api/query"

// ErrNotFound is returned when the feed carries no matching entry.
var ErrNotFound = errors.New("arxiv: not found")

var (
	client  httpx.Doer = httpx.NewClient(0)
	baseURL            = DefaultBaseURL
)

// SetHTTPClient allows tests to inject a fake HTTP client.
func SetHTTPClient(c httpx.Doer) { client = c }

// SetBaseURL points lookups at another query endpoint.
func SetBaseURL(u string) { baseURL = u }

type feed struct {
	Entries []entry `xml:"http://www.w3.org/2005/Atom entry"`
}

type entry struct {
	ID        string `xml:"http://www.w3.org/2005/Atom id"`
	Title     string `xml:"http://www.w3.org/2005/Atom title"`
	Summary   string `xml:"http://www.w3.org/2005/Atom summary"`
	Published string `xml:"http://www.w3.org/2005/Atom published"`
	Authors   []struct {
		Name string `xml:"http://www.w3.org/2005/Atom name"`
	} `xml:"http://www.w3.org/2005/Atom author"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"http://www.w3.org/2005/Atom category"`
	Primary struct {
		Term string `xml:"term,attr"`
	} `xml:"http://arxiv.org/schemas/atom primary_category"`
	DOI        string `xml:"http://arxiv.org/schemas/atom doi"`
	JournalRef string `xml:"http://arxiv.org/schemas/atom journal_ref"`
}

// FetchRecord queries the arXiv API for one identifier and maps it to an Entry.
func FetchRecord(ctx context.Context, id string) (schema.Entry, error) {
	id = strings.TrimSpace(id)
	if len(id) >= 6 && strings.EqualFold(id[:6], "arxiv:") {
		id = id[6:]
	}
	q := url.Values{}
	q.Set("id_list", id)
	q.Set("max_results", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return schema.Entry{}, err
	}
	req.Header.Set("Accept", "application/atom+xml")
	httpx.SetUA(req)
	resp, err := client.Do(req)
	if err != nil {
		return schema.Entry{}, errors.Wrap(err, "arxiv: request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return schema.Entry{}, errors.Newf("arxiv: http %d: %s", resp.StatusCode, string(b))
	}
	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return schema.Entry{}, errors.Wrap(err, "arxiv: decode feed")
	}
	if len(f.Entries) == 0 || strings.TrimSpace(f.Entries[0].Title) == "" || strings.Contains(f.Entries[0].ID, "/api/errors") {
		return schema.Entry{}, errors.Wrapf(ErrNotFound, "arXiv %s", id)
	}
	e := mapEntry(f.Entries[0], id)
	sanitize.CleanEntry(&e)
	e.ID = schema.NewID()
	if err := e.Validate(); err != nil {
		return schema.Entry{}, err
	}
	return e, nil
}

func mapEntry(a entry, id string) schema.Entry {
	e := schema.Entry{
		Type:     schema.TypePreprint,
		Provider: Provider,
		Title:    stringsx.Collapse(a.Title),
		Abstract: stringsx.Collapse(a.Summary),
		ArXivID:  ident.NormalizeArXivID(id),
		DOI:      strings.TrimSpace(a.DOI),
		Journal:  stringsx.Collapse(a.JournalRef),
		URL:      "https://arxiv.org/abs/" + ident.NormalizeArXivID(id),
	}
	if e.DOI != "" {
		e.Type = schema.TypeArticle
	}
	if d := dates.DateOnly(a.Published); d != "" {
		e.Date = d
		if y := dates.YearFromDate(d); y > 0 {
			e.Year = &y
		}
	}
	for _, au := range a.Authors {
		fam, giv := names.Split(au.Name)
		if fam != "" {
			e.Authors = append(e.Authors, schema.Author{Family: fam, Given: giv})
		}
	}
	if p := strings.TrimSpace(a.Primary.Term); p != "" {
		e.Categories = append(e.Categories, p)
	}
	for _, c := range a.Categories {
		e.Categories = append(e.Categories, c.Term)
	}
	return e
}
