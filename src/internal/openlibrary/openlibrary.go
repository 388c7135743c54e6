// Package openlibrary resolves ISBNs through OpenLibrary, falling back to Google Books.
package openlibrary

import (
	"context"
	"encoding/json"
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

// Provider names recorded on fetched entries.
const (
	Provider       = "openlibrary"
	ProviderGoogle = "googlebooks"
)

const (
	DefaultBaseURL   = "https://openlibrary.org/api/books"
	DefaultGoogleURL = "https://www.googleapis.com/books/v1/volumes"
)

// ErrNotFound is returned when neither OpenLibrary nor Google Books know the ISBN.
var ErrNotFound = errors.New("openlibrary: not found")

var (
	client    httpx.Doer = httpx.NewClient(0)
	baseURL              = DefaultBaseURL
	googleURL            = DefaultGoogleURL
)

// SetHTTPClient allows tests to inject a fake HTTP client.
func SetHTTPClient(c httpx.Doer) { client = c }

// SetBaseURLs points lookups at other OpenLibrary and Google Books endpoints.
// Empty values keep the current endpoint.
func SetBaseURLs(openLibrary, google string) {
	if openLibrary != "" {
		baseURL = openLibrary
	}
	if google != "" {
		googleURL = google
	}
}

// FetchRecord queries OpenLibrary and maps the response to an Entry.
func FetchRecord(ctx context.Context, isbn string) (schema.Entry, error) {
	norm := ident.NormalizeISBN(isbn)
	data, ok, err := fetchOpenLibrary(ctx, norm)
	if err != nil {
		return schema.Entry{}, err
	}
	var e schema.Entry
	if ok {
		e = mapOpenLibraryToEntry(data, norm)
	} else {
		e, err = fetchGoogleBook(ctx, norm)
		if err != nil {
			return schema.Entry{}, err
		}
	}
	sanitize.CleanEntry(&e)
	e.ID = schema.NewID()
	if err := e.Validate(); err != nil {
		return schema.Entry{}, err
	}
	return e, nil
}

type olData struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	PublishDate string `json:"publish_date"`
	URL         string `json:"url"`
	Authors     []struct{ Name string } `json:"authors"`
	Publishers  []struct{ Name string } `json:"publishers"`
	Subjects    []struct{ Name string } `json:"subjects"`
}

func fetchOpenLibrary(ctx context.Context, norm string) (olData, bool, error) {
	q := url.Values{}
	q.Set("bibkeys", "ISBN:"+norm)
	q.Set("format", "json")
	q.Set("jscmd", "data")
	resp, err := get(ctx, baseURL+"?"+q.Encode())
	if err != nil {
		return olData{}, false, errors.Wrap(err, "openlibrary: request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return olData{}, false, errors.Newf("openlibrary: http %d: %s", resp.StatusCode, string(b))
	}
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return olData{}, false, errors.Wrap(err, "openlibrary: decode")
	}
	dataRaw, ok := raw["ISBN:"+norm]
	if !ok || len(dataRaw) == 0 {
		return olData{}, false, nil
	}
	var data olData
	if err := json.Unmarshal(dataRaw, &data); err != nil {
		return olData{}, false, errors.Wrap(err, "openlibrary: decode record")
	}
	return data, true, nil
}

func mapOpenLibraryToEntry(data olData, norm string) schema.Entry {
	e := schema.Entry{
		Type:     schema.TypeBook,
		Provider: Provider,
		Title:    data.Title,
		ISBN:     norm,
		URL:      data.URL,
	}
	if s := strings.TrimSpace(data.Subtitle); s != "" {
		e.Title += ": " + s
	}
	if len(data.Publishers) > 0 {
		e.Publisher = data.Publishers[0].Name
	}
	if y := dates.ExtractYear(data.PublishDate); y > 0 {
		e.Year = &y
	}
	for _, a := range data.Authors {
		fam, giv := names.Split(a.Name)
		e.Authors = append(e.Authors, schema.Author{Family: fam, Given: giv})
	}
	for _, s := range data.Subjects {
		e.Categories = append(e.Categories, s.Name)
	}
	return e
}

type gBooksResp struct {
	Items []struct {
		VolumeInfo gVolume `json:"volumeInfo"`
	} `json:"items"`
}

type gVolume struct {
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"publishedDate"`
	Description   string   `json:"description"`
	Categories    []string `json:"categories"`
	InfoLink      string   `json:"infoLink"`
}

// fetchGoogleBook queries Google Books for an ISBN and maps the first result.
func fetchGoogleBook(ctx context.Context, isbn string) (schema.Entry, error) {
	q := url.Values{}
	q.Set("q", "isbn:"+isbn)
	resp, err := get(ctx, googleURL+"?"+q.Encode())
	if err != nil {
		return schema.Entry{}, errors.Wrap(err, "googlebooks: request")
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return schema.Entry{}, errors.Wrapf(ErrNotFound, "ISBN %s", isbn)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return schema.Entry{}, errors.Newf("googlebooks: http %d: %s", resp.StatusCode, string(b))
	}
	var gb gBooksResp
	if err := json.NewDecoder(resp.Body).Decode(&gb); err != nil {
		return schema.Entry{}, errors.Wrap(err, "googlebooks: decode")
	}
	if len(gb.Items) == 0 {
		return schema.Entry{}, errors.Wrapf(ErrNotFound, "ISBN %s", isbn)
	}
	return mapGoogleBookToEntry(gb.Items[0].VolumeInfo, isbn), nil
}

func mapGoogleBookToEntry(v gVolume, isbn string) schema.Entry {
	e := schema.Entry{
		Type:       schema.TypeBook,
		Provider:   ProviderGoogle,
		Title:      v.Title,
		Publisher:  v.Publisher,
		ISBN:       isbn,
		URL:        v.InfoLink,
		Abstract:   stringsx.Collapse(v.Description),
		Categories: v.Categories,
	}
	if s := strings.TrimSpace(v.Subtitle); s != "" {
		e.Title += ": " + s
	}
	if y := dates.ExtractYear(v.PublishedDate); y > 0 {
		e.Year = &y
	}
	for _, a := range v.Authors {
		fam, giv := names.Split(a)
		e.Authors = append(e.Authors, schema.Author{Family: fam, Given: giv})
	}
	return e
}

func get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	httpx.SetJSON(req)
	httpx.SetUA(req)
	return client.Do(req)
}
