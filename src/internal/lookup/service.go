// Package lookup is the server side of an import: it resolves an identifier
// against the local record store first and an external provider second, and
// answers in the shape import sources expect.
package lookup

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"depositimport/src/internal/arxiv"
	"depositimport/src/internal/doi"
	"depositimport/src/internal/ident"
	"depositimport/src/internal/importsource"
	"depositimport/src/internal/openlibrary"
	"depositimport/src/internal/schema"
)

// ErrUnknownKind is returned for identifier kinds without a provider.
var ErrUnknownKind = errors.New("lookup: unknown identifier kind")

// Finder looks records up in the local database.
type Finder interface {
	FindByIdentifier(kind, value string) (schema.Entry, bool, error)
}

// Provider fetches records of one identifier kind from an external service.
type Provider struct {
	// Fetch resolves an identifier to a record.
	Fetch func(ctx context.Context, value string) (schema.Entry, error)
	// NotFound is the sentinel Fetch wraps when the identifier is unknown.
	NotFound error
}

// Query is the "query" object of a response: a status plus the record fields.
type Query struct {
	Status string `json:"status"`
	*schema.Entry
}

// Response is the body served for a lookup.
type Response struct {
	Query  *Query `json:"query,omitempty"`
	Source string `json:"source,omitempty"`
}

// Service resolves identifiers. It holds no per-request state.
type Service struct {
	store     Finder
	providers map[string]Provider
	log       *zap.Logger
	metrics   *metrics
}

// New returns a Service over store and providers keyed by identifier kind.
func New(store Finder, providers map[string]Provider, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, providers: providers, log: log}
}

// DefaultProviders wires the Crossref, arXiv and OpenLibrary fetchers.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		ident.KindDOI:   {Fetch: doi.FetchRecord, NotFound: doi.ErrNotFound},
		ident.KindArXiv: {Fetch: arxiv.FetchRecord, NotFound: arxiv.ErrNotFound},
		ident.KindISBN:  {Fetch: openlibrary.FetchRecord, NotFound: openlibrary.ErrNotFound},
	}
}

func status(s string) Response { return Response{Query: &Query{Status: s}} }

// Lookup resolves value as an identifier of kind. Malformed and unknown
// identifiers are normal responses; errors mean the provider itself failed.
func (s *Service) Lookup(ctx context.Context, kind, value string) (Response, error) {
	p, ok := s.providers[kind]
	if !ok {
		return Response{}, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	resp, result, err := s.resolve(ctx, p, kind, value)
	s.metrics.countLookup(kind, result)
	return resp, err
}

func (s *Service) resolve(ctx context.Context, p Provider, kind, value string) (Response, string, error) {
	if !ident.Valid(kind, value) {
		return status(importsource.StatusMalformed), resultMalformed, nil
	}
	if s.store != nil {
		e, found, err := s.store.FindByIdentifier(kind, value)
		if err != nil {
			return Response{}, resultError, errors.Wrap(err, "lookup: local store")
		}
		if found {
			s.log.Debug("found locally", zap.String("kind", kind), zap.String("value", value), zap.String("id", e.ID))
			return Response{Query: &Query{Status: importsource.StatusSuccess, Entry: &e}, Source: importsource.SourceDatabase}, resultDatabase, nil
		}
	}
	e, err := p.Fetch(ctx, ident.Normalize(kind, value))
	if err != nil {
		if p.NotFound != nil && errors.Is(err, p.NotFound) {
			return status(importsource.StatusNotFound), resultNotFound, nil
		}
		return Response{}, resultError, errors.Wrapf(err, "lookup: %s %s", kind, value)
	}
	return Response{Query: &Query{Status: importsource.StatusSuccess, Entry: &e}, Source: e.Provider}, resultFetched, nil
}
