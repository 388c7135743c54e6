// Package importsource queries a bibliographic lookup service for a single
// identifier, classifies the answer and hands successful records to a Mapper
// that turns them into deposition form fields.
package importsource

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"depositimport/src/internal/httpx"
)

// ErrInvalidConfiguration is returned by New when a required field is missing.
var ErrInvalidConfiguration = errors.New("importsource: improper initialization")

// ErrNoMapper is returned by RunGetData when a successful record has nowhere to go.
var ErrNoMapper = errors.New("importsource: no mapper configured")

// Mapping is the mapper-defined result handed back to the form layer.
type Mapping map[string]any

// Mapper maps a raw query record into form fields for a deposition type.
type Mapper interface {
	Map(query map[string]any, depositionType string) (Mapping, error)
}

// MapperFunc adapts a plain function to the Mapper interface.
type MapperFunc func(query map[string]any, depositionType string) (Mapping, error)

// Map calls f.
func (f MapperFunc) Map(query map[string]any, depositionType string) (Mapping, error) {
	return f(query, depositionType)
}

// Config carries the construction parameters of an ImportSource.
type Config struct {
	// ID is the internal source identifier (doi, arxiv, isbn). Required.
	ID string
	// Name is the user-facing label used inside status messages. Required.
	Name string
	// URL is the query base; the identifier is appended verbatim.
	URL string
	// Mapper receives the query object of successful lookups.
	Mapper Mapper
	// Client defaults to an http.Client with httpx.DefaultTimeout.
	Client httpx.Doer
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// ImportSource is one configured external source. It is never mutated after New.
type ImportSource struct {
	id     string
	name   string
	url    string
	mapper Mapper
	client httpx.Doer
	log    *zap.Logger
}

// New validates cfg and returns an ImportSource.
func New(cfg Config) (*ImportSource, error) {
	var missing []string
	if strings.TrimSpace(cfg.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(cfg.ID) == "" {
		missing = append(missing, "id")
	}
	if len(missing) > 0 {
		return nil, errors.WithHintf(
			errors.Wrapf(ErrInvalidConfiguration, "missing %s", strings.Join(missing, ", ")),
			"every import source needs both an id and a name")
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: httpx.DefaultTimeout}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &ImportSource{
		id:     cfg.ID,
		name:   cfg.Name,
		url:    cfg.URL,
		mapper: cfg.Mapper,
		client: client,
		log:    log.With(zap.String("source", cfg.ID)),
	}, nil
}

// ID returns the internal source identifier.
func (s *ImportSource) ID() string { return s.id }

// Name returns the label used in status messages.
func (s *ImportSource) Name() string { return s.name }

// URL returns the query base the identifier is appended to.
func (s *ImportSource) URL() string { return s.url }
