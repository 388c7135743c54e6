// Package app assembles configured components for the deposit-import binary.
package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"depositimport/src/internal/arxiv"
	"depositimport/src/internal/config"
	"depositimport/src/internal/doi"
	"depositimport/src/internal/httpx"
	"depositimport/src/internal/importsource"
	"depositimport/src/internal/logging"
	"depositimport/src/internal/lookup"
	"depositimport/src/internal/mapper"
	"depositimport/src/internal/openlibrary"
	"depositimport/src/internal/store"
)

// Runtime is the loaded configuration plus the logger built from it.
// Commands receive a *Runtime before flags are parsed and read it once
// Load has filled it in.
type Runtime struct {
	Config config.Config
	Log    *zap.Logger
}

// Load reads the configuration at path (empty for the default search) and
// builds the logger.
func (r *Runtime) Load(path string) error {
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	log, err := logging.New(c.Log.Level, c.Log.Format)
	if err != nil {
		return err
	}
	r.Config, r.Log = c, log
	return nil
}

func (r *Runtime) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// ImportSource builds the configured import source with id.
func (r *Runtime) ImportSource(id string) (*importsource.ImportSource, error) {
	sc, err := r.Config.Source(id)
	if err != nil {
		return nil, err
	}
	m, err := mapper.ForConfig(sc.ID, sc.Mapping)
	if err != nil {
		return nil, err
	}
	return importsource.New(importsource.Config{
		ID:     sc.ID,
		Name:   sc.Name,
		URL:    sc.URL,
		Mapper: m,
		Client: httpx.NewClient(r.Config.HTTP.Timeout),
		Logger: r.logger(),
	})
}

// Store opens the local record database.
func (r *Runtime) Store() *store.Store {
	return store.New(r.Config.Store.Dir).WithLogger(r.logger().Named("store"))
}

// ConfigureProviders points the provider fetchers at the configured
// endpoints with the configured timeout.
func (r *Runtime) ConfigureProviders() {
	c := httpx.NewClient(r.Config.HTTP.Timeout)
	p := r.Config.Providers
	doi.SetHTTPClient(c)
	if p.DOIURL != "" {
		doi.SetBaseURL(p.DOIURL)
	}
	arxiv.SetHTTPClient(c)
	if p.ArXivURL != "" {
		arxiv.SetBaseURL(p.ArXivURL)
	}
	openlibrary.SetHTTPClient(c)
	openlibrary.SetBaseURLs(p.OpenLibraryURL, p.GoogleBooksURL)
}

// LookupService returns the lookup service over the local store and the
// configured providers, with Prometheus metrics when server.metrics is set.
func (r *Runtime) LookupService() (*lookup.Service, error) {
	r.ConfigureProviders()
	svc := lookup.New(r.Store(), lookup.DefaultProviders(), r.logger().Named("lookup"))
	if !r.Config.Server.Metrics {
		return svc, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := svc.EnableMetrics(reg); err != nil {
		return nil, err
	}
	return svc, nil
}
