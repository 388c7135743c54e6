// Package config loads deposit-import settings from file, environment and
// defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"depositimport/src/internal/arxiv"
	"depositimport/src/internal/doi"
	"depositimport/src/internal/httpx"
	"depositimport/src/internal/ident"
	"depositimport/src/internal/logging"
	"depositimport/src/internal/openlibrary"
)

// Name is the config file base name; EnvPrefix prefixes environment overrides
// (DEPOSIT_IMPORT_LOG_LEVEL and so on).
const (
	Name      = "deposit-import"
	EnvPrefix = "DEPOSIT_IMPORT"
)

// ErrUnknownSource is returned by Config.Source for ids not configured.
var ErrUnknownSource = errors.New("config: unknown source")

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Server struct {
	Addr string `mapstructure:"addr"`
	// Metrics serves Prometheus metrics at /metrics.
	Metrics bool `mapstructure:"metrics"`
}

type Store struct {
	Dir string `mapstructure:"dir"`
}

type HTTP struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Providers are the upstream endpoints the lookup service fetches from.
type Providers struct {
	DOIURL         string `mapstructure:"doi_url"`
	ArXivURL       string `mapstructure:"arxiv_url"`
	OpenLibraryURL string `mapstructure:"openlibrary_url"`
	GoogleBooksURL string `mapstructure:"googlebooks_url"`
}

// Source describes one import source. Mapping optionally names a YAML rule
// file replacing the built-in rules for the source.
type Source struct {
	ID      string `mapstructure:"id" json:"id" yaml:"id"`
	Name    string `mapstructure:"name" json:"name" yaml:"name"`
	URL     string `mapstructure:"url" json:"url" yaml:"url"`
	Mapping string `mapstructure:"mapping" json:"mapping,omitempty" yaml:"mapping,omitempty"`
}

type Config struct {
	Log       Log       `mapstructure:"log"`
	Server    Server    `mapstructure:"server"`
	Store     Store     `mapstructure:"store"`
	HTTP      HTTP      `mapstructure:"http"`
	Providers Providers `mapstructure:"providers"`
	Sources   []Source  `mapstructure:"sources"`
}

const defaultAddr = "localhost:8080"

func defaultSources() []map[string]any {
	names := map[string]string{ident.KindDOI: "DOI", ident.KindArXiv: "arXiv", ident.KindISBN: "ISBN"}
	out := make([]map[string]any, 0, len(ident.Kinds))
	for _, k := range ident.Kinds {
		out = append(out, map[string]any{
			"id":   k,
			"name": names[k],
			"url":  "http://" + defaultAddr + "/api/import/" + k + "/",
		})
	}
	return out
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatConsole)
	v.SetDefault("server.addr", defaultAddr)
	v.SetDefault("server.metrics", true)
	v.SetDefault("store.dir", ".")
	v.SetDefault("http.timeout", httpx.DefaultTimeout)
	v.SetDefault("providers.doi_url", doi.DefaultBaseURL)
	v.SetDefault("providers.arxiv_url", arxiv.DefaultBaseURL)
	v.SetDefault("providers.openlibrary_url", openlibrary.DefaultBaseURL)
	v.SetDefault("providers.googlebooks_url", openlibrary.DefaultGoogleURL)
	v.SetDefault("sources", defaultSources())
}

// Load reads the configuration. An explicit path must exist; otherwise
// deposit-import.yaml is looked up in the working directory and in
// $HOME/.config/deposit-import, and a missing file leaves the defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return Config{}, errors.Wrap(err, "config: read")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "config: decode")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks what the components themselves do not: the log format,
// the timeout and that source ids are unique. Blank source ids and names are
// reported when the source is built.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return errors.Newf("config: log.format must be %s or %s, got %q", logging.FormatConsole, logging.FormatJSON, c.Log.Format)
	}
	if c.HTTP.Timeout <= 0 {
		return errors.Newf("config: http.timeout must be positive, got %s", c.HTTP.Timeout)
	}
	seen := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		if s.ID != "" && seen[s.ID] {
			return errors.Newf("config: duplicate source id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// Source returns the source with the given id.
func (c Config) Source(id string) (Source, error) {
	for _, s := range c.Sources {
		if s.ID == id {
			return s, nil
		}
	}
	return Source{}, errors.WithHint(errors.Wrapf(ErrUnknownSource, "%q", id), "list configured sources with `deposit-import sources`")
}
