package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depositimport/src/internal/doi"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "deposit-import.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "console", c.Log.Format)
	assert.Equal(t, "localhost:8080", c.Server.Addr)
	assert.True(t, c.Server.Metrics)
	assert.Equal(t, 10*time.Second, c.HTTP.Timeout)
	assert.Equal(t, doi.DefaultBaseURL, c.Providers.DOIURL)
	require.Len(t, c.Sources, 3)
	assert.Equal(t, Source{ID: "doi", Name: "DOI", URL: "http://localhost:8080/api/import/doi/"}, c.Sources[0])
	assert.Equal(t, "arxiv", c.Sources[1].ID)
	assert.Equal(t, "isbn", c.Sources[2].ID)
}

func TestLoadFile(t *testing.T) {
	p := writeFile(t, `
log:
  level: debug
  format: json
http:
  timeout: 3s
store:
  dir: /var/lib/records
sources:
  - id: doi
    name: DOI
    url: https://inspirehep.net/api/import/doi/
    mapping: doi-rules.yaml
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, 3*time.Second, c.HTTP.Timeout)
	assert.Equal(t, "/var/lib/records", c.Store.Dir)
	require.Len(t, c.Sources, 1)
	assert.Equal(t, "doi-rules.yaml", c.Sources[0].Mapping)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DEPOSIT_IMPORT_SERVER_ADDR", ":9090")
	t.Setenv("DEPOSIT_IMPORT_LOG_LEVEL", "warn")
	c, err := Load(writeFile(t, "log:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, "warn", c.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "log:\n  format: xml\n"))
	assert.ErrorContains(t, err, "log.format")

	_, err = Load(writeFile(t, "sources:\n  - {id: a, name: A}\n  - {id: a, name: B}\n"))
	assert.ErrorContains(t, err, "duplicate source id")

	_, err = Load(writeFile(t, "http:\n  timeout: 0s\n"))
	assert.ErrorContains(t, err, "http.timeout")
}

func TestSource(t *testing.T) {
	c := Config{Sources: []Source{{ID: "doi", Name: "DOI"}}}
	s, err := c.Source("doi")
	require.NoError(t, err)
	assert.Equal(t, "DOI", s.Name)

	_, err = c.Source("isbn")
	assert.ErrorIs(t, err, ErrUnknownSource)
}
