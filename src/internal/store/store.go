package store

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"depositimport/src/internal/ident"
	"depositimport/src/internal/schema"
)

// RecordsDir is the subdirectory of the store root holding record YAML files.
const RecordsDir = "records"

// Store is the local record database: one YAML file per record under
// <root>/records/<type>/<id>.yaml. It reads the disk on every call.
type Store struct {
	root string
	log  *zap.Logger
}

// New returns a Store rooted at dir. The directory is created on first write.
func New(dir string) *Store { return &Store{root: dir, log: zap.NewNop()} }

// WithLogger sets the logger reporting records skipped by FindByIdentifier.
func (s *Store) WithLogger(log *zap.Logger) *Store {
	if log != nil {
		s.log = log
	}
	return s
}

// Root returns the store directory.
func (s *Store) Root() string { return s.root }

// dirForType maps a record type to its subdirectory. Unknown types fall back to "record".
func dirForType(typ string) string {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case schema.TypeArticle:
		return "article"
	case schema.TypePreprint:
		return "preprint"
	case schema.TypeBook:
		return "books"
	case schema.TypeThesis:
		return "thesis"
	default:
		return "record"
	}
}

// entryPath returns the path of the YAML file for an entry.
func (s *Store) entryPath(e schema.Entry) string {
	return filepath.Join(s.root, RecordsDir, dirForType(e.Type), e.ID+".yaml")
}

// WriteEntry validates and writes the entry, assigning an id when missing.
func (s *Store) WriteEntry(e schema.Entry) (string, error) {
	if strings.TrimSpace(e.ID) == "" {
		e.ID = schema.NewID()
	}
	if err := e.Validate(); err != nil {
		return "", errors.Wrap(err, "store: invalid entry")
	}
	path := s.entryPath(e)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	buf, err := yaml.Marshal(e)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ReadAll loads and validates every record, sorted by id. The first
// unreadable or invalid file fails the whole read.
func (s *Store) ReadAll() ([]schema.Entry, error) {
	return s.load(func(_ string, err error) error { return err })
}

// readValid loads every record that decodes and validates, logging the
// files it skips.
func (s *Store) readValid() ([]schema.Entry, error) {
	return s.load(func(path string, err error) error {
		s.log.Warn("skipping record", zap.String("path", path), zap.Error(err))
		return nil
	})
}

// load walks the records directory. bad decides what a broken file means:
// a non-nil return aborts the walk with that error.
func (s *Store) load(bad func(path string, err error) error) ([]schema.Entry, error) {
	var entries []schema.Entry
	dir := filepath.Join(s.root, RecordsDir)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			return nil
		}
		e, err := readEntry(path)
		if err != nil {
			return bad(path, err)
		}
		entries = append(entries, e)
		return nil
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, err
}

func readEntry(path string) (schema.Entry, error) {
	var e schema.Entry
	data, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	if err := yaml.Unmarshal(data, &e); err != nil {
		return e, errors.Wrapf(err, "invalid YAML in %s", path)
	}
	if err := e.Validate(); err != nil {
		return e, errors.Wrapf(err, "invalid entry in %s", path)
	}
	return e, nil
}

// identifierOf returns the normalized identifier of kind carried by e, if any.
func identifierOf(e schema.Entry, kind string) string {
	var raw string
	switch kind {
	case ident.KindDOI:
		raw = e.DOI
	case ident.KindArXiv:
		raw = e.ArXivID
	case ident.KindISBN:
		raw = e.ISBN
	}
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return ident.Normalize(kind, raw)
}

// Index maps "<kind>:<normalized identifier>" to record ids.
func Index(entries []schema.Entry) map[string]string {
	index := map[string]string{}
	for _, e := range entries {
		for _, kind := range ident.Kinds {
			if v := identifierOf(e, kind); v != "" {
				index[kind+":"+v] = e.ID
			}
		}
	}
	return index
}

// FindByIdentifier returns the stored record carrying value as its kind identifier.
// DOIs compare case-insensitively, arXiv ids without version, ISBNs by digits.
// Broken record files are skipped so one bad file cannot hide the others.
func (s *Store) FindByIdentifier(kind, value string) (schema.Entry, bool, error) {
	want := ident.Normalize(kind, value)
	if want == "" {
		return schema.Entry{}, false, nil
	}
	entries, err := s.readValid()
	if err != nil {
		return schema.Entry{}, false, err
	}
	id, ok := Index(entries)[kind+":"+want]
	if !ok {
		return schema.Entry{}, false, nil
	}
	for _, e := range entries {
		if e.ID == id {
			return e, true, nil
		}
	}
	return schema.Entry{}, false, nil
}
