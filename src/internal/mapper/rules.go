package mapper

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Deposition types the built-in rules distinguish.
const (
	TypeArticle     = "article"
	TypeThesis      = "thesis"
	TypeProceedings = "proceedings"
	TypeBook        = "book"
	TypeChapter     = "chapter"
)

var commonRules = []Rule{
	{From: "title", To: "title", Transform: "trim"},
	{From: "authors", To: "authors", Transform: "authors"},
	{From: "abstract", To: "abstract"},
}

// DOIRules map Crossref-backed records.
var DOIRules = append(append([]Rule(nil), commonRules...),
	Rule{From: "doi", To: "doi"},
	Rule{From: "arxiv_id", To: "arxiv_id"},
	Rule{From: "journal", To: "journal_title", Types: []string{TypeArticle, TypeChapter}},
	Rule{From: "volume", To: "volume", Types: []string{TypeArticle, TypeChapter}},
	Rule{From: "issue", To: "issue", Types: []string{TypeArticle}},
	Rule{From: "pages", To: "page_range_article_id", Types: []string{TypeArticle, TypeChapter, TypeProceedings}},
	Rule{From: "journal", To: "series_title", Types: []string{TypeProceedings}},
	Rule{From: "year", To: "year", Transform: "year"},
	Rule{From: "date", To: "defense_date", Types: []string{TypeThesis}},
	Rule{From: "publisher", To: "publisher_name", Types: []string{TypeBook, TypeChapter, TypeProceedings}},
	Rule{From: "publisher", To: "institution", Types: []string{TypeThesis}},
	Rule{From: "isbn", To: "isbn", Types: []string{TypeBook, TypeChapter, TypeProceedings}},
)

// ArXivRules map arXiv-backed records.
var ArXivRules = append(append([]Rule(nil), commonRules...),
	Rule{From: "arxiv_id", To: "arxiv_id"},
	Rule{From: "doi", To: "doi"},
	Rule{From: "categories", To: "categories", Transform: "join"},
	Rule{From: "journal", To: "journal_title", Types: []string{TypeArticle}},
	Rule{From: "date", To: "preprint_created"},
	Rule{From: "year", To: "year", Transform: "year"},
)

// ISBNRules map book records.
var ISBNRules = append(append([]Rule(nil), commonRules...),
	Rule{From: "isbn", To: "isbn"},
	Rule{From: "publisher", To: "publisher_name"},
	Rule{From: "year", To: "year", Transform: "year"},
	Rule{From: "categories", To: "subject_terms", Transform: "join"},
	Rule{From: "title", To: "book_title", Types: []string{TypeChapter}, Transform: "trim"},
)

// ForSource returns the built-in rules for a source id (doi, arxiv, isbn).
func ForSource(id string) ([]Rule, bool) {
	switch id {
	case "doi":
		return DOIRules, true
	case "arxiv":
		return ArXivRules, true
	case "isbn":
		return ISBNRules, true
	}
	return nil, false
}

// ruleFile is the YAML layout of a mapping file.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

//go:embed rules.schema.json
var rulesSchemaDoc []byte

const rulesSchemaURL = "https://inspirehep.net/schemas/deposit-import/rules.json"

var (
	rulesSchemaOnce sync.Once
	rulesSchema     *jsonschema.Schema
	rulesSchemaErr  error
)

func compiledRulesSchema() (*jsonschema.Schema, error) {
	rulesSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(rulesSchemaDoc))
		if err != nil {
			rulesSchemaErr = errors.Wrap(err, "mapper: parse rules schema")
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(rulesSchemaURL, doc); err != nil {
			rulesSchemaErr = errors.Wrap(err, "mapper: add rules schema")
			return
		}
		rulesSchema, rulesSchemaErr = c.Compile(rulesSchemaURL)
	})
	return rulesSchema, rulesSchemaErr
}

// validateRules checks a decoded YAML document against the rules schema.
// The document goes through JSON so the validator sees JSON types only.
func validateRules(doc any) error {
	sch, err := compiledRulesSchema()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "mapper: mapping document is not JSON-compatible")
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, "mapper: mapping document is not JSON-compatible")
	}
	if err := sch.Validate(inst); err != nil {
		return errors.Wrap(err, "mapper: invalid mapping document")
	}
	return nil
}

// LoadRules reads a YAML mapping document: a top-level "rules" list checked
// against rules.schema.json.
func LoadRules(r io.Reader) ([]Rule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "mapper: read rules")
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "mapper: decode rules")
	}
	if doc == nil {
		return nil, errors.New("mapper: empty mapping document")
	}
	if err := validateRules(doc); err != nil {
		return nil, err
	}
	var f ruleFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "mapper: decode rules")
	}
	return f.Rules, nil
}

// LoadRulesFile reads rules from a YAML file.
func LoadRulesFile(path string) ([]Rule, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	rules, err := LoadRules(fh)
	if err != nil {
		return nil, errors.Wrapf(err, "mapping file %s", path)
	}
	return rules, nil
}

// ForConfig builds the mapper of a configured source: rules from mappingFile
// when set, otherwise the built-in rules of the source id.
func ForConfig(sourceID, mappingFile string) (*FieldMapper, error) {
	if mappingFile != "" {
		rules, err := LoadRulesFile(mappingFile)
		if err != nil {
			return nil, err
		}
		return New(rules)
	}
	rules, ok := ForSource(sourceID)
	if !ok {
		return nil, errors.WithHintf(errors.Newf("mapper: no built-in rules for source %q", sourceID),
			"set a mapping file for source %q", sourceID)
	}
	return New(rules)
}
