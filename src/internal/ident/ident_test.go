package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDOI(t *testing.T) {
	assert.Equal(t, "10.1103/PhysRevLett.19.1264", ExtractDOI("see https://doi.org/10.1103/PhysRevLett.19.1264 for details"))
	assert.Equal(t, "", ExtractDOI("no doi here"))
	assert.Equal(t, "", ExtractDOI("  "))
}

func TestNormalizeDOI(t *testing.T) {
	cases := map[string]string{
		"10.1103/PhysRevLett.19.1264":                     "10.1103/physrevlett.19.1264",
		"doi:10.1016/j.physletb.2012.08.020":              "10.1016/j.physletb.2012.08.020",
		" https://doi.org/10.1016/J.PHYSLETB.2012.08.020": "10.1016/j.physletb.2012.08.020",
		"http://dx.doi.org/10.1/x":                        "10.1/x",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeDOI(in), in)
	}
}

func TestValidDOI(t *testing.T) {
	assert.True(t, ValidDOI("10.1103/PhysRevLett.19.1264"))
	assert.True(t, ValidDOI("doi:10.1016/j.physletb.2012.08.020"))
	assert.False(t, ValidDOI("10.1/xyz"))
	assert.False(t, ValidDOI("11.1234/abc"))
	assert.False(t, ValidDOI("10.1234/with space"))
	assert.False(t, ValidDOI(""))
}

func TestArXiv(t *testing.T) {
	for _, ok := range []string{"1207.7214", "1207.7214v2", "arXiv:2106.15928", "hep-th/9711200", "math.GT/0309136v1"} {
		assert.True(t, ValidArXivID(ok), ok)
	}
	for _, bad := range []string{"", "1207", "12077.214", "hep-th/97112", "foo bar"} {
		assert.False(t, ValidArXivID(bad), bad)
	}
	assert.Equal(t, "1207.7214", NormalizeArXivID("arXiv:1207.7214v3"))
	assert.Equal(t, "hep-th/9711200", NormalizeArXivID("HEP-TH/9711200v1"))
}

func TestISBN(t *testing.T) {
	assert.Equal(t, "9780132350884", NormalizeISBN("978-0-13-235088-4"))
	assert.Equal(t, "0306406152", NormalizeISBN("030640615"))
	assert.Equal(t, "080442957X", NormalizeISBN("0-8044-2957-x"))

	for _, ok := range []string{"978-0-13-235088-4", "0306406152", "080442957X", "9780306406157"} {
		assert.True(t, ValidISBN(ok), ok)
	}
	for _, bad := range []string{"9780132350885", "0306406153", "12345", "", "97801323508X4", "123456789", "030640615", "0-306-40615"} {
		assert.False(t, ValidISBN(bad), bad)
	}
}

func TestDispatch(t *testing.T) {
	assert.True(t, Valid(KindDOI, "10.1234/abc"))
	assert.True(t, Valid(KindArXiv, "1207.7214"))
	assert.True(t, Valid(KindISBN, "0306406152"))
	assert.False(t, Valid("orcid", "0000-0002-1825-0097"))

	assert.Equal(t, "10.1234/abc", Normalize(KindDOI, "DOI:10.1234/ABC"))
	assert.Equal(t, "1207.7214", Normalize(KindArXiv, "1207.7214v1"))
	assert.Equal(t, "0306406152", Normalize(KindISBN, "0-306-40615-2"))
	assert.Equal(t, "x", Normalize("other", " x "))

	assert.True(t, Known(KindISBN))
	assert.False(t, Known("orcid"))
}
