package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYearFromDate(t *testing.T) {
	assert.Equal(t, 2020, YearFromDate("2020-05-01"))
	assert.Equal(t, 1999, YearFromDate("1999"))
	assert.Equal(t, 0, YearFromDate(""))
	assert.Equal(t, 0, YearFromDate("May 2020"))
}

func TestExtractYear(t *testing.T) {
	assert.Equal(t, 2008, ExtractYear("August 1, 2008"))
	assert.Equal(t, 1967, ExtractYear("c1967"))
	assert.Equal(t, 0, ExtractYear("no year"))
	assert.Equal(t, 0, ExtractYear("9999"))
}

func TestFromParts(t *testing.T) {
	y, d := FromParts([]int{2012, 9, 17})
	assert.Equal(t, 2012, y)
	assert.Equal(t, "2012-09-17", d)

	y, d = FromParts([]int{2012, 9})
	assert.Equal(t, 2012, y)
	assert.Equal(t, "2012-09-01", d)

	y, d = FromParts([]int{2012})
	assert.Equal(t, 2012, y)
	assert.Equal(t, "", d)

	y, d = FromParts(nil)
	assert.Equal(t, 0, y)
	assert.Equal(t, "", d)
}

func TestDateOnly(t *testing.T) {
	assert.Equal(t, "2012-07-31", DateOnly("2012-07-31T19:59:44Z"))
	assert.Equal(t, "2012-07-31", DateOnly("2012-07-31 garbage"))
	assert.Equal(t, "2012", DateOnly("2012"))
}
