package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitials(t *testing.T) {
	assert.Equal(t, "J. Q.", Initials("Jane Q"))
	assert.Equal(t, "J.-P.", Initials("Jean-Pierre"))
	assert.Equal(t, "", Initials("  "))
}

func TestSplit(t *testing.T) {
	cases := []struct {
		in, family, given string
	}{
		{"Doe, Jane Q", "Doe", "J. Q."},
		{"Jane Quimby Doe", "Doe", "J. Q."},
		{"Maldacena", "Maldacena", ""},
		{"ATLAS Collaboration", "ATLAS Collaboration", ""},
		{"  Juan   Martin  Maldacena ", "Maldacena", "J. M."},
		{"", "", ""},
	}
	for _, tc := range cases {
		fam, giv := Split(tc.in)
		assert.Equal(t, tc.family, fam, tc.in)
		assert.Equal(t, tc.given, giv, tc.in)
	}
}

func TestIsCollaboration(t *testing.T) {
	assert.True(t, IsCollaboration("The CMS Collaboration"))
	assert.True(t, IsCollaboration("Particle Data Group"))
	assert.False(t, IsCollaboration("Peter Higgs"))
}
