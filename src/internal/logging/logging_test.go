package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	for _, tc := range []struct{ level, format string }{
		{"", ""},
		{"debug", "console"},
		{"WARN", "json"},
	} {
		log, err := New(tc.level, tc.format)
		require.NoError(t, err, tc)
		assert.NotNil(t, log)
	}

	log, err := New("debug", "json")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	log, err = New("", "")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
}

func TestNewRejects(t *testing.T) {
	_, err := New("loud", "")
	assert.Error(t, err)
	_, err = New("info", "xml")
	assert.Error(t, err)
}
