package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-05-14T09:00:00Z")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.May, d.Month())
	assert.Equal(t, "2026-05-14", FormatDate(d))

	d, err = ParseDate("  ")
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.Equal(t, "", FormatDate(nil))

	_, err = ParseDate("14/05/2026")
	assert.Error(t, err)
}

func TestOrDefault(t *testing.T) {
	def := []string{"Default", "Topic"}
	got := OrDefault(nil, def)
	assert.Equal(t, def, got)

	got[0] = "changed"
	assert.Equal(t, "Default", def[0])

	assert.Equal(t, []string{"Go"}, OrDefault([]string{"Go"}, def))
}

func TestNewItemsNeverNull(t *testing.T) {
	assert.NotNil(t, NewItems[string](nil).Items)
}
