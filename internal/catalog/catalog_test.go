package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrices(t *testing.T) {
	for _, svc := range Sessions() {
		assert.Equalf(t, int64(99900), svc.Price, "session pack %s", svc.Type)
		assert.False(t, svc.NeedsInput)
	}

	ready, ok := Get(ReadyPhoto)
	require.True(t, ok)
	assert.Equal(t, int64(49900), ready.Price)
	assert.False(t, ready.NeedsInput)

	edit, ok := Get(CustomEdit)
	require.True(t, ok)
	assert.Equal(t, int64(149900), edit.Price)
	assert.True(t, edit.NeedsInput)

	unique, ok := Get(CustomUnique)
	require.True(t, ok)
	assert.Equal(t, int64(1000), unique.Price)
	assert.True(t, unique.NeedsInput)
}

func TestGetUnknown(t *testing.T) {
	_, ok := Get("no_such_service")
	assert.False(t, ok)
}

func TestSessionsOrderStable(t *testing.T) {
	sessions := Sessions()
	require.Len(t, sessions, 7)
	assert.Equal(t, SessionPregnancy, sessions[0].Type)
	assert.Equal(t, SessionPortrait, sessions[6].Type)
}
