package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusGraph(t *testing.T) {
	allowed := map[[2]OrderStatus]bool{
		{StatusPending, StatusPaid}:         true,
		{StatusPending, StatusCanceled}:     true,
		{StatusPaid, StatusProcessing}:      true,
		{StatusProcessing, StatusCompleted}: true,
		{StatusProcessing, StatusFailed}:    true,
	}

	all := []OrderStatus{StatusPending, StatusPaid, StatusProcessing, StatusCompleted, StatusFailed, StatusCanceled}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]OrderStatus{from, to}]
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusPaid.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusCanceled.Terminal())
}

func TestPendingInputExpired(t *testing.T) {
	now := time.Now()
	p := &PendingInput{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, p.Expired(now))
	assert.True(t, p.Expired(now.Add(time.Minute)))
	assert.True(t, p.Expired(now.Add(2*time.Minute)))

	// Zero expiry means the store's TTL is the only limit.
	assert.False(t, (&PendingInput{}).Expired(now))
}
