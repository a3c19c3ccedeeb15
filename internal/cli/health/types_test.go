package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportPairs(t *testing.T) {
	now := time.Now()

	t.Run("Unavailable", func(t *testing.T) {
		r := NewReport("https://nas/api/v2.0", now)
		r.Error = "connection refused"

		assert.False(t, r.Available())
		pairs := r.Pairs()
		assert.Contains(t, pairs, [2]string{"Status", StatusUnavailable})
		assert.Contains(t, pairs, [2]string{"Error", "connection refused"})
		assert.NotContains(t, pairs, [2]string{"Shares", "0"})
	})

	t.Run("Available", func(t *testing.T) {
		r := NewReport("https://nas/api/v2.0", now)
		r.Status = StatusAvailable
		r.LatencyMs = 12
		r.Shares, r.AutoShares = 5, 3

		pairs := r.Pairs()
		assert.Contains(t, pairs, [2]string{"Latency", "12ms"})
		assert.Contains(t, pairs, [2]string{"Shares", "5"})
		assert.Contains(t, pairs, [2]string{"Managed shares", "3"})
	})
}
