package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0ms"},
		{350 * time.Millisecond, "350ms"},
		{1200 * time.Millisecond, "1.2s"},
		{2*time.Minute + 5*time.Second, "2m 5s"},
		{time.Hour + 2*time.Second, "1h 0m 2s"},
		{72*time.Hour + 30*time.Minute + 15*time.Second, "3d 0h 30m 15s"},
		{-2 * time.Second, "2.0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", FormatTime(time.Time{}))

	ts := time.Date(2006, time.January, 2, 15, 4, 5, 0, time.Local)
	assert.Equal(t, "Mon Jan 2 15:04:05 2006", FormatTime(ts))
}
