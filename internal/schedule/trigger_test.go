package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextAMSATTrigger(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "minute 50 rolls to next hour",
			now:  time.Date(2026, 7, 30, 14, 50, 12, 0, time.UTC),
			want: time.Date(2026, 7, 30, 15, 2, 0, 0, time.UTC),
		},
		{
			name: "minute 0 advances to 02 same hour",
			now:  time.Date(2026, 7, 30, 14, 0, 0, 0, time.UTC),
			want: time.Date(2026, 7, 30, 14, 2, 0, 0, time.UTC),
		},
		{
			name: "minute 10 advances to 17",
			now:  time.Date(2026, 7, 30, 14, 10, 0, 0, time.UTC),
			want: time.Date(2026, 7, 30, 14, 17, 0, 0, time.UTC),
		},
		{
			name: "hour 23 wraps to 00",
			now:  time.Date(2026, 7, 30, 23, 50, 0, 0, time.UTC),
			want: time.Date(2026, 7, 31, 0, 2, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.want.Equal(NextAMSATTrigger(tc.now)))
		})
	}
}

func TestNextImageGCTrigger(t *testing.T) {
	before := time.Date(2026, 7, 30, 1, 0, 0, 0, time.UTC)
	assert.True(t, NextImageGCTrigger(before).Equal(time.Date(2026, 7, 30, 3, 0, 0, 0, time.UTC)))

	after := time.Date(2026, 7, 30, 10, 0, 0, 0, time.UTC)
	assert.True(t, NextImageGCTrigger(after).Equal(time.Date(2026, 7, 31, 3, 0, 0, 0, time.UTC)))
}

func TestNextFixedTrigger(t *testing.T) {
	now := time.Date(2026, 7, 30, 10, 0, 0, 0, time.UTC)
	assert.True(t, NextFixedTrigger(now, 10*time.Minute).Equal(now.Add(10*time.Minute)))
}
