package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDailyResetAlwaysFuture(t *testing.T) {
	t.Parallel()

	zones := []string{"UTC", "America/New_York", "Asia/Tokyo", "", "Not/AZone"}
	instants := []time.Time{
		time.Date(2026, 2, 14, 3, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 14, 23, 59, 59, 0, time.UTC),
		time.Date(2026, 6, 30, 15, 0, 0, 0, time.UTC),
	}

	for _, tz := range zones {
		for _, at := range instants {
			now := at.UnixMilli()
			got := NextDailyReset(now, tz)
			require.Greater(t, got, now, "tz=%q now=%s", tz, at)
			require.LessOrEqual(t, got-now, int64(24*60*60*1000), "tz=%q now=%s", tz, at)
		}
	}
}

func TestNextDailyResetUTC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before ten same day",
			now:  time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC),
			want: time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly ten rolls to next day",
			now:  time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC),
			want: time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "after ten next day",
			now:  time.Date(2026, 2, 14, 18, 30, 0, 0, time.UTC),
			want: time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want.UnixMilli(), NextDailyReset(tc.now.UnixMilli(), "UTC"))
		})
	}
}

func TestNextDailyResetFallbackOffset(t *testing.T) {
	t.Parallel()

	// 12:00 UTC is 07:00 at the fallback UTC-5, so the reset lands at
	// 10:00-05:00 the same day.
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	want := time.Date(2026, 2, 14, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, want.UnixMilli(), NextDailyReset(now.UnixMilli(), "Not/AZone"))
	assert.Equal(t, want.UnixMilli(), NextDailyReset(now.UnixMilli(), ""))
}
