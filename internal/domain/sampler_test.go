package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplerThrottlesPerKind(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC).UnixMilli()
	s := NewSampler()

	snap, ok := s.Sample(HistorySnapshot{}, KindTP, 100, t0, false)
	require.True(t, ok)
	require.Len(t, snap.Points, 1)

	snap, ok = s.Sample(snap, KindTP, 99, t0+30_000, false)
	assert.False(t, ok)
	assert.Len(t, snap.Points, 1)

	snap, ok = s.Sample(snap, KindTP, 99, t0+60_000, false)
	assert.True(t, ok)
	assert.Len(t, snap.Points, 2)

	rpSnap := HistorySnapshot{Points: []HistoryPoint{{TS: t0 - 90_000, Value: 5}}}
	rpSnap, ok = s.Sample(rpSnap, KindRP, 4, t0+30_000, false)
	assert.True(t, ok, "kinds throttle independently")
	assert.Len(t, rpSnap.Points, 2)

	_, ok = s.Sample(rpSnap, KindRP, 4, t0+45_000, false)
	assert.False(t, ok)
}

func TestSamplerForceBypassesThrottle(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC).UnixMilli()
	s := NewSampler()

	snap, _ := s.Sample(HistorySnapshot{}, KindTP, 100, t0, false)
	snap, ok := s.Sample(snap, KindTP, 70, t0+1_000, true)

	require.True(t, ok)
	assert.Len(t, snap.Points, 2)
}

func TestSamplerDedupedPushNotRecorded(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC).UnixMilli()
	s := NewSampler()

	// A forced push outside the sampler, as the spend path does.
	snap := HistorySnapshot{}.PushPoint(50, t0, true)

	// Within the dead-band of that point: not recorded, stamp untouched.
	snap, ok := s.Sample(snap, KindTP, 50, t0+10_000, false)
	assert.False(t, ok)
	assert.Len(t, snap.Points, 1)

	snap, ok = s.Sample(snap, KindTP, 50, t0+20_000, false)
	assert.True(t, ok, "throttle must not have advanced on the deduped push")
	assert.Len(t, snap.Points, 2)
}

func TestSamplerEmptySnapshotBypassesThrottle(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC).UnixMilli()
	s := NewSampler()

	first, ok := s.Sample(HistorySnapshot{}, KindTP, 100, t0, false)
	require.True(t, ok)
	require.Len(t, first.Points, 1)

	// History wiped externally: the throttle must not block repopulation.
	again, ok := s.Sample(HistorySnapshot{}, KindTP, 100, t0+5_000, false)
	assert.True(t, ok)
	assert.Len(t, again.Points, 1)
}
