package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSeriesNoSamples(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC).UnixMilli()
	end := start + 3_600_000

	series := BuildSeries(nil, 42, start, end)

	assert.Equal(t, []HistoryPoint{{TS: start, Value: 42}, {TS: end, Value: 42}}, series)
}

func TestBuildSeriesSyntheticBoundaries(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC).UnixMilli()
	end := start + 120_000
	points := []HistoryPoint{{TS: start + 60_000, Value: 80}}

	series := BuildSeries(points, 81, start, end)

	require.Len(t, series, 3)
	assert.Equal(t, HistoryPoint{TS: start, Value: 80}, series[0])
	assert.Equal(t, HistoryPoint{TS: start + 60_000, Value: 80}, series[1])
	assert.Equal(t, HistoryPoint{TS: end, Value: 81}, series[2])
}

func TestBuildSeriesEndValueWithinDeadBand(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC).UnixMilli()
	end := start + 120_000
	points := []HistoryPoint{{TS: start, Value: 80}}

	series := BuildSeries(points, 80.005, start, end)

	require.Len(t, series, 2)
	assert.Equal(t, float64(80), series[1].Value, "tiny drift keeps the last known value")
}

func TestBuildSeriesDropsOutOfDomainPoints(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC).UnixMilli()
	end := start + 60_000
	points := []HistoryPoint{
		{TS: start - 1, Value: 70},
		{TS: start, Value: 75},
		{TS: end + 1, Value: 99},
	}

	series := BuildSeries(points, 76, start, end)

	require.Len(t, series, 2)
	assert.Equal(t, HistoryPoint{TS: start, Value: 75}, series[0])
	assert.Equal(t, HistoryPoint{TS: end, Value: 76}, series[1])
}

func TestBuildSeriesAlwaysAtLeastTwoPoints(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC).UnixMilli()
	points := []HistoryPoint{{TS: ts, Value: 50}}

	series := BuildSeries(points, 50, ts, ts)

	assert.GreaterOrEqual(t, len(series), 2)
}

func TestBuildSeriesInvertedDomainCollapses(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC).UnixMilli()

	series := BuildSeries(nil, 10, ts, ts-5_000)

	require.Len(t, series, 2)
	assert.Equal(t, ts, series[0].TS)
	assert.Equal(t, ts, series[1].TS)
}
