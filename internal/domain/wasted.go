package domain

import "math"

// WastedInfo reports time a resource sat pinned at cap: regeneration the
// player failed to spend.
type WastedInfo struct {
	Ms     int64   `json:"ms"`
	Points float64 `json:"points"`
}

// ComputeWastedAtCap integrates time spent at or above cap across the
// trailing window. The window is [now-retentionMs, now], narrowed by
// resetAnchor when set; within it, accounting starts at the earliest
// retained sample, never earlier, so waste is only ever claimed where
// evidence exists. No samples in the window means zero. Segments
// crossing the cap are split by linear interpolation.
//
// The result is never negative, non-decreasing while the value stays
// pinned as now advances, and free of jumps across a spend boundary
// (the spend path records the pre-spend value first, which closes the
// pinned segment exactly at the mutation instant).
func ComputeWastedAtCap(points []HistoryPoint, currentValue float64, capVal int, rateMs, retentionMs, now int64, resetAnchor *int64) WastedInfo {
	if rateMs <= 0 || capVal <= 0 {
		return WastedInfo{}
	}

	domainEnd := now
	domainStart := now - retentionMs
	if resetAnchor != nil && *resetAnchor > domainStart {
		domainStart = *resetAnchor
	}
	if domainStart > domainEnd {
		domainStart = domainEnd
	}

	effectiveStart := domainEnd
	for _, p := range points {
		if p.TS >= domainStart && p.TS <= domainEnd {
			effectiveStart = p.TS
			break
		}
	}

	series := BuildSeries(points, currentValue, effectiveStart, domainEnd)
	capF := float64(capVal)

	var wasted float64
	for i := 0; i+1 < len(series); i++ {
		a, b := series[i], series[i+1]
		segStart := maxInt64(a.TS, effectiveStart)
		segEnd := minInt64(b.TS, domainEnd)
		if segEnd <= segStart {
			continue
		}

		switch {
		case a.Value >= capF && b.Value >= capF:
			wasted += float64(segEnd - segStart)
		case a.Value < capF && b.Value >= capF:
			slope := (b.Value - a.Value) / float64(b.TS-a.TS)
			hit := float64(a.TS) + (capF-a.Value)/slope
			if from := math.Max(hit, float64(segStart)); float64(segEnd) > from {
				wasted += float64(segEnd) - from
			}
		}
	}

	if wasted < 0 {
		wasted = 0
	}

	return WastedInfo{
		Ms:     int64(math.Round(wasted)),
		Points: wasted / float64(rateMs),
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}

	return b
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}

	return b
}
