package domain

import "math"

// BuildSeries reconstructs a continuous series covering exactly
// [domainStart, domainEnd] from sparse samples. Points outside the
// domain are dropped; synthetic boundary points are added so the result
// always has at least two entries: the start carries the first
// in-domain value (or currentValue when no sample survives), the end
// carries the last known value, snapped to currentValue when the two
// differ meaningfully. Both the wasted-at-cap integral and display
// surfaces consume this, so boundary policy lives here alone.
func BuildSeries(points []HistoryPoint, currentValue float64, domainStart, domainEnd int64) []HistoryPoint {
	if domainEnd < domainStart {
		domainEnd = domainStart
	}

	series := make([]HistoryPoint, 0, len(points)+2)
	for _, p := range points {
		if p.TS >= domainStart && p.TS <= domainEnd {
			series = append(series, p)
		}
	}

	if len(series) == 0 {
		return []HistoryPoint{
			{TS: domainStart, Value: currentValue},
			{TS: domainEnd, Value: currentValue},
		}
	}

	if series[0].TS > domainStart {
		lead := HistoryPoint{TS: domainStart, Value: series[0].Value}
		series = append([]HistoryPoint{lead}, series...)
	}

	endValue := series[len(series)-1].Value
	if math.Abs(currentValue-endValue) >= pointValueDeadBand {
		endValue = currentValue
	}
	if last := series[len(series)-1]; last.TS < domainEnd || len(series) == 1 {
		series = append(series, HistoryPoint{TS: domainEnd, Value: endValue})
	}

	return series
}
