package domain

const (
	// fallbackRateMs substitutes for invalid regen rates.
	fallbackRateMs = 60_000
	// minCap substitutes for invalid caps.
	minCap = 1
)

// ComputeCurrent derives the live value of a resource at now (Unix ms).
//
// With NextOverride unset, ticks accrue from Last on a grid of rateMs.
// With NextOverride set, ticks are counted on the fixed grid through the
// anchor instead, so the schedule survives spends and manual edits:
//
//	ticks = floor((now-anchor)/rate) - floor((last-anchor)/rate)
//
// Invalid inputs are coerced (rate <= 0 becomes one minute, cap <= 0
// becomes 1, last <= 0 becomes now) rather than rejected; persisted
// state may be hand-edited or stale.
func ComputeCurrent(st ResourceState, rateMs int64, capVal int, now int64) CurrentResource {
	if rateMs <= 0 {
		rateMs = fallbackRateMs
	}
	if capVal <= 0 {
		capVal = minCap
	}

	base := int64(st.Base)
	if base < 0 {
		base = 0
	}
	if base > int64(capVal) {
		base = int64(capVal)
	}

	last := st.Last
	if last <= 0 {
		last = now
	}

	var ticks, nextPoint int64
	if st.NextOverride != nil {
		anchor := *st.NextOverride
		ticks = floorDiv(now-anchor, rateMs) - floorDiv(last-anchor, rateMs)
		if ticks < 0 {
			ticks = 0
		}
		nextPoint = anchor + (floorDiv(now-anchor, rateMs)+1)*rateMs
	} else {
		ticks = floorDiv(now-last, rateMs)
		nextPoint = last + (ticks+1)*rateMs
	}

	value := base + ticks
	if value < 0 {
		value = 0
	}
	if value > int64(capVal) {
		value = int64(capVal)
	}

	fullAt := now
	if need := int64(capVal) - value; need > 0 {
		fullAt = now + (nextPoint - now) + (need-1)*rateMs
	}

	return CurrentResource{Value: int(value), NextPoint: nextPoint, FullAt: fullAt}
}

// Materialize folds accrued ticks into the persisted tuple: Base
// becomes the current value and Last moves to the most recent grid
// instant at or before now, so the tick schedule is unchanged in both
// anchored and unanchored mode. The anchor itself is preserved.
func Materialize(st ResourceState, rateMs int64, capVal int, now int64) (ResourceState, CurrentResource) {
	cur := ComputeCurrent(st, rateMs, capVal, now)

	if rateMs <= 0 {
		rateMs = fallbackRateMs
	}

	next := st
	next.Base = cur.Value
	next.Last = cur.NextPoint - rateMs

	return next, cur
}

// floorDiv divides rounding toward negative infinity. The anchored grid
// needs this because now-anchor is negative whenever the anchor sits in
// the future, and Go's integer division truncates toward zero.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return q
}
