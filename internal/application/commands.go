package application

import "github.com/TwilightLilyy/umatrack/internal/domain"

// SpendCommand records a deliberate resource spend.
type SpendCommand struct {
	Kind   domain.Kind
	Amount int
	Note   string
}

// SetValueCommand overwrites the current value with a manual reading.
type SetValueCommand struct {
	Kind  domain.Kind
	Value int
}

// ScheduleCommand anchors the regen grid so the next tick lands In from
// now, or clears the anchor entirely.
type ScheduleCommand struct {
	Kind  domain.Kind
	In    string
	Clear bool
}
