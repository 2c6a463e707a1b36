package ports

import "time"

// Clock abstracts wall-clock access so services stay deterministic in
// tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
