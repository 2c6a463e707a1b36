package application

import "github.com/TwilightLilyy/umatrack/internal/domain"

// watcher remembers the previous poll so Tick can detect edges: value
// changes (forces a history sample) and the scheduled daily reset
// falling between two polls. One watcher per Service; guarded by the
// Service mutex.
type watcher struct {
	prevValue map[domain.Kind]int
	prevNow   int64
}

func newWatcher() *watcher {
	return &watcher{prevValue: make(map[domain.Kind]int)}
}

// observe records value for kind and returns the previous observation.
func (w *watcher) observe(kind domain.Kind, value int) (int, bool) {
	prev, ok := w.prevValue[kind]
	w.prevValue[kind] = value

	return prev, ok
}

// dailyResetCrossed reports whether the reset instant scheduled as of
// the previous poll falls within (prevNow, now]. The first poll only
// primes the window.
func (w *watcher) dailyResetCrossed(now int64, tz string) bool {
	prev := w.prevNow
	w.prevNow = now

	if prev <= 0 {
		return false
	}

	return domain.NextDailyReset(prev, tz) <= now
}

// edgeNotices returns notifications for boundaries crossed upward since
// the previous observation: configured threshold and cap.
func edgeNotices(kind domain.Kind, prev, value, capVal, threshold int, onFull bool, now int64) []domain.Notification {
	var notices []domain.Notification

	if threshold > 0 && prev < threshold && value >= threshold {
		notices = append(notices, domain.Notification{
			Kind:      kind,
			Reason:    domain.NotifyThreshold,
			Value:     value,
			Threshold: threshold,
			TS:        now,
		})
	}

	if onFull && capVal > 0 && prev < capVal && value >= capVal {
		notices = append(notices, domain.Notification{
			Kind:   kind,
			Reason: domain.NotifyFull,
			Value:  value,
			TS:     now,
		})
	}

	return notices
}
