package domain

// Sampler throttles periodic sampling to one point per kind per minute.
// The throttle state lives on the value rather than in a package global
// so each tracking context owns its own; a Sampler is not safe for
// concurrent use.
type Sampler struct {
	last map[Kind]int64
}

func NewSampler() *Sampler {
	return &Sampler{last: make(map[Kind]int64)}
}

// Sample pushes value into snap unless the kind was sampled less than a
// minute ago. Forced calls and empty snapshots bypass the throttle. The
// bool reports whether a point was actually recorded: a sample deduped
// by the dead-band counts as not recorded and leaves the throttle stamp
// untouched.
func (s *Sampler) Sample(snap HistorySnapshot, kind Kind, value float64, ts int64, force bool) (HistorySnapshot, bool) {
	if s.last == nil {
		s.last = make(map[Kind]int64)
	}

	if !force && len(snap.Points) > 0 {
		if prev, ok := s.last[kind]; ok && ts-prev < sampleThrottleMs {
			return snap, false
		}
	}

	if !snap.accepts(value, ts, force) {
		return snap, false
	}

	s.last[kind] = ts

	return snap.PushPoint(value, ts, force), true
}
