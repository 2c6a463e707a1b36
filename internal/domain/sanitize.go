package domain

import "math"

// RawResource is a resource document as decoded from storage, before any
// validation. Fields mirror the persisted JSON shape.
type RawResource struct {
	Base         float64  `json:"base"`
	Last         float64  `json:"last"`
	NextOverride *float64 `json:"nextOverride"`
}

// SanitizeResource coerces a possibly-malformed document into a valid
// ResourceState. Non-finite or missing fields fall back to defaults,
// base is clamped into [0, cap]. Total and idempotent: feeding the
// result back through changes nothing.
func SanitizeResource(raw RawResource, capVal int, defaults ResourceState) ResourceState {
	if capVal <= 0 {
		capVal = minCap
	}

	base := raw.Base
	if !isFinite(base) {
		base = float64(defaults.Base)
	}
	if base < 0 {
		base = 0
	}
	if base > float64(capVal) {
		base = float64(capVal)
	}

	st := ResourceState{Base: int(base)}

	switch {
	case !isFinite(raw.Last), raw.Last <= 0:
		st.Last = defaults.Last
	default:
		st.Last = int64(raw.Last)
	}

	switch {
	case raw.NextOverride == nil, !isFinite(deref(raw.NextOverride)):
		if defaults.NextOverride != nil {
			st.NextOverride = Anchor(*defaults.NextOverride)
		}
	default:
		st.NextOverride = Anchor(int64(*raw.NextOverride))
	}

	return st
}

// AsRaw converts a valid state back to its document form.
func (s ResourceState) AsRaw() RawResource {
	raw := RawResource{Base: float64(s.Base), Last: float64(s.Last)}
	if s.NextOverride != nil {
		v := float64(*s.NextOverride)
		raw.NextOverride = &v
	}

	return raw
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func deref(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}

	return *p
}
