package domain

type Kind string

const (
	KindTP Kind = "tp"
	KindRP Kind = "rp"
)

// Kinds returns the known resource kinds in display order.
func Kinds() []Kind {
	return []Kind{KindTP, KindRP}
}

func (k Kind) Valid() bool {
	switch k {
	case KindTP, KindRP:
		return true
	default:
		return false
	}
}

func (k Kind) Label() string {
	switch k {
	case KindTP:
		return "TP"
	case KindRP:
		return "RP"
	default:
		return string(k)
	}
}

// ResourceState is the persisted regen tuple for one resource kind.
// NextOverride, when set, anchors the regen grid to a fixed instant
// so that spends and manual edits cannot shift tick timing.
type ResourceState struct {
	Base         int    `json:"base"`
	Last         int64  `json:"last"`
	NextOverride *int64 `json:"nextOverride,omitempty"`
}

// ResourceSpec holds the per-kind regen constants.
type ResourceSpec struct {
	RateMs int64
	Cap    int
}

// CurrentResource is the live view derived from a ResourceState at a
// given instant. Never persisted.
type CurrentResource struct {
	Value     int   `json:"value"`
	NextPoint int64 `json:"nextPoint"`
	FullAt    int64 `json:"fullAt"`
}

// DefaultSpecs returns the built-in regen constants: TP fills one point
// every ten minutes up to 100, RP one every two hours up to 5.
func DefaultSpecs() map[Kind]ResourceSpec {
	return map[Kind]ResourceSpec{
		KindTP: {RateMs: 600_000, Cap: 100},
		KindRP: {RateMs: 7_200_000, Cap: 5},
	}
}

// FirstRunState is the state materialized when no document exists yet:
// a full resource as of now.
func FirstRunState(spec ResourceSpec, now int64) ResourceState {
	capVal := spec.Cap
	if capVal <= 0 {
		capVal = minCap
	}

	return ResourceState{Base: capVal, Last: now}
}

// Anchor returns a copy of ts suitable for ResourceState.NextOverride.
func Anchor(ts int64) *int64 {
	return &ts
}
