package domain

import (
	"crypto/rand"
	"math"
	"sort"
	"strconv"

	"github.com/oklog/ulid/v2"
)

type EventType string

const (
	EventSpend  EventType = "spend"
	EventManual EventType = "manual"
	EventReset  EventType = "reset"
)

func (t EventType) Valid() bool {
	switch t {
	case EventSpend, EventManual, EventReset:
		return true
	default:
		return false
	}
}

const (
	// HistoryRetentionMs is the trailing window kept on every mutation.
	HistoryRetentionMs = int64(24 * 60 * 60 * 1000)

	maxEntries         = 2000
	pointMinGapMs      = 15_000
	pointValueDeadBand = 0.01
	sampleThrottleMs   = 60_000
)

// HistoryPoint is a periodic value sample.
type HistoryPoint struct {
	TS    int64   `json:"ts"`
	Value float64 `json:"value"`
}

// HistoryEvent is a discrete mutation record. Events are never deduped.
type HistoryEvent struct {
	ID    string    `json:"id"`
	TS    int64     `json:"ts"`
	Kind  Kind      `json:"kind"`
	Type  EventType `json:"type"`
	Value float64   `json:"value"`
	Delta float64   `json:"delta,omitempty"`
	Note  string    `json:"note,omitempty"`
}

// HistorySnapshot holds one resource's bounded history, both lists
// ordered by timestamp. Mutation helpers are copy-on-write: they never
// modify the receiver's slices, callers replace the whole snapshot with
// the returned value.
type HistorySnapshot struct {
	Points []HistoryPoint `json:"points"`
	Events []HistoryEvent `json:"events"`
}

// EventMeta carries the optional fields of a new event.
type EventMeta struct {
	Type  EventType
	Delta float64
	Note  string
}

// PushPoint appends a sample. To keep idle periods from flooding the
// log, the append is skipped when the previous point is both younger
// than 15s and within 0.01 of the new value, unless forced. An empty
// snapshot always accepts the point.
func (s HistorySnapshot) PushPoint(value float64, ts int64, force bool) HistorySnapshot {
	if !s.accepts(value, ts, force) {
		return s
	}

	points := make([]HistoryPoint, len(s.Points), len(s.Points)+1)
	copy(points, s.Points)
	points = append(points, HistoryPoint{TS: ts, Value: value})
	if len(points) > maxEntries {
		points = points[len(points)-maxEntries:]
	}

	return HistorySnapshot{Points: points, Events: s.Events}
}

// accepts reports whether PushPoint would record the sample instead of
// deduping it against the previous point.
func (s HistorySnapshot) accepts(value float64, ts int64, force bool) bool {
	if force || len(s.Points) == 0 {
		return true
	}

	prev := s.Points[len(s.Points)-1]

	return ts-prev.TS >= pointMinGapMs || math.Abs(value-prev.Value) >= pointValueDeadBand
}

// AddEvent appends an event record. Empty or unknown meta types coerce
// to manual; the ID is generated from ts.
func (s HistorySnapshot) AddEvent(kind Kind, value float64, ts int64, meta EventMeta) HistorySnapshot {
	typ := meta.Type
	if !typ.Valid() {
		typ = EventManual
	}

	events := make([]HistoryEvent, len(s.Events), len(s.Events)+1)
	copy(events, s.Events)
	events = append(events, HistoryEvent{
		ID:    NewEventID(ts),
		TS:    ts,
		Kind:  kind,
		Type:  typ,
		Value: value,
		Delta: meta.Delta,
		Note:  meta.Note,
	})
	if len(events) > maxEntries {
		events = events[len(events)-maxEntries:]
	}

	return HistorySnapshot{Points: s.Points, Events: events}
}

// Trim drops every entry older than cutoff. Mutating callers invoke it
// with cutoff = now - HistoryRetentionMs after each change.
func (s HistorySnapshot) Trim(cutoff int64) HistorySnapshot {
	points := make([]HistoryPoint, 0, len(s.Points))
	for _, p := range s.Points {
		if p.TS >= cutoff {
			points = append(points, p)
		}
	}

	events := make([]HistoryEvent, 0, len(s.Events))
	for _, e := range s.Events {
		if e.TS >= cutoff {
			events = append(events, e)
		}
	}

	return HistorySnapshot{Points: points, Events: events}
}

// LatestResetAnchor returns the timestamp of the most recent reset
// event, or nil when none is retained. The wasted-at-cap window starts
// no earlier than this instant.
func LatestResetAnchor(events []HistoryEvent) *int64 {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == EventReset {
			return Anchor(events[i].TS)
		}
	}

	return nil
}

// NewEventID builds a ULID seeded with the event timestamp so IDs sort
// with the history.
func NewEventID(ts int64) string {
	ms := uint64(0)
	if ts > 0 {
		ms = uint64(ts)
	}

	id, err := ulid.New(ms, ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return strconv.FormatInt(ts, 10)
	}

	return id.String()
}

// RawSnapshot mirrors the persisted history document before validation.
type RawSnapshot struct {
	Points []RawPoint `json:"points"`
	Events []RawEvent `json:"events"`
}

type RawPoint struct {
	TS    float64 `json:"ts"`
	Value float64 `json:"value"`
}

type RawEvent struct {
	ID    string  `json:"id"`
	TS    float64 `json:"ts"`
	Kind  string  `json:"kind"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	Delta float64 `json:"delta"`
	Note  string  `json:"note"`
}

// SanitizeSnapshot coerces a loaded document into a valid snapshot:
// non-finite samples are discarded, both lists are re-sorted and capped,
// unknown event types become manual, unknown kinds become tp, missing
// IDs are generated.
func SanitizeSnapshot(raw RawSnapshot) HistorySnapshot {
	points := make([]HistoryPoint, 0, len(raw.Points))
	for _, p := range raw.Points {
		if !isFinite(p.TS) || !isFinite(p.Value) {
			continue
		}
		points = append(points, HistoryPoint{TS: int64(p.TS), Value: p.Value})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].TS < points[j].TS })
	if len(points) > maxEntries {
		points = points[len(points)-maxEntries:]
	}

	events := make([]HistoryEvent, 0, len(raw.Events))
	for _, e := range raw.Events {
		if !isFinite(e.TS) {
			continue
		}
		ev := HistoryEvent{
			ID:    e.ID,
			TS:    int64(e.TS),
			Kind:  Kind(e.Kind),
			Type:  EventType(e.Type),
			Delta: e.Delta,
			Note:  e.Note,
		}
		if isFinite(e.Value) {
			ev.Value = e.Value
		}
		if !ev.Kind.Valid() {
			ev.Kind = KindTP
		}
		if !ev.Type.Valid() {
			ev.Type = EventManual
		}
		if ev.ID == "" {
			ev.ID = NewEventID(ev.TS)
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].TS < events[j].TS })
	if len(events) > maxEntries {
		events = events[len(events)-maxEntries:]
	}

	return HistorySnapshot{Points: points, Events: events}
}

// AsRaw converts a snapshot back to its document form.
func (s HistorySnapshot) AsRaw() RawSnapshot {
	raw := RawSnapshot{
		Points: make([]RawPoint, 0, len(s.Points)),
		Events: make([]RawEvent, 0, len(s.Events)),
	}
	for _, p := range s.Points {
		raw.Points = append(raw.Points, RawPoint{TS: float64(p.TS), Value: p.Value})
	}
	for _, e := range s.Events {
		raw.Events = append(raw.Events, RawEvent{
			ID:    e.ID,
			TS:    float64(e.TS),
			Kind:  string(e.Kind),
			Type:  string(e.Type),
			Value: e.Value,
			Delta: e.Delta,
			Note:  e.Note,
		})
	}

	return raw
}
