package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/TwilightLilyy/umatrack/internal/ports"
	"github.com/sirupsen/logrus"
)

// Config carries the per-kind constants and notification settings the
// service operates with. Zero-value fields fall back to defaults.
type Config struct {
	Specs        map[domain.Kind]domain.ResourceSpec
	Milestones   map[domain.Kind][]int
	Timezone     string
	Thresholds   map[domain.Kind]int
	NotifyOnFull bool
}

// Service orchestrates the regen engine against the persistence ports:
// load, sanitize, compute, sample, analyze, save. Commands rewrite the
// persisted tuple as whole-object replacements; a mutex serializes all
// writers so the engine itself never needs locking.
type Service struct {
	states    ports.StateRepository
	histories ports.HistoryRepository
	clock     ports.Clock
	log       *logrus.Logger
	cfg       Config
	sampler   *domain.Sampler
	watch     *watcher
	mu        sync.Mutex
}

func NewService(states ports.StateRepository, histories ports.HistoryRepository, clock ports.Clock, log *logrus.Logger, cfg Config) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.Specs == nil {
		cfg.Specs = domain.DefaultSpecs()
	}

	return &Service{
		states:    states,
		histories: histories,
		clock:     clock,
		log:       log,
		cfg:       cfg,
		sampler:   domain.NewSampler(),
		watch:     newWatcher(),
	}
}

// Status derives the current view of every kind without mutating any
// persisted document.
func (s *Service) Status(ctx context.Context) ([]domain.ResourceStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UnixMilli()
	statuses := make([]domain.ResourceStatus, 0, len(domain.Kinds()))

	for _, kind := range domain.Kinds() {
		st, spec, err := s.loadState(ctx, kind, now)
		if err != nil {
			return nil, err
		}

		snap, err := s.histories.Get(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("load %s history: %w", kind, err)
		}

		cur := domain.ComputeCurrent(st, spec.RateMs, spec.Cap, now)
		statuses = append(statuses, s.statusFor(kind, spec, cur, snap, now))
	}

	return statuses, nil
}

// Tick is the poll body: everything Status does, plus materializing
// accrued regen into the persisted tuple, throttled history sampling
// (forced on value edges), daily-reset event emission, and boundary
// notifications. Mutated documents are saved before returning.
func (s *Service) Tick(ctx context.Context) ([]domain.ResourceStatus, []domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UnixMilli()
	resetFired := s.watch.dailyResetCrossed(now, s.cfg.Timezone)

	statuses := make([]domain.ResourceStatus, 0, len(domain.Kinds()))
	var notices []domain.Notification

	for _, kind := range domain.Kinds() {
		st, spec, err := s.loadState(ctx, kind, now)
		if err != nil {
			return nil, nil, err
		}

		next, cur := domain.Materialize(st, spec.RateMs, spec.Cap, now)
		if next.Base != st.Base || next.Last != st.Last {
			if err := s.states.Save(ctx, kind, next); err != nil {
				return nil, nil, fmt.Errorf("save %s state: %w", kind, err)
			}
		}

		snap, err := s.histories.Get(ctx, kind)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s history: %w", kind, err)
		}

		mutated := false
		if resetFired {
			// The forced sample below records the point for this
			// instant; only the event is added here.
			snap = snap.AddEvent(kind, float64(cur.Value), now, domain.EventMeta{Type: domain.EventReset})
			mutated = true
			notices = append(notices, domain.Notification{
				Kind:   kind,
				Reason: domain.NotifyReset,
				Value:  cur.Value,
				TS:     now,
			})
		}

		prev, seen := s.watch.observe(kind, cur.Value)
		force := resetFired || (seen && prev != cur.Value)

		snap, sampled := s.sampler.Sample(snap, kind, float64(cur.Value), now, force)
		if sampled || mutated {
			snap = snap.Trim(now - domain.HistoryRetentionMs)
			if err := s.histories.Save(ctx, kind, snap); err != nil {
				return nil, nil, fmt.Errorf("save %s history: %w", kind, err)
			}
		}

		if seen {
			notices = append(notices, edgeNotices(kind, prev, cur.Value, spec.Cap, s.cfg.Thresholds[kind], s.cfg.NotifyOnFull, now)...)
		}

		statuses = append(statuses, s.statusFor(kind, spec, cur, snap, now))
	}

	return statuses, notices, nil
}

// Spend materializes the live value, deducts amount, and rewrites the
// tuple with the spend instant as the new baseline. The regen anchor is
// preserved so an anchored grid keeps its schedule.
func (s *Service) Spend(ctx context.Context, cmd SpendCommand) (domain.ResourceStatus, error) {
	if cmd.Amount <= 0 {
		return domain.ResourceStatus{}, fmt.Errorf("spend amount must be positive, got %d", cmd.Amount)
	}

	return s.rewrite(ctx, cmd.Kind, func(cur domain.CurrentResource) (int, domain.EventMeta) {
		value := cur.Value - cmd.Amount
		if value < 0 {
			value = 0
		}

		return value, domain.EventMeta{
			Type:  domain.EventSpend,
			Delta: -float64(cmd.Amount),
			Note:  cmd.Note,
		}
	})
}

// SetValue rewrites the tuple with a manually observed value.
func (s *Service) SetValue(ctx context.Context, cmd SetValueCommand) (domain.ResourceStatus, error) {
	if cmd.Value < 0 {
		return domain.ResourceStatus{}, fmt.Errorf("value must not be negative, got %d", cmd.Value)
	}

	return s.rewrite(ctx, cmd.Kind, func(domain.CurrentResource) (int, domain.EventMeta) {
		return cmd.Value, domain.EventMeta{Type: domain.EventManual}
	})
}

// ScheduleNext parses cmd.In as a flexible duration and anchors the
// regen grid so the next tick lands that far from now; Clear removes
// the anchor. Accrued regen is materialized first so moving the grid
// cannot double-count elapsed time.
func (s *Service) ScheduleNext(ctx context.Context, cmd ScheduleCommand) (domain.ResourceStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec, ok := s.cfg.Specs[cmd.Kind]
	if !ok {
		return domain.ResourceStatus{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, cmd.Kind)
	}

	var anchor *int64
	now := s.clock.Now().UnixMilli()
	if !cmd.Clear {
		parsed := domain.ParseFlexible(cmd.In)
		if parsed == nil {
			return domain.ResourceStatus{}, fmt.Errorf("%w: %q", domain.ErrUnparsableDuration, cmd.In)
		}
		anchor = domain.Anchor(now + *parsed)
	}

	st, _, err := s.loadState(ctx, cmd.Kind, now)
	if err != nil {
		return domain.ResourceStatus{}, err
	}

	// Fold accrued regen into the tuple with this instant as the new
	// baseline. Leaving Last on the old grid would let a new-grid
	// instant inside (Last, now] count as an extra tick.
	cur := domain.ComputeCurrent(st, spec.RateMs, spec.Cap, now)
	next := domain.ResourceState{Base: cur.Value, Last: now, NextOverride: anchor}

	if err := s.states.Save(ctx, cmd.Kind, next); err != nil {
		return domain.ResourceStatus{}, fmt.Errorf("save %s state: %w", cmd.Kind, err)
	}

	snap, err := s.histories.Get(ctx, cmd.Kind)
	if err != nil {
		return domain.ResourceStatus{}, fmt.Errorf("load %s history: %w", cmd.Kind, err)
	}

	newCur := domain.ComputeCurrent(next, spec.RateMs, spec.Cap, now)

	return s.statusFor(cmd.Kind, spec, newCur, snap, now), nil
}

// ResetWindow appends a reset event at now, zeroing the wasted-at-cap
// window going forward without discarding older history.
func (s *Service) ResetWindow(ctx context.Context, kind domain.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec, ok := s.cfg.Specs[kind]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}

	now := s.clock.Now().UnixMilli()
	st, _, err := s.loadState(ctx, kind, now)
	if err != nil {
		return err
	}

	cur := domain.ComputeCurrent(st, spec.RateMs, spec.Cap, now)

	snap, err := s.histories.Get(ctx, kind)
	if err != nil {
		return fmt.Errorf("load %s history: %w", kind, err)
	}

	snap = snap.AddEvent(kind, float64(cur.Value), now, domain.EventMeta{Type: domain.EventReset})
	snap = snap.PushPoint(float64(cur.Value), now, true)
	snap = snap.Trim(now - domain.HistoryRetentionMs)

	if err := s.histories.Save(ctx, kind, snap); err != nil {
		return fmt.Errorf("save %s history: %w", kind, err)
	}

	return nil
}

// History returns the retained snapshot plus the continuous series over
// the retention window.
func (s *Service) History(ctx context.Context, kind domain.Kind) (HistoryView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec, ok := s.cfg.Specs[kind]
	if !ok {
		return HistoryView{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}

	now := s.clock.Now().UnixMilli()
	st, _, err := s.loadState(ctx, kind, now)
	if err != nil {
		return HistoryView{}, err
	}

	snap, err := s.histories.Get(ctx, kind)
	if err != nil {
		return HistoryView{}, fmt.Errorf("load %s history: %w", kind, err)
	}

	cur := domain.ComputeCurrent(st, spec.RateMs, spec.Cap, now)
	series := domain.BuildSeries(snap.Points, float64(cur.Value), now-domain.HistoryRetentionMs, now)

	return HistoryView{Kind: kind, Snapshot: snap, Series: series}, nil
}

// rewrite is the shared spend/manual-set path: materialize, derive the
// new base from the live value, persist state, and record the event
// with a forced point so the pre-mutation segment closes exactly at
// this instant.
func (s *Service) rewrite(ctx context.Context, kind domain.Kind, apply func(domain.CurrentResource) (int, domain.EventMeta)) (domain.ResourceStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spec, ok := s.cfg.Specs[kind]
	if !ok {
		return domain.ResourceStatus{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}

	now := s.clock.Now().UnixMilli()
	st, _, err := s.loadState(ctx, kind, now)
	if err != nil {
		return domain.ResourceStatus{}, err
	}

	cur := domain.ComputeCurrent(st, spec.RateMs, spec.Cap, now)

	value, meta := apply(cur)
	if value > spec.Cap {
		value = spec.Cap
	}

	next := domain.ResourceState{Base: value, Last: now, NextOverride: st.NextOverride}
	if err := s.states.Save(ctx, kind, next); err != nil {
		return domain.ResourceStatus{}, fmt.Errorf("save %s state: %w", kind, err)
	}

	snap, err := s.histories.Get(ctx, kind)
	if err != nil {
		return domain.ResourceStatus{}, fmt.Errorf("load %s history: %w", kind, err)
	}

	// The pre-mutation value closes the open segment at this instant;
	// without it a spend would retroactively drain the pinned-at-cap
	// integral.
	snap = snap.PushPoint(float64(cur.Value), now, true)
	snap = snap.AddEvent(kind, float64(value), now, meta)
	snap = snap.PushPoint(float64(value), now, true)
	snap = snap.Trim(now - domain.HistoryRetentionMs)

	if err := s.histories.Save(ctx, kind, snap); err != nil {
		return domain.ResourceStatus{}, fmt.Errorf("save %s history: %w", kind, err)
	}

	s.watch.observe(kind, value)

	newCur := domain.ComputeCurrent(next, spec.RateMs, spec.Cap, now)

	return s.statusFor(kind, spec, newCur, snap, now), nil
}

// loadState fetches and sanitizes one kind's tuple; a missing document
// is the normal first run and yields a full resource as of now.
func (s *Service) loadState(ctx context.Context, kind domain.Kind, now int64) (domain.ResourceState, domain.ResourceSpec, error) {
	spec, ok := s.cfg.Specs[kind]
	if !ok {
		return domain.ResourceState{}, domain.ResourceSpec{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}

	defaults := domain.FirstRunState(spec, now)

	raw, err := s.states.Get(ctx, kind)
	if err != nil {
		if errors.Is(err, domain.ErrStateNotFound) {
			return defaults, spec, nil
		}
		return domain.ResourceState{}, spec, fmt.Errorf("load %s state: %w", kind, err)
	}

	return domain.SanitizeResource(raw, spec.Cap, defaults), spec, nil
}

func (s *Service) statusFor(kind domain.Kind, spec domain.ResourceSpec, cur domain.CurrentResource, snap domain.HistorySnapshot, now int64) domain.ResourceStatus {
	anchor := domain.LatestResetAnchor(snap.Events)
	wasted := domain.ComputeWastedAtCap(snap.Points, float64(cur.Value), spec.Cap, spec.RateMs, domain.HistoryRetentionMs, now, anchor)

	return domain.ResourceStatus{
		Kind:       kind,
		Label:      kind.Label(),
		Value:      cur.Value,
		Cap:        spec.Cap,
		RateMs:     spec.RateMs,
		NextPoint:  cur.NextPoint,
		FullAt:     cur.FullAt,
		Wasted:     wasted,
		Milestones: domain.MilestoneTimes(cur, spec.RateMs, s.cfg.Milestones[kind], now),
		NextReset:  domain.NextDailyReset(now, s.cfg.Timezone),
	}
}
