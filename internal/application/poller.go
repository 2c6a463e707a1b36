package application

import (
	"context"
	"time"

	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/TwilightLilyy/umatrack/internal/ports"
	"github.com/sirupsen/logrus"
)

const defaultPollInterval = time.Second

// Poller drives the engine: every interval it runs one Tick, fans the
// snapshot out to the publishers, and dispatches notifications. Tick
// errors are logged and the loop continues; the next poll recomputes
// everything from persisted state anyway.
type Poller struct {
	svc        *Service
	clock      ports.Clock
	log        *logrus.Logger
	notifier   ports.Notifier
	publishers []ports.SnapshotPublisher
	interval   time.Duration
}

func NewPoller(svc *Service, clock ports.Clock, log *logrus.Logger, notifier ports.Notifier, interval time.Duration, publishers ...ports.SnapshotPublisher) *Poller {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}

	return &Poller{
		svc:        svc,
		clock:      clock,
		log:        log,
		notifier:   notifier,
		publishers: publishers,
		interval:   interval,
	}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.WithField("interval", p.interval).Info("poller started")

	for {
		select {
		case <-ctx.Done():
			p.log.Info("poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	statuses, notices, err := p.svc.Tick(ctx)
	if err != nil {
		p.log.WithError(err).Error("tick failed")
		return
	}

	snapshot := domain.OverlaySnapshot{
		TS:        p.clock.Now().UnixMilli(),
		Resources: statuses,
		Notices:   notices,
	}

	for _, pub := range p.publishers {
		pub.Publish(snapshot)
	}

	if p.notifier == nil {
		return
	}
	for _, notice := range notices {
		if err := p.notifier.Notify(ctx, notice); err != nil {
			p.log.WithError(err).WithField("kind", notice.Kind).Warn("notification delivery failed")
		}
	}
}
