package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu        sync.Mutex
	snapshots []domain.OverlaySnapshot
}

func (p *capturePublisher) Publish(snapshot domain.OverlaySnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, snapshot)
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snapshots)
}

func (p *capturePublisher) last() domain.OverlaySnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshots[len(p.snapshots)-1]
}

type captureNotifier struct {
	mu      sync.Mutex
	notices []domain.Notification
}

func (n *captureNotifier) Notify(_ context.Context, notice domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return nil
}

func TestPollerPublishesSnapshots(t *testing.T) {
	t.Parallel()

	clock := testClock()
	svc := newTestService(newMemStates(), newMemHistories(), clock, Config{})
	pub := &capturePublisher{}
	notifier := &captureNotifier{}

	poller := NewPoller(svc, clock, nil, notifier, 5*time.Millisecond, pub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return pub.count() >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-done

	snapshot := pub.last()
	require.Len(t, snapshot.Resources, 2)
	assert.Equal(t, domain.KindTP, snapshot.Resources[0].Kind)
	assert.Equal(t, clock.now.UnixMilli(), snapshot.TS)
}

func TestPollerToleratesMissingNotifier(t *testing.T) {
	t.Parallel()

	clock := testClock()
	svc := newTestService(newMemStates(), newMemHistories(), clock, Config{})
	pub := &capturePublisher{}

	poller := NewPoller(svc, clock, nil, nil, 5*time.Millisecond, pub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return pub.count() >= 1 }, time.Second, time.Millisecond)
	cancel()
	<-done
}
