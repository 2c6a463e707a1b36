package redis

import (
	"context"
	"testing"

	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	cfg := viper.New()
	cfg.Set("storage.redis.addr", mr.Addr())

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	client, err := NewClient(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestStateStoreRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewStateStore(client, nil)

	state := domain.ResourceState{Base: 42, Last: 1_700_000_000_000, NextOverride: domain.Anchor(1_700_000_600_000)}
	require.NoError(t, store.Save(context.Background(), domain.KindTP, state))

	raw, err := store.Get(context.Background(), domain.KindTP)
	require.NoError(t, err)
	assert.Equal(t, float64(42), raw.Base)
	assert.Equal(t, float64(1_700_000_000_000), raw.Last)
	require.NotNil(t, raw.NextOverride)
	assert.Equal(t, float64(1_700_000_600_000), *raw.NextOverride)
}

func TestStateStoreMissReturnsNotFound(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewStateStore(client, nil)

	_, err := store.Get(context.Background(), domain.KindRP)
	require.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestStateStoreCorruptDocumentTreatedAsMissing(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewStateStore(client, nil)

	require.NoError(t, mr.Set("umatrack:state:tp", "{not json"))

	_, err := store.Get(context.Background(), domain.KindTP)
	require.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestStateStoreSaveSetsTTL(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewStateStore(client, nil)

	require.NoError(t, store.Save(context.Background(), domain.KindTP, domain.ResourceState{Base: 1, Last: 1}))
	assert.Positive(t, mr.TTL("umatrack:state:tp"))
}

func TestHistoryStoreRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewHistoryStore(client, nil)

	snap := domain.HistorySnapshot{}.
		PushPoint(97, 1_700_000_000_000, true).
		AddEvent(domain.KindTP, 97, 1_700_000_000_000, domain.EventMeta{Type: domain.EventSpend, Delta: -3})

	require.NoError(t, store.Save(context.Background(), domain.KindTP, snap))

	got, err := store.Get(context.Background(), domain.KindTP)
	require.NoError(t, err)
	require.Len(t, got.Points, 1)
	assert.Equal(t, float64(97), got.Points[0].Value)
	require.Len(t, got.Events, 1)
	assert.Equal(t, domain.EventSpend, got.Events[0].Type)
}

func TestHistoryStoreMissReturnsEmpty(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewHistoryStore(client, nil)

	snap, err := store.Get(context.Background(), domain.KindTP)
	require.NoError(t, err)
	assert.Empty(t, snap.Points)
	assert.Empty(t, snap.Events)
}

func TestHistoryStoreCorruptDocumentStartsEmpty(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewHistoryStore(client, nil)

	require.NoError(t, mr.Set("umatrack:history:tp", "]["))

	snap, err := store.Get(context.Background(), domain.KindTP)
	require.NoError(t, err)
	assert.Empty(t, snap.Points)
}

func TestHistoryStoreSanitizesOnLoad(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewHistoryStore(client, nil)

	// Out-of-order points and an unknown event type, as a hand-edited
	// document might carry.
	doc := `{"points":[{"ts":200,"value":2},{"ts":100,"value":1}],` +
		`"events":[{"ts":150,"kind":"tp","type":"mystery","value":1}]}`
	require.NoError(t, mr.Set("umatrack:history:tp", doc))

	snap, err := store.Get(context.Background(), domain.KindTP)
	require.NoError(t, err)
	require.Len(t, snap.Points, 2)
	assert.Equal(t, int64(100), snap.Points[0].TS)
	require.Len(t, snap.Events, 1)
	assert.Equal(t, domain.EventManual, snap.Events[0].Type)
	assert.NotEmpty(t, snap.Events[0].ID)
}
