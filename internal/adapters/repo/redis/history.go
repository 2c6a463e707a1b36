package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/TwilightLilyy/umatrack/internal/ports"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// HistoryStore keeps one history document per kind under
// umatrack:history:<kind>. Documents run through SanitizeSnapshot on
// load; a missing or corrupt document yields an empty snapshot.
type HistoryStore struct {
	client *redis.Client
	log    *logrus.Logger
}

var _ ports.HistoryRepository = (*HistoryStore)(nil)

func NewHistoryStore(client *redis.Client, log *logrus.Logger) *HistoryStore {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &HistoryStore{client: client, log: log}
}

func (h *HistoryStore) Get(ctx context.Context, kind domain.Kind) (domain.HistorySnapshot, error) {
	data, err := h.client.Get(ctx, historyKey(kind)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.HistorySnapshot{}, nil
	}
	if err != nil {
		return domain.HistorySnapshot{}, fmt.Errorf("get history for %s: %w", kind, err)
	}

	var raw domain.RawSnapshot
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		h.log.WithField("kind", kind).WithError(err).Warn("history document unreadable, starting empty")
		return domain.HistorySnapshot{}, nil
	}

	return domain.SanitizeSnapshot(raw), nil
}

func (h *HistoryStore) Save(ctx context.Context, kind domain.Kind, snapshot domain.HistorySnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode history for %s: %w", kind, err)
	}

	if err := h.client.Set(ctx, historyKey(kind), data, documentTTL).Err(); err != nil {
		return fmt.Errorf("set history for %s: %w", kind, err)
	}

	return nil
}

func historyKey(kind domain.Kind) string {
	return keyPrefix + "history:" + string(kind)
}
