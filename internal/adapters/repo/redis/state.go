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

// StateStore keeps one resource-state document per kind as a JSON value
// under umatrack:state:<kind>. An unreadable document is treated like a
// missing one: the caller substitutes first-run defaults, which is the
// fail-soft contract persisted state carries everywhere.
type StateStore struct {
	client *redis.Client
	log    *logrus.Logger
}

var _ ports.StateRepository = (*StateStore)(nil)

func NewStateStore(client *redis.Client, log *logrus.Logger) *StateStore {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &StateStore{client: client, log: log}
}

func (s *StateStore) Get(ctx context.Context, kind domain.Kind) (domain.RawResource, error) {
	data, err := s.client.Get(ctx, stateKey(kind)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.RawResource{}, domain.ErrStateNotFound
	}
	if err != nil {
		return domain.RawResource{}, fmt.Errorf("get state for %s: %w", kind, err)
	}

	var raw domain.RawResource
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		s.log.WithField("kind", kind).WithError(err).Warn("state document unreadable, treating as missing")
		return domain.RawResource{}, domain.ErrStateNotFound
	}

	return raw, nil
}

func (s *StateStore) Save(ctx context.Context, kind domain.Kind, state domain.ResourceState) error {
	data, err := json.Marshal(state.AsRaw())
	if err != nil {
		return fmt.Errorf("encode state for %s: %w", kind, err)
	}

	if err := s.client.Set(ctx, stateKey(kind), data, documentTTL).Err(); err != nil {
		return fmt.Errorf("set state for %s: %w", kind, err)
	}

	return nil
}

func stateKey(kind domain.Kind) string {
	return keyPrefix + "state:" + string(kind)
}
