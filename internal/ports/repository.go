package ports

import (
	"context"

	"github.com/TwilightLilyy/umatrack/internal/domain"
)

// StateRepository stores one opaque resource-state document per kind.
// Get returns the document as decoded, without validation: sanitizing
// needs the caller's cap and defaults, so it stays with the caller.
// A missing document surfaces as domain.ErrStateNotFound.
type StateRepository interface {
	Get(ctx context.Context, kind domain.Kind) (domain.RawResource, error)
	Save(ctx context.Context, kind domain.Kind, state domain.ResourceState) error
}

// HistoryRepository stores one history document per kind, sanitized on
// load. History is reconstructible, so a missing or unreadable document
// yields an empty snapshot, not an error.
type HistoryRepository interface {
	Get(ctx context.Context, kind domain.Kind) (domain.HistorySnapshot, error)
	Save(ctx context.Context, kind domain.Kind, snapshot domain.HistorySnapshot) error
}
