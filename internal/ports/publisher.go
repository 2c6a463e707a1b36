package ports

import "github.com/TwilightLilyy/umatrack/internal/domain"

// SnapshotPublisher republishes poll snapshots to a secondary surface
// (overlay hub, metrics). Publish must not block the poll loop; slow
// consumers drop rather than backpressure.
type SnapshotPublisher interface {
	Publish(snapshot domain.OverlaySnapshot)
}
