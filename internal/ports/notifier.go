package ports

import (
	"context"

	"github.com/TwilightLilyy/umatrack/internal/domain"
)

// Notifier delivers resource alerts. Delivery mechanics (toasts, sounds)
// live behind this boundary.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}
