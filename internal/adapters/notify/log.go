package notify

import (
	"context"

	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/TwilightLilyy/umatrack/internal/ports"
	"github.com/sirupsen/logrus"
)

// LogNotifier delivers alerts to the structured log. OS-level delivery
// (toasts, sounds) lives behind the same port in other processes; the
// daemon itself only needs the record.
type LogNotifier struct {
	log *logrus.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, notice domain.Notification) error {
	entry := n.log.WithFields(logrus.Fields{
		"kind":  notice.Kind,
		"value": notice.Value,
	})

	switch notice.Reason {
	case domain.NotifyFull:
		entry.Warn("resource is full, regeneration is being wasted")
	case domain.NotifyThreshold:
		entry.WithField("threshold", notice.Threshold).Info("resource crossed threshold")
	case domain.NotifyReset:
		entry.Info("daily reset")
	default:
		entry.WithField("reason", notice.Reason).Info("resource notice")
	}

	return nil
}
