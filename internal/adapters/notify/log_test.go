package notify

import (
	"context"
	"testing"

	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyFullLogsWarning(t *testing.T) {
	t.Parallel()

	log, hook := test.NewNullLogger()
	notifier := NewLogNotifier(log)

	err := notifier.Notify(context.Background(), domain.Notification{
		Kind:   domain.KindTP,
		Reason: domain.NotifyFull,
		Value:  100,
		TS:     1_700_000_000_000,
	})
	require.NoError(t, err)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, domain.KindTP, hook.LastEntry().Data["kind"])
}

func TestNotifyThresholdCarriesThresholdField(t *testing.T) {
	t.Parallel()

	log, hook := test.NewNullLogger()
	notifier := NewLogNotifier(log)

	err := notifier.Notify(context.Background(), domain.Notification{
		Kind:      domain.KindRP,
		Reason:    domain.NotifyThreshold,
		Value:     4,
		Threshold: 4,
	})
	require.NoError(t, err)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, 4, hook.LastEntry().Data["threshold"])
}
