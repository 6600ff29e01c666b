package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncPostback("post", OutcomeAccepted)
	m.IncPostback("post", OutcomeAccepted)
	m.IncPostback("get", OutcomeRejected)
	m.IncConversionStored()
	m.IncNotification(OutcomeSent)
	m.IncBotCommand("stats_today")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.postbacks.WithLabelValues("POST", OutcomeAccepted)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.postbacks.WithLabelValues("GET", OutcomeRejected)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.conversionsStored))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.notifications.WithLabelValues(OutcomeSent)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.botCommandsProcessed.WithLabelValues("stats_today")))
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.IncPostback("post", OutcomeAccepted)
	m.IncConversionStored()
	m.IncStoreFailure()
	m.IncNotification(OutcomeFailed)
	m.IncBotCommand("help")
}
