package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/guild/internal/guild/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.IncApplicationSubmitted()
		m.IncDecision("approve")
		m.IncRegistration("ok")
		m.IncReferral("sent")
		m.ObserveNotification("member_welcome", "sent")
		m.SetExpiredInvitations(3)
		m.ObserveOperation("approve", time.Now())
	})
}

func TestMetrics_Counts(t *testing.T) {
	m := metrics.New()
	m.IncDecision("approve")
	m.IncDecision("approve")
	m.IncDecision("reject")
	m.SetExpiredInvitations(4)

	require.Equal(t, 2.0, testutil.ToFloat64(m.Decisions.WithLabelValues("approve")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Decisions.WithLabelValues("reject")))
	require.Equal(t, 4.0, testutil.ToFloat64(m.ExpiredInvitations))
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.IncApplicationSubmitted()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Contains(t, string(body), "guild_applications_submitted_total 1")
	require.Contains(t, string(body), "go_goroutines")
}
