package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersAreLabelled(t *testing.T) {
	before := testutil.ToFloat64(Checks.WithLabelValues("live"))
	Checks.WithLabelValues("live").Inc()
	after := testutil.ToFloat64(Checks.WithLabelValues("live"))
	if after-before != 1 {
		t.Errorf("expected live checks to grow by 1, got %v", after-before)
	}

	upcoming := testutil.ToFloat64(Checks.WithLabelValues("upcoming"))
	Checks.WithLabelValues("live").Inc()
	if got := testutil.ToFloat64(Checks.WithLabelValues("upcoming")); got != upcoming {
		t.Errorf("upcoming counter changed: %v -> %v", upcoming, got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	AnnouncedShows.Set(3)
	ScrapeFailures.WithLabelValues("upcoming").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	for _, want := range []string{
		"notifier_announced_shows 3",
		`notifier_scrape_failures_total{check="upcoming"}`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
