package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	var r Recorder

	before := testutil.ToFloat64(WebsitesCreatedTotal.WithLabelValues("manual"))
	r.WebsiteCreated("manual")
	if got := testutil.ToFloat64(WebsitesCreatedTotal.WithLabelValues("manual")); got != before+1 {
		t.Fatalf("websites_created_total = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(GenerationRequestsTotal.WithLabelValues("malformed"))
	r.GenerationFinished("malformed")
	if got := testutil.ToFloat64(GenerationRequestsTotal.WithLabelValues("malformed")); got != before+1 {
		t.Fatalf("generation_requests_total = %v, want %v", got, before+1)
	}

	r.GenerationLatency("gemini-2.5-flash", 1500*time.Millisecond)
	if n := testutil.CollectAndCount(GenerationDuration); n == 0 {
		t.Fatal("generation duration not observed")
	}
}
