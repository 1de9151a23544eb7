package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersRegistered(t *testing.T) {
	PlacementsTotal.WithLabelValues("accepted").Inc()
	if got := testutil.ToFloat64(PlacementsTotal.WithLabelValues("accepted")); got < 1 {
		t.Fatalf("expected accepted placements >= 1, got %v", got)
	}

	SettlementsTotal.WithLabelValues("won").Inc()
	if got := testutil.ToFloat64(SettlementsTotal.WithLabelValues("won")); got < 1 {
		t.Fatalf("expected won settlements >= 1, got %v", got)
	}

	CurrentStake.Set(104.04)
	if got := testutil.ToFloat64(CurrentStake); got != 104.04 {
		t.Fatalf("expected stake gauge 104.04, got %v", got)
	}
}
