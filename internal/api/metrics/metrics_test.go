package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, name, label, value string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestObserveDBConnect(t *testing.T) {
	before := counterValue(t, "site_db_connect_attempts_total", "outcome", "failure")

	ObserveDBConnect("failure")

	if got := counterValue(t, "site_db_connect_attempts_total", "outcome", "failure"); got != before+1 {
		t.Fatalf("expected %v, got %v", before+1, got)
	}
}
