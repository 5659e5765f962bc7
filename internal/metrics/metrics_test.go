package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.EventReceived("mention")
	m.EventReceived("mention")
	m.EventReceived("action")
	m.ErrorReported()
	m.RegistrationCompleted("learning")

	if got := testutil.ToFloat64(m.events.WithLabelValues("mention")); got != 2 {
		t.Fatalf("mention events: got %v", got)
	}
	if got := testutil.ToFloat64(m.events.WithLabelValues("action")); got != 1 {
		t.Fatalf("action events: got %v", got)
	}
	if got := testutil.ToFloat64(m.errors); got != 1 {
		t.Fatalf("errors: got %v", got)
	}
	if got := testutil.ToFloat64(m.registrations.WithLabelValues("learning")); got != 1 {
		t.Fatalf("registrations: got %v", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.EventReceived("mention")
	m.ErrorReported()
	m.RegistrationCompleted("standard")
}
