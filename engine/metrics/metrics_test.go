package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	tests := []struct {
		name   string
		record func()
		read   func() float64
	}{
		{"nonconvergent", RecordNonConvergentSolve, func() float64 { return testutil.ToFloat64(keplerNonConvergentTotal) }},
		{"camera change", RecordCameraChange, func() float64 { return testutil.ToFloat64(cameraChangeTotal) }},
		{"degenerate camera", RecordDegenerateCamera, func() float64 { return testutil.ToFloat64(degenerateCameraTotal) }},
		{"invalid elements", func() { RecordInvalidElements("vulcan") }, func() float64 {
			return testutil.ToFloat64(invalidElementsTotal.WithLabelValues("vulcan"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.read()
			tt.record()
			tt.record()
			if got := tt.read() - before; got != 2 {
				t.Errorf("counter delta = %v, want 2", got)
			}
		})
	}
}

// TestInvalidElementsLabelsPerBody verifies one body's failures do not show up under another label.
func TestInvalidElementsLabelsPerBody(t *testing.T) {
	before := testutil.ToFloat64(invalidElementsTotal.WithLabelValues("earth"))
	RecordInvalidElements("pluto")
	if got := testutil.ToFloat64(invalidElementsTotal.WithLabelValues("earth")); got != before {
		t.Errorf("earth counter changed from %v to %v", before, got)
	}
}

func TestRecordFrameUpdate(t *testing.T) {
	before := testutil.CollectAndCount(frameUpdateSeconds)
	RecordFrameUpdate(2 * time.Millisecond)
	if got := testutil.CollectAndCount(frameUpdateSeconds); got != before {
		t.Errorf("histogram series count = %d, want %d", got, before)
	}
}
