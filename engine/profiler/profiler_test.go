package profiler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	clk := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(
		WithInterval(time.Second),
		WithClock(clk.now),
		WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))),
	)

	for range 99 {
		clk.t = clk.t.Add(10 * time.Millisecond)
		if p.Tick() {
			t.Fatal("reported before the interval elapsed")
		}
	}
	clk.t = clk.t.Add(10 * time.Millisecond)
	if !p.Tick("sim_days", 12.5) {
		t.Fatal("expected a report after one second")
	}
	if !scalar.EqualWithinAbs(p.Last().FPS, 100, 1e-9) {
		t.Errorf("FPS = %v, want 100", p.Last().FPS)
	}

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log record: %v", err)
	}
	if record["msg"] != "profiler" || record["sim_days"] != 12.5 {
		t.Errorf("record = %v", record)
	}
}
