package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

// execute runs the root command in an empty working directory so no stray
// orrery config file is picked up.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeEphemeris(t *testing.T, out string) ephemeris {
	t.Helper()
	var eph ephemeris
	if err := json.Unmarshal([]byte(out), &eph); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	return eph
}

func row(t *testing.T, eph ephemeris, name string) ephemerisRow {
	t.Helper()
	for _, r := range eph.Bodies {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no row for %s", name)
	return ephemerisRow{}
}

func TestEphemerisJSONAtEpoch(t *testing.T) {
	out, err := execute(t, "ephemeris", "--time", "0", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	eph := decodeEphemeris(t, out)

	if len(eph.Bodies) != 10 {
		t.Fatalf("got %d bodies, want 10", len(eph.Bodies))
	}
	if eph.SimDays != 0 {
		t.Errorf("sim_days = %v", eph.SimDays)
	}
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	if d := eph.Date.Sub(j2000); d < -time.Millisecond || d > time.Millisecond {
		t.Errorf("date = %v, want %v", eph.Date, j2000)
	}
	if sun := row(t, eph, "Sun"); sun.Distance != 0 || sun.Kind != "star" {
		t.Errorf("sun = %+v", sun)
	}
	earth := row(t, eph, "Earth")
	if earth.Distance < 19.6 || earth.Distance > 20.4 {
		t.Errorf("earth distance = %v, want about 20", earth.Distance)
	}
	if earth.Error != "" {
		t.Errorf("earth error = %q", earth.Error)
	}
}

func TestEphemerisDate(t *testing.T) {
	out, err := execute(t, "ephemeris", "--date", "2001-01-01T12:00:00Z", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	eph := decodeEphemeris(t, out)
	if !scalar.EqualWithinAbs(eph.SimDays, 366, 1e-6) {
		t.Errorf("sim_days = %v, want 366", eph.SimDays)
	}
}

func TestEphemerisTable(t *testing.T) {
	out, err := execute(t, "ephemeris", "--time", "100")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"t = 100.0000 days", "NAME", "Neptune", "Pluto"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEphemerisRejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"time and date", []string{"ephemeris", "--time", "1", "--date", "2001-01-01T00:00:00Z"}},
		{"bad date", []string{"ephemeris", "--date", "yesterday"}},
		{"bad format", []string{"ephemeris", "--format", "xml"}},
		{"bad log level", []string{"ephemeris", "--log-level", "loud"}},
		{"missing config", []string{"ephemeris", "--config", "/nonexistent/orrery.toml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestEphemerisIsolatesInvalidBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	cfg := `bodies:
  - name: Good
    semi_major_axis: 10
    orbital_period: 100
    rotation_period: 1
  - name: Broken
    semi_major_axis: 10
    eccentricity: 1.5
    orbital_period: 100
`
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "ephemeris", "--config", path, "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	eph := decodeEphemeris(t, out)
	if len(eph.Bodies) != 2 {
		t.Fatalf("got %d bodies, want 2", len(eph.Bodies))
	}
	if good := row(t, eph, "Good"); good.Error != "" || !scalar.EqualWithinAbs(good.Distance, 10, 1e-9) {
		t.Errorf("good = %+v", good)
	}
	if broken := row(t, eph, "Broken"); broken.Error == "" {
		t.Error("broken body reported no error")
	}
}

func TestConfigPrintsResolvedYAML(t *testing.T) {
	t.Setenv("ORRERY_SIMULATION_TIME_SCALE", "42")
	out, err := execute(t, "config")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"time_scale: 42", "name: Sun", "name: Pluto"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
