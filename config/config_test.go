package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gtfs "github.com/datasciencecampus/assess-gtfs"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assess.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
fast_travel:
  max_speed_kph:
    3: 90
    2: 250
duplicate_stop_precision: 4
expiry_horizon_days: 30
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %s", err)
	}

	opts := c.ValidateOptions()
	if got := opts.MaxSpeedKPH[gtfs.RouteType_Bus]; got != 90 {
		t.Errorf("got bus limit %v, want 90", got)
	}
	if got := opts.MaxSpeedKPH[gtfs.RouteType_Rail]; got != 250 {
		t.Errorf("got rail limit %v, want 250", got)
	}
	// Unconfigured route types keep their defaults.
	if got, want := opts.MaxSpeedKPH[gtfs.RouteType_Ferry], gtfs.DefaultMaxSpeedKPH()[gtfs.RouteType_Ferry]; got != want {
		t.Errorf("got ferry limit %v, want default %v", got, want)
	}
	if opts.DuplicateStopPrecision != 4 {
		t.Errorf("got precision %d, want 4", opts.DuplicateStopPrecision)
	}
	if want := 30 * 24 * time.Hour; opts.ExpiryHorizon != want {
		t.Errorf("got horizon %s, want %s", opts.ExpiryHorizon, want)
	}
}

func TestLoadPartial(t *testing.T) {
	path := writeConfig(t, "expiry_horizon_days: 7\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %s", err)
	}
	// Unset fields keep the defaults.
	if c.DuplicateStopPrecision != Default().DuplicateStopPrecision {
		t.Errorf("got precision %d, want default", c.DuplicateStopPrecision)
	}
}

func TestLoadInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"negative speed":     "fast_travel:\n  max_speed_kph:\n    3: -10\n",
		"precision too high": "duplicate_stop_precision: 99\n",
		"negative horizon":   "expiry_horizon_days: -1\n",
		"not yaml":           "{{{",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, content)); err == nil {
				t.Error("no error for invalid config")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("no error for a missing file")
	}
}
