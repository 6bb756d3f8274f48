package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

var voyage = []string{"mercury", "venus", "earth", "mars", "jupiter", "saturn", "uranus", "neptune"}

func TestProgressRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	tr, err := Open(path, voyage, true, nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := tr.Checkpoint("mars"); err != nil {
		t.Fatalf("Checkpoint() error: %v", err)
	}

	reopened, err := Open(path, voyage, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.FurthestPlanet(); got != "mars" {
		t.Errorf("FurthestPlanet() = %q, expected mars", got)
	}
	if got := reopened.LastPlanet(); got != "mars" {
		t.Errorf("LastPlanet() = %q, expected mars", got)
	}
}

func TestProgressMissingFileDefaults(t *testing.T) {
	tr, err := Open(filepath.Join(t.TempDir(), "nope", FileName), voyage, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tr.LastPlanet() != "mercury" || tr.FurthestPlanet() != "mercury" {
		t.Errorf("defaults = %+v", tr.Progress())
	}
}

func TestProgressCorruptFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	tr, err := Open(path, voyage, true, log.New(&buf))
	if err != nil {
		t.Fatalf("corrupt file must not be fatal: %v", err)
	}
	if tr.LastPlanet() != "mercury" {
		t.Errorf("LastPlanet() = %q, expected default", tr.LastPlanet())
	}
	if !strings.Contains(buf.String(), "corrupt") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

func TestProgressUnknownPlanetIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := []byte(`{"last_planet": "pluto", "furthest_planet": "Earth"}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	tr, err := Open(path, voyage, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if tr.LastPlanet() != "mercury" {
		t.Errorf("LastPlanet() = %q, expected default for unknown planet", tr.LastPlanet())
	}
	if tr.FurthestPlanet() != "earth" {
		t.Errorf("FurthestPlanet() = %q, expected earth", tr.FurthestPlanet())
	}
}

func TestCheckpointGatedByAllowSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	tr, err := Open(path, voyage, false, nil)
	if err != nil {
		t.Fatal(err)
	}

	wrote, err := tr.Checkpoint("venus")
	if err != nil {
		t.Fatal(err)
	}
	if wrote {
		t.Error("checkpoint should not be written when saving is disabled")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should exist after a gated checkpoint")
	}
	if tr.LastPlanet() != "venus" {
		t.Error("in-memory progress should still update")
	}

	// Reset always writes.
	if err := tr.Reset(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Reset should write the file: %v", err)
	}
}

func TestFurthestOnlyMovesForward(t *testing.T) {
	tr, err := Open(filepath.Join(t.TempDir(), FileName), voyage, true, nil)
	if err != nil {
		t.Fatal(err)
	}

	tr.Checkpoint("jupiter")
	tr.Checkpoint("venus")

	if tr.FurthestPlanet() != "jupiter" {
		t.Errorf("FurthestPlanet() = %q, expected jupiter", tr.FurthestPlanet())
	}
	if tr.LastPlanet() != "venus" {
		t.Errorf("LastPlanet() = %q, expected venus", tr.LastPlanet())
	}

	if _, err := tr.Checkpoint("pluto"); err == nil {
		t.Error("expected error for unknown planet")
	}
}

func TestUserPath(t *testing.T) {
	got := UserPath("/srv/starhop", "../alice")
	want := filepath.Join("/srv/starhop", "users", "___alice", FileName)
	if got != want {
		t.Errorf("UserPath() = %q, expected %q", got, want)
	}
}
