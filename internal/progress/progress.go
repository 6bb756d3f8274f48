// Package progress persists how far the player has flown.
//
// The save is a single small JSON document:
//
//	{"last_planet": "earth", "furthest_planet": "mars"}
//
// It is read once when the tracker opens and rewritten whole on each save.
package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileName is the name of the save file.
const FileName = "planet_progress.json"

// Progress is the persisted record.
type Progress struct {
	LastPlanet     string `json:"last_planet"`
	FurthestPlanet string `json:"furthest_planet"`
}

// Tracker loads, updates and saves planet progress.
type Tracker struct {
	path      string
	order     []string
	allowSave bool
	data      Progress
	logger    *log.Logger
}

// DefaultPath returns ~/.starhop/planet_progress.json.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, ".starhop", FileName)
}

// UserPath returns the save path for a named SSH user under dir.
func UserPath(dir, user string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, user)
	if clean == "" {
		clean = "anonymous"
	}
	return filepath.Join(dir, "users", clean, FileName)
}

// Open loads progress from path. order lists planet ids in voyage order
// and must not be empty; its first entry is the default planet.
//
// A missing or unreadable file yields default progress. Planet names
// not in order are replaced by the default.
func Open(path string, order []string, allowSave bool, logger *log.Logger) (*Tracker, error) {
	if len(order) == 0 {
		return nil, errors.New("progress: planet order is empty")
	}
	if path == "" {
		return nil, errors.New("progress: path is empty")
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("progress: cannot expand home: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	t := &Tracker{
		path:      path,
		order:     append([]string(nil), order...),
		allowSave: allowSave,
		logger:    logger,
	}
	t.data = t.defaults()
	t.load()
	return t, nil
}

func (t *Tracker) defaults() Progress {
	return Progress{LastPlanet: t.order[0], FurthestPlanet: t.order[0]}
}

func (t *Tracker) load() {
	raw, err := os.ReadFile(t.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			t.warn("cannot read progress, using defaults", "path", t.path, "error", err)
		}
		return
	}

	var p Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		t.warn("corrupt progress file, using defaults", "path", t.path, "error", err)
		return
	}

	if r := t.rank(p.LastPlanet); r >= 0 {
		t.data.LastPlanet = t.order[r]
	} else if p.LastPlanet != "" {
		t.warn("unknown last planet in progress file", "planet", p.LastPlanet)
	}
	if r := t.rank(p.FurthestPlanet); r >= 0 {
		t.data.FurthestPlanet = t.order[r]
	} else if p.FurthestPlanet != "" {
		t.warn("unknown furthest planet in progress file", "planet", p.FurthestPlanet)
	}
	if t.rank(t.data.LastPlanet) > t.rank(t.data.FurthestPlanet) {
		t.data.FurthestPlanet = t.data.LastPlanet
	}
}

func (t *Tracker) rank(planet string) int {
	planet = strings.ToLower(strings.TrimSpace(planet))
	for i, id := range t.order {
		if id == planet {
			return i
		}
	}
	return -1
}

func (t *Tracker) warn(msg string, keyvals ...interface{}) {
	if t.logger != nil {
		t.logger.Warn(msg, keyvals...)
	}
}

// Path returns the file the tracker writes to.
func (t *Tracker) Path() string { return t.path }

// Progress returns a copy of the current record.
func (t *Tracker) Progress() Progress { return t.data }

// LastPlanet returns the most recently reached planet.
func (t *Tracker) LastPlanet() string { return t.data.LastPlanet }

// FurthestPlanet returns the highest-index planet ever reached.
func (t *Tracker) FurthestPlanet() string { return t.data.FurthestPlanet }

// AllowSave reports whether checkpoints are written to disk.
func (t *Tracker) AllowSave() bool { return t.allowSave }

// SetAllowSave changes checkpoint permission, e.g. after a difficulty change.
func (t *Tracker) SetAllowSave(allow bool) { t.allowSave = allow }

// Checkpoint records arrival at a planet. The in-memory record always
// updates; it is written to disk only when saving is allowed. Returns
// whether a write happened.
func (t *Tracker) Checkpoint(planet string) (bool, error) {
	r := t.rank(planet)
	if r < 0 {
		return false, fmt.Errorf("progress: unknown planet %q", planet)
	}

	t.data.LastPlanet = t.order[r]
	if r > t.rank(t.data.FurthestPlanet) {
		t.data.FurthestPlanet = t.order[r]
	}

	if !t.allowSave {
		return false, nil
	}
	if err := t.Save(); err != nil {
		return false, err
	}
	return true, nil
}

// Reset returns progress to the first planet and saves unconditionally.
func (t *Tracker) Reset() error {
	t.data = t.defaults()
	return t.Save()
}

// Save writes the current record, replacing the file via rename.
func (t *Tracker) Save() error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("progress: cannot create directory: %w", err)
	}

	raw, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return fmt.Errorf("progress: cannot encode: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".progress-*.json")
	if err != nil {
		return fmt.Errorf("progress: cannot create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("progress: cannot write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("progress: cannot write: %w", err)
	}
	if err := os.Rename(tmpName, t.path); err != nil {
		return fmt.Errorf("progress: cannot replace %s: %w", t.path, err)
	}
	return nil
}
