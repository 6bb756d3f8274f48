package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{Mode: "starhop", Player: "ada", Score: 3, TotalScore: 20, Planet: "Venus", PlanetIndex: 1},
		{Mode: "starhop", Player: "bob", Score: 1, TotalScore: 45, Planet: "Mars", PlanetIndex: 3},
		{Mode: "starhop", Player: "cy", Score: 2, TotalScore: 20, Planet: "Earth", PlanetIndex: 2},
		{Mode: "starhop_autopilot", Score: 9, TotalScore: 90, Planet: "Jupiter", PlanetIndex: 4},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns("starhop", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}

	// Sorted by total score, ties broken by the furthest planet
	if top[0].Player != "bob" || top[1].Player != "cy" || top[2].Player != "ada" {
		t.Errorf("Runs not in expected order: %+v", top)
	}
	if top[0].Difficulty != "normal" {
		t.Errorf("Expected default difficulty normal, got %q", top[0].Difficulty)
	}

	auto, err := store.TopRuns("starhop_autopilot", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(auto) != 1 {
		t.Errorf("Expected 1 autopilot run, got %d", len(auto))
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveRun(Run{Mode: "starhop", TotalScore: (i + 1) * 10, Planet: "Mercury"})
	}

	top, err := store.TopRuns("starhop", 3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs with limit, got %d", len(top))
	}
	if top[0].TotalScore != 50 || top[1].TotalScore != 40 || top[2].TotalScore != 30 {
		t.Errorf("Runs not in expected order: %v", top)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("starhop")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for no runs, got %d", high)
	}

	store.SaveRun(Run{Mode: "starhop", TotalScore: 10, Planet: "Mercury"})
	store.SaveRun(Run{Mode: "starhop", TotalScore: 30, Planet: "Venus", PlanetIndex: 1})
	store.SaveRun(Run{Mode: "starhop", TotalScore: 20, Planet: "Mercury"})

	high, err = store.HighScore("starhop")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 30 {
		t.Errorf("Expected high score of 30, got %d", high)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{Mode: "starhop", TotalScore: 10, Planet: "Mercury"})
	store.SaveRun(Run{Mode: "starhop_autopilot", TotalScore: 10, Planet: "Mercury"})

	if err := store.ClearRuns("starhop"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	if runs, _ := store.TopRuns("starhop", 10); len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}
	if runs, _ := store.TopRuns("starhop_autopilot", 10); len(runs) != 1 {
		t.Error("Autopilot runs should not be affected by clearing starhop")
	}
}

func TestStorePlanetReachStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{Mode: "starhop", Planet: "Mars", PlanetIndex: 3})
	store.SaveRun(Run{Mode: "starhop", Planet: "Mercury", PlanetIndex: 0})
	store.SaveRun(Run{Mode: "starhop", Planet: "Mars", PlanetIndex: 3})

	stats, err := store.PlanetReachStats("starhop")
	if err != nil {
		t.Fatalf("PlanetReachStats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Expected 2 planets, got %d", len(stats))
	}
	if stats[0].Planet != "Mercury" || stats[1].Planet != "Mars" || stats[1].Runs != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	mode, err := store.GetModeStats("starhop")
	if err != nil {
		t.Fatalf("GetModeStats() failed: %v", err)
	}
	if mode.RunsCount != 3 || mode.Furthest != 3 {
		t.Errorf("Unexpected mode stats: %+v", mode)
	}
}

func TestStoreEpisodes(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveEpisode(Episode{Agent: "dqn"}); err == nil {
		t.Error("SaveEpisode() without run id should fail")
	}

	for i := 1; i <= 5; i++ {
		_, err := store.SaveEpisode(Episode{RunID: "run-a", Agent: "dqn", Episode: i, Reward: float64(i) * 1.5, Steps: i * 100, Epsilon: 0.5})
		if err != nil {
			t.Fatalf("SaveEpisode() failed: %v", err)
		}
	}
	store.SaveEpisode(Episode{RunID: "run-b", Agent: "qlearn", Episode: 1})

	recent, err := store.RecentEpisodes("run-a", 3)
	if err != nil {
		t.Fatalf("RecentEpisodes() failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Expected 3 episodes, got %d", len(recent))
	}
	if recent[0].Episode != 5 || recent[0].Reward != 7.5 {
		t.Errorf("Newest episode first, got %+v", recent[0])
	}

	all, err := store.RecentEpisodes("", 100)
	if err != nil {
		t.Fatalf("RecentEpisodes() failed: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("Expected 6 episodes across runs, got %d", len(all))
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
