package starhop

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starhop/internal/autopilot"
	"github.com/vovakirdan/starhop/internal/config"
	"github.com/vovakirdan/starhop/internal/core"
	"github.com/vovakirdan/starhop/internal/games/starhop/planets"
	"github.com/vovakirdan/starhop/internal/progress"
	"github.com/vovakirdan/starhop/internal/sound"
)

const earth = 2

var testRuntime = core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42}

type testSetup struct {
	mutate func(*config.GameConfig)
	sound  sound.Player
	pilot  autopilot.Pilot
	dir    string
}

func newTestGame(t *testing.T, setup testSetup) *Game {
	t.Helper()

	cfg := config.DefaultGameConfig()
	cfg.Transition.Duration = 0
	if setup.mutate != nil {
		setup.mutate(&cfg)
	}

	catalog, err := planets.Default()
	if err != nil {
		t.Fatalf("planets.Default: %v", err)
	}
	dir := setup.dir
	if dir == "" {
		dir = t.TempDir()
	}
	logger := log.New(io.Discard)
	tracker, err := progress.Open(filepath.Join(dir, progress.FileName), catalog.IDs(), cfg.Checkpoints.AllowSave, logger)
	if err != nil {
		t.Fatalf("progress.Open: %v", err)
	}
	player := setup.sound
	if player == nil {
		player = sound.Silent{}
	}

	g, err := New(Deps{
		Config:   &cfg,
		Catalog:  catalog,
		Progress: tracker,
		Sound:    player,
		Narrator: NewNarrator(NarratorHold),
		Pilot:    setup.pilot,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.Reset(testRuntime)
	return g
}

func launch(t *testing.T, g *Game, planet int) {
	t.Helper()
	if err := g.Launch(planet); err != nil {
		t.Fatalf("Launch(%d): %v", planet, err)
	}
	if g.Current() != StatePlaying {
		t.Fatalf("after Launch state = %s, want playing", g.Current())
	}
}

func stepUntil(g *Game, max int, done func() bool) int {
	for i := 0; i < max; i++ {
		if done() {
			return i
		}
		g.Step(core.NewInputFrame())
	}
	return max
}

func answerFrame(i int) core.InputFrame {
	in := core.NewInputFrame()
	in.Set([]core.Action{core.ActionAnswer1, core.ActionAnswer2, core.ActionAnswer3, core.ActionAnswer4}[i])
	return in
}

func TestNewMissingDependency(t *testing.T) {
	cfg := config.DefaultGameConfig()
	_, err := New(Deps{Config: &cfg})
	if !errors.Is(err, ErrMissingDependency) {
		t.Fatalf("New with missing deps: err = %v, want ErrMissingDependency", err)
	}
	if !strings.Contains(err.Error(), "planet catalog") {
		t.Errorf("error should name the missing collaborator: %v", err)
	}
}

func TestStartsAtSplash(t *testing.T) {
	g := newTestGame(t, testSetup{})
	if g.Current() != StateSplash {
		t.Fatalf("initial state = %s, want splash", g.Current())
	}

	in := core.NewInputFrame()
	in.Set(core.ActionConfirm)
	g.Step(in)
	if g.Current() != StateMenu {
		t.Errorf("after key state = %s, want menu", g.Current())
	}
}

func TestQuizStartsAtEarthThreshold(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, earth)

	threshold := g.Planet().Threshold
	if threshold != 6 {
		t.Fatalf("earth threshold = %d, want 6", threshold)
	}

	for i := 1; i < threshold; i++ {
		g.addScore(1)
		if g.Current() != StatePlaying {
			t.Fatalf("score %d: state = %s, want playing", i, g.Current())
		}
	}
	g.addScore(1)
	if g.Current() != StateQuiz {
		t.Fatalf("score %d: state = %s, want quiz", threshold, g.Current())
	}
	if g.Session().QuizStarts() != 1 {
		t.Errorf("QuizStarts = %d, want 1", g.Session().QuizStarts())
	}
	if g.Quiz() == nil {
		t.Fatal("quiz should be active")
	}
}

func TestQuizCorrectAdvancesPlanet(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, earth)
	g.addScore(g.Planet().Threshold)
	if g.Current() != StateQuiz {
		t.Fatalf("state = %s, want quiz", g.Current())
	}

	g.Step(answerFrame(g.Quiz().Question().Answer))
	stepUntil(g, 1000, func() bool { return g.Current() != StateQuiz })

	if g.Current() != StateTransition {
		t.Fatalf("state after correct answer = %s, want transition", g.Current())
	}
	if g.Session().PlanetIndex != earth+1 {
		t.Errorf("PlanetIndex = %d, want %d", g.Session().PlanetIndex, earth+1)
	}
	if g.Session().Score != 0 {
		t.Errorf("planet score = %d, want 0 after advancing", g.Session().Score)
	}
	if g.progress.LastPlanet() != "mars" {
		t.Errorf("checkpoint = %q, want mars", g.progress.LastPlanet())
	}

	g.Step(core.NewInputFrame())
	if g.Current() != StatePlaying {
		t.Errorf("state after transition = %s, want playing", g.Current())
	}
}

func TestQuizTimeoutRetries(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, earth)
	g.addScore(g.Planet().Threshold)

	stepUntil(g, 2000, func() bool { return g.Current() != StateQuiz })
	if g.Current() != StateQuizFailure {
		t.Fatalf("state after timeout = %s, want quiz_failure", g.Current())
	}

	stepUntil(g, 1000, func() bool { return g.Current() != StateQuizFailure })
	if g.Current() != StatePlaying {
		t.Fatalf("state after countdown = %s, want playing", g.Current())
	}

	want := g.Planet().Threshold - g.cfg.Gameplay.QuizRetryPenalty
	if g.Session().Score != want {
		t.Errorf("retry score = %d, want %d", g.Session().Score, want)
	}
	if g.Session().PlanetIndex != earth {
		t.Errorf("PlanetIndex = %d, want %d", g.Session().PlanetIndex, earth)
	}

	// Climbing back to the threshold starts exactly one new quiz.
	g.addScore(g.cfg.Gameplay.QuizRetryPenalty)
	if g.Current() != StateQuiz {
		t.Fatalf("state = %s, want quiz after regaining the threshold", g.Current())
	}
	if g.Session().QuizStarts() != 2 {
		t.Errorf("QuizStarts = %d, want 2", g.Session().QuizStarts())
	}
}

func TestWrongAnswerFails(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, earth)
	g.addScore(g.Planet().Threshold)

	wrong := (g.Quiz().Question().Answer + 1) % len(g.Quiz().Question().Options)
	res := g.Step(answerFrame(wrong))
	if len(res.Events) == 0 {
		t.Error("expected a narrator line for the wrong answer")
	}
	stepUntil(g, 1000, func() bool { return g.Current() != StateQuiz })
	if g.Current() != StateQuizFailure {
		t.Errorf("state = %s, want quiz_failure", g.Current())
	}
}

func TestFinalPlanetNeverStartsQuiz(t *testing.T) {
	g := newTestGame(t, testSetup{})
	last := g.catalog.Len() - 1
	launch(t, g, last)

	g.addScore(g.Planet().Threshold * 3)
	if g.Current() != StatePlaying {
		t.Errorf("state = %s, want playing on the final planet", g.Current())
	}
	if g.Session().QuizStarts() != 0 {
		t.Errorf("QuizStarts = %d, want 0", g.Session().QuizStarts())
	}
}

func TestTransitionWaitsForWelcomeCue(t *testing.T) {
	mixer := sound.NewMixer(map[string]float64{sound.CueWelcome: 3}, 1, nil)
	g := newTestGame(t, testSetup{
		sound:  mixer,
		mutate: func(c *config.GameConfig) { c.Transition.Duration = 0.5 },
	})
	if err := g.Launch(earth); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if g.Current() != StateTransition {
		t.Fatalf("state = %s, want transition", g.Current())
	}

	for i := 0; i < 60; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.Current() != StateTransition {
		t.Fatalf("left transition while the welcome cue is playing")
	}

	ticks := stepUntil(g, 1000, func() bool { return g.Current() != StateTransition })
	if g.Current() != StatePlaying {
		t.Fatalf("state = %s, want playing", g.Current())
	}
	if total := 60 + ticks; total < 170 || total > 190 {
		t.Errorf("transition took %d ticks, want about 180", total)
	}
}

func TestTransitionSkip(t *testing.T) {
	mixer := sound.NewMixer(map[string]float64{sound.CueWelcome: 3}, 1, nil)
	g := newTestGame(t, testSetup{
		sound:  mixer,
		mutate: func(c *config.GameConfig) { c.Transition.Duration = 0.5 },
	})
	if err := g.Launch(earth); err != nil {
		t.Fatalf("Launch: %v", err)
	}

	skip := core.NewInputFrame()
	skip.Set(core.ActionSkip)
	g.Step(skip)
	if g.Current() != StateTransition {
		t.Fatalf("skip must not cut the minimum duration")
	}
	if mixer.IsPlaying(sound.CueWelcome) {
		t.Error("skip should stop the welcome cue")
	}

	stepUntil(g, 100, func() bool { return g.Current() != StateTransition })
	if g.Current() != StatePlaying {
		t.Errorf("state = %s, want playing", g.Current())
	}
}

func placeObstacleOnShip(g *Game) {
	box := g.ship.Hitbox()
	g.mech.Obstacles = append(g.mech.Obstacles, Obstacle{
		X:     box.X,
		Width: 90,
		GapY:  g.cfg.World.PlayableHeight() - 60,
		Gap:   100,
	})
}

func TestCollisionLosesLife(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, earth)
	lives := g.Session().Lives

	placeObstacleOnShip(g)
	g.Step(core.NewInputFrame())

	if g.Session().Lives != lives-1 {
		t.Fatalf("Lives = %d, want %d", g.Session().Lives, lives-1)
	}
	if !g.ship.Invulnerable() {
		t.Error("ship should be invulnerable after a hit")
	}
	if g.Effects().Shake == 0 {
		t.Error("hit should shake the screen")
	}

	// Overlapping again while invulnerable costs nothing.
	placeObstacleOnShip(g)
	g.Step(core.NewInputFrame())
	if g.Session().Lives != lives-1 {
		t.Errorf("Lives = %d while invulnerable, want %d", g.Session().Lives, lives-1)
	}
}

func TestGameOverAtZeroLives(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, earth)
	g.Session().Lives = 1

	placeObstacleOnShip(g)
	res := g.Step(core.NewInputFrame())

	if g.Session().Lives != 0 {
		t.Errorf("Lives = %d, want 0", g.Session().Lives)
	}
	if !res.State.GameOver || g.Current() != StateGameOver {
		t.Fatalf("state = %s, want game_over", g.Current())
	}

	g.LoseLife()
	if g.Session().Lives != 0 {
		t.Errorf("Lives went below zero: %d", g.Session().Lives)
	}
}

func TestRestartResumesFromCheckpoint(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, earth)
	g.addScore(g.Planet().Threshold)
	g.Step(answerFrame(g.Quiz().Question().Answer))
	stepUntil(g, 1000, func() bool { return g.Current() == StatePlaying })

	g.Session().Lives = 1
	placeObstacleOnShip(g)
	g.Step(core.NewInputFrame())
	if g.Current() != StateGameOver {
		t.Fatalf("state = %s, want game_over", g.Current())
	}

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	g.Step(restart)
	stepUntil(g, 100, func() bool { return g.Current() == StatePlaying })

	if g.Session().PlanetIndex != earth+1 {
		t.Errorf("restart planet = %d, want checkpoint %d", g.Session().PlanetIndex, earth+1)
	}
	if g.Session().Lives != g.cfg.Gameplay.Lives {
		t.Errorf("Lives = %d, want %d", g.Session().Lives, g.cfg.Gameplay.Lives)
	}
}

func TestRestartFromStartWhenPolicySaysSo(t *testing.T) {
	g := newTestGame(t, testSetup{mutate: func(c *config.GameConfig) { c.Checkpoints.Resume = config.ResumeStart }})
	launch(t, g, earth)
	g.Session().Lives = 1
	placeObstacleOnShip(g)
	g.Step(core.NewInputFrame())

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	g.Step(restart)
	if g.Session().PlanetIndex != 0 {
		t.Errorf("restart planet = %d, want 0", g.Session().PlanetIndex)
	}
}

func TestMenuOffersContinue(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t, testSetup{dir: dir})
	if _, err := g.progress.Checkpoint("jupiter"); err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}

	g2 := newTestGame(t, testSetup{dir: dir})
	g2.Step(answerFrame(0)) // any key leaves the splash
	if g2.Current() != StateMenu {
		t.Fatalf("state = %s, want menu", g2.Current())
	}
	if len(g2.menu) != 2 || !strings.Contains(g2.menu[0].label, "Jupiter") {
		t.Fatalf("menu = %+v, want continue at Jupiter first", g2.menu)
	}

	confirm := core.NewInputFrame()
	confirm.Set(core.ActionConfirm)
	g2.Step(confirm)
	if g2.Session().PlanetIndex != 4 {
		t.Errorf("PlanetIndex = %d, want 4", g2.Session().PlanetIndex)
	}
}

func TestMenuClick(t *testing.T) {
	g := newTestGame(t, testSetup{})
	g.Step(answerFrame(0))

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if len(g.layout.menu) == 0 {
		t.Fatal("menu render should record click targets")
	}

	r := g.layout.menu[len(g.layout.menu)-1]
	in := core.NewInputFrame()
	in.SetClick(r.X+1, r.Y)
	g.Step(in)
	if g.Current() != StatePlaying {
		t.Errorf("state after click = %s, want playing", g.Current())
	}
}

func TestQuizAnsweredByClick(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, earth)
	g.addScore(g.Planet().Threshold)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	answer := g.Quiz().Question().Answer
	if len(g.layout.options) <= answer {
		t.Fatalf("rendered %d option targets", len(g.layout.options))
	}

	r := g.layout.options[answer]
	in := core.NewInputFrame()
	in.SetClick(r.X+2, r.Y)
	g.Step(in)
	if !g.Quiz().IsCorrect() {
		t.Errorf("clicking the right option should answer correctly, got %s", g.Quiz().Result())
	}
}

func TestCollectibleEffects(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, earth)
	box := g.ship.Hitbox()

	put := func(kind CollectibleKind) {
		g.mech.Collectibles = append(g.mech.Collectibles, Collectible{
			X: box.X + 5, Y: g.ship.Y, Size: 36, Kind: kind,
			Value: g.cfg.Collectibles.Values[kind.String()],
		})
	}

	put(KindData)
	g.Step(core.NewInputFrame())
	if g.Session().Score != g.cfg.Collectibles.Values["data"] {
		t.Errorf("Score after data = %d, want %d", g.Session().Score, g.cfg.Collectibles.Values["data"])
	}

	put(KindWeapon)
	g.Step(core.NewInputFrame())
	if !g.mech.WeaponActive() {
		t.Error("weapon pickup should arm the weapon")
	}

	lives := g.Session().Lives
	put(KindLife)
	g.Step(core.NewInputFrame())
	if g.Session().Lives != lives+1 {
		t.Errorf("Lives = %d, want %d", g.Session().Lives, lives+1)
	}

	g.Session().Lives = g.Session().MaxLives
	put(KindLife)
	g.Step(core.NewInputFrame())
	if g.Session().Lives != g.Session().MaxLives {
		t.Errorf("Lives = %d, must not exceed %d", g.Session().Lives, g.Session().MaxLives)
	}
}

func TestFuelDoesNotStartQuiz(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, earth)
	box := g.ship.Hitbox()

	put := func(kind CollectibleKind) {
		g.mech.Collectibles = append(g.mech.Collectibles, Collectible{
			X: box.X + 5, Y: g.ship.Y, Size: 36, Kind: kind,
			Value: g.cfg.Collectibles.Values[kind.String()],
		})
	}

	g.Session().Score = g.Planet().Threshold - 1
	put(KindFuel)
	g.Step(core.NewInputFrame())
	if g.Session().Score < g.Planet().Threshold {
		t.Fatalf("Score = %d, fuel should reach the threshold %d", g.Session().Score, g.Planet().Threshold)
	}
	if g.Current() != StatePlaying {
		t.Fatalf("state after fuel = %s, want playing", g.Current())
	}

	put(KindData)
	g.Step(core.NewInputFrame())
	if g.Current() != StateQuiz {
		t.Errorf("state after data = %s, want quiz", g.Current())
	}
}

func TestPauseFreezesWorld(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, earth)

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	y := g.ship.Y
	for i := 0; i < 30; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.ship.Y != y {
		t.Error("ship moved while paused")
	}
	if !g.State().Paused {
		t.Error("State().Paused should be true")
	}
}

func TestGameDeterminism(t *testing.T) {
	run := func() Snapshot {
		g := newTestGame(t, testSetup{})
		launch(t, g, 0)
		for i := 0; i < 900; i++ {
			in := core.NewInputFrame()
			if i%14 == 0 {
				in.Set(core.ActionThrust)
			}
			g.Step(in)
		}
		return g.Snapshot()
	}

	s1, s2 := run(), run()
	if s1.Hash() != s2.Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", s1.Hash(), s2.Hash())
	}
	if s1.Tick != 900 {
		t.Errorf("Tick = %d, want 900", s1.Tick)
	}
}

func TestAutopilotFlies(t *testing.T) {
	cfg := config.DefaultGameConfig()
	pilot, err := autopilot.New(autopilot.KindQLearning, cfg.Autopilot, 1)
	if err != nil {
		t.Fatalf("autopilot.New: %v", err)
	}
	g := newTestGame(t, testSetup{pilot: pilot})
	launch(t, g, 0)
	g.learn = true

	toggle := core.NewInputFrame()
	toggle.Set(core.ActionToggleAutopilot)
	g.Step(toggle)
	if !g.Autopilot() {
		t.Fatal("toggle should engage the autopilot")
	}

	for i := 0; i < 300 && g.Current() == StatePlaying; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.EpisodeReward() == 0 {
		t.Error("learning autopilot should accumulate reward")
	}
}

func TestToggleWithoutPilot(t *testing.T) {
	g := newTestGame(t, testSetup{})
	if err := g.SetAutopilot(true); !errors.Is(err, ErrMissingDependency) {
		t.Errorf("SetAutopilot without pilot: err = %v", err)
	}
}

func TestObserve(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, earth)

	obs := g.Observe()
	if obs.ObstacleX != g.cfg.World.Width {
		t.Errorf("ObstacleX without obstacles = %v, want world width", obs.ObstacleX)
	}
	if obs.Gravity != g.Planet().Gravity {
		t.Errorf("Gravity = %v, want %v", obs.Gravity, g.Planet().Gravity)
	}

	g.mech.Obstacles = append(g.mech.Obstacles, Obstacle{X: 800, Width: 90, GapY: 300, Gap: 225})
	obs = g.Observe()
	if obs.ObstacleX != 800 || obs.GapY != 300 {
		t.Errorf("Observe = %+v, want the obstacle at 800", obs)
	}
}

func TestRenderPlaying(t *testing.T) {
	g := newTestGame(t, testSetup{})
	launch(t, g, earth)
	for i := 0; i < 200; i++ {
		g.Step(core.NewInputFrame())
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.Row(0), "Earth") {
		t.Errorf("HUD row = %q, want planet name", screen.Row(0))
	}
	if !strings.ContainsRune(screen.String(), ShipChar) && g.Current() == StatePlaying && !g.ship.Invulnerable() {
		t.Error("ship not drawn")
	}
}
