// Package starhop implements the planet-hopping arcade game.
// A spacecraft threads obstacle fields, collects items and answers quiz
// questions to travel from Mercury to Neptune.
//
// The package is pure game logic. World coordinates are floats in a fixed
// playfield independent of the terminal; Render scales them to cells.
package starhop

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/vovakirdan/starhop/internal/autopilot"
	"github.com/vovakirdan/starhop/internal/config"
	"github.com/vovakirdan/starhop/internal/core"
	"github.com/vovakirdan/starhop/internal/games/starhop/planets"
	"github.com/vovakirdan/starhop/internal/games/starhop/quiz"
	"github.com/vovakirdan/starhop/internal/progress"
	"github.com/vovakirdan/starhop/internal/sound"
)

// Registered game identifiers.
const (
	GameID      = "starhop"
	AutopilotID = "starhop_autopilot"
)

// ErrMissingDependency is returned by New when a required collaborator is nil.
var ErrMissingDependency = errors.New("starhop: missing dependency")

// Deps are the collaborators a Game needs. Everything except Pilot is
// required.
type Deps struct {
	Config     *config.GameConfig
	Catalog    *planets.Catalog
	Progress   *progress.Tracker
	Sound      sound.Player
	Narrator   *Narrator
	Difficulty config.DifficultyPreset

	Pilot          autopilot.Pilot // Optional automatic pilot
	Learn          bool            // Train the pilot while it flies
	StartAutopilot bool            // Hand control to the pilot from the first tick

	ID    string
	Title string
}

type menuItem struct {
	label  string
	planet int
}

// Game implements registry.Game for starhop.
type Game struct {
	id    string
	title string

	cfg        *config.GameConfig
	catalog    *planets.Catalog
	progress   *progress.Tracker
	sound      sound.Player
	narrator   *Narrator
	difficulty *config.DifficultyManager
	pilot      autopilot.Pilot
	learn      bool
	startAuto  bool
	preset     config.DifficultyPreset

	runtime core.RuntimeConfig
	dt      float64
	rng     *rand.Rand
	tick    uint64

	session    *Session
	machine    *StateMachine
	ship       Spacecraft
	mech       *Mechanics
	collisions *CollisionManager
	effects    Effects
	quiz       *quiz.Quiz
	portal     Portal

	splashLeft        float64
	transitionElapsed float64
	welcomeSkipped    bool
	failureLeft       float64
	lastCallout       int
	quizElapsed       float64
	paused            bool
	autopilot         bool
	voyageDone        bool

	menu      []menuItem
	menuIndex int
	layout    layout

	episodeReward float64
	err           error
}

// New builds a game from its collaborators. It fails if any required
// collaborator is missing.
func New(d Deps) (*Game, error) {
	var missing []string
	if d.Config == nil {
		missing = append(missing, "config")
	}
	if d.Catalog == nil {
		missing = append(missing, "planet catalog")
	}
	if d.Progress == nil {
		missing = append(missing, "progress tracker")
	}
	if d.Sound == nil {
		missing = append(missing, "sound player")
	}
	if d.Narrator == nil {
		missing = append(missing, "narrator")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, missing)
	}
	if err := d.Config.Validate(); err != nil {
		return nil, err
	}
	if d.StartAutopilot && d.Pilot == nil {
		return nil, fmt.Errorf("%w: autopilot requested without a pilot", ErrMissingDependency)
	}

	g := &Game{
		id:         d.ID,
		title:      d.Title,
		cfg:        d.Config,
		catalog:    d.Catalog,
		progress:   d.Progress,
		sound:      d.Sound,
		narrator:   d.Narrator,
		difficulty: config.NewDifficultyManager(d.Config.Difficulty),
		pilot:      d.Pilot,
		learn:      d.Learn,
		startAuto:  d.StartAutopilot,
		preset:     d.Difficulty,
	}
	if g.id == "" {
		g.id = GameID
	}
	if g.title == "" {
		g.title = "Starhop"
	}
	if g.preset == "" {
		g.preset = config.DifficultyNormal
	}

	g.Reset(core.DefaultConfig())
	return g, nil
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string { return g.id }

// Title returns the display name for this game.
func (g *Game) Title() string { return g.title }

// Reset starts a fresh run at the splash screen.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg
	g.dt = cfg.Delta()
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0

	g.session = &Session{
		Lives:      g.cfg.Gameplay.Lives,
		MaxLives:   g.cfg.Collectibles.MaxLives,
		Difficulty: g.preset,
	}
	if i, ok := g.catalog.IndexOf(g.progress.FurthestPlanet()); ok {
		g.session.FurthestIndex = i
	}
	g.machine = NewStateMachine(StateSplash, g.enter)
	g.session.machine = g.machine

	g.ship = NewSpacecraft(g.cfg.Spacecraft)
	g.ship.ResetTo(g.midY())
	g.mech = NewMechanics(g.cfg, g.rng)
	g.effects = Effects{}
	g.collisions = NewCollisionManager(g.cfg, &g.ship, g.session, &g.effects, g.narrator, g.sound)
	g.quiz = nil
	g.portal = Portal{}

	g.splashLeft = g.cfg.Gameplay.SplashSeconds
	g.transitionElapsed = 0
	g.welcomeSkipped = false
	g.failureLeft = 0
	g.quizElapsed = 0
	g.paused = false
	g.autopilot = g.startAuto && g.pilot != nil
	g.voyageDone = false
	g.menu = nil
	g.menuIndex = 0
	g.layout = layout{}
	g.episodeReward = 0
	g.err = nil
	g.narrator.Drain()
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.sound.Update(g.dt)
	g.narrator.Update(g.dt)

	if in.Has(core.ActionToggleAutopilot) {
		if err := g.SetAutopilot(!g.autopilot); err != nil {
			g.say("No autopilot installed.")
		}
	}

	switch g.machine.Current() {
	case StateSplash:
		g.updateSplash(in)
	case StateMenu:
		g.updateMenu(in)
	case StateTransition:
		g.updateTransition(in)
	case StatePlaying:
		g.updatePlaying(in)
	case StateQuiz:
		g.updateQuiz(in)
	case StateQuizFailure:
		g.updateFailure()
	case StateGameOver:
		g.updateGameOver(in)
	}

	return core.StepResult{State: g.State(), Events: g.narrator.Drain()}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	p := g.catalog.At(g.session.PlanetIndex)
	return core.GameState{
		Score:       g.session.Score,
		TotalScore:  g.session.TotalScore,
		Lives:       g.session.Lives,
		Planet:      p.Name,
		PlanetIndex: g.session.PlanetIndex,
		Phase:       g.machine.Current().String(),
		Autopilot:   g.autopilot,
		GameOver:    g.machine.Current() == StateGameOver,
		Paused:      g.paused,
	}
}

// Current returns the active state.
func (g *Game) Current() State { return g.machine.Current() }

// Session returns the run aggregate.
func (g *Game) Session() *Session { return g.session }

// Planet returns the planet being flown.
func (g *Game) Planet() planets.Planet { return g.catalog.At(g.session.PlanetIndex) }

// Ship returns a copy of the spacecraft.
func (g *Game) Ship() Spacecraft { return g.ship }

// Mechanics exposes the world manager.
func (g *Game) Mechanics() *Mechanics { return g.mech }

// Quiz returns the active quiz, or nil.
func (g *Game) Quiz() *quiz.Quiz { return g.quiz }

// Effects returns the screen feedback counters.
func (g *Game) Effects() Effects { return g.effects }

// Narration returns the narrator line currently shown.
func (g *Game) Narration() string { return g.narrator.Current() }

// Autopilot reports whether the pilot is flying.
func (g *Game) Autopilot() bool { return g.autopilot }

// EpisodeReward returns the reward the pilot collected since the last reset.
func (g *Game) EpisodeReward() float64 { return g.episodeReward }

// ResetEpisodeReward zeroes the reward counter between training episodes.
func (g *Game) ResetEpisodeReward() { g.episodeReward = 0 }

// Pilot returns the installed pilot, or nil.
func (g *Game) Pilot() autopilot.Pilot { return g.pilot }

// Observe builds the pilot's view of the world. Without an obstacle ahead
// the gap is assumed at mid playfield, one world width away.
func (g *Game) Observe() autopilot.Observation {
	box := g.ship.Hitbox()
	playable := g.cfg.World.PlayableHeight()
	obs := autopilot.Observation{
		ShipY:     box.CenterY(),
		ShipVY:    g.ship.VY,
		ObstacleX: g.cfg.World.Width,
		GapY:      playable / 2,
		Gravity:   g.Planet().Gravity,
		Bounds: autopilot.Bounds{
			Width:    g.cfg.World.Width,
			Height:   playable,
			MaxSpeed: math.Max(g.cfg.Physics.MaxFallSpeed, g.cfg.Physics.MaxRiseSpeed),
		},
	}
	if o, ok := g.mech.NextObstacle(box); ok {
		obs.ObstacleX = o.X
		obs.GapY = o.GapY
	}
	obs.Distance = obs.ObstacleX - box.Right()
	return obs
}

// Err returns the first internal failure (illegal transition or failed save).
func (g *Game) Err() error { return g.err }

// SetAutopilot hands control to the pilot or takes it back.
func (g *Game) SetAutopilot(on bool) error {
	if on && g.pilot == nil {
		return fmt.Errorf("%w: no pilot", ErrMissingDependency)
	}
	if on == g.autopilot {
		return nil
	}
	g.autopilot = on
	if on {
		g.say("Autopilot engaged.")
	} else {
		g.say("Manual control.")
	}
	return nil
}

// Launch skips the splash and menu and starts a voyage at planet.
// It is how headless runs begin.
func (g *Game) Launch(planet int) error {
	switch g.machine.Current() {
	case StateSplash, StateGameOver:
		g.transition(StateMenu)
	}
	if g.machine.Current() != StateMenu {
		return fmt.Errorf("%w: cannot launch from %s", ErrIllegalTransition, g.machine.Current())
	}
	g.startVoyage(core.Clamp(planet, 0, g.catalog.Len()-1))
	return g.err
}

// transition changes state, remembering the first failure.
func (g *Game) transition(to State) bool {
	if err := g.machine.Transition(to); err != nil {
		if g.err == nil {
			g.err = err
		}
		return false
	}
	return true
}

func (g *Game) say(text string) {
	g.narrator.Say(text)
}

func (g *Game) midY() float64 {
	return (g.cfg.World.PlayableHeight() - g.cfg.Spacecraft.HitboxHeight) / 2
}

// enter runs the side effects of arriving in a state. The machine has
// already committed the new state.
func (g *Game) enter(from, to State) {
	switch to {
	case StateMenu:
		g.buildMenu()
		g.paused = false
		g.sound.FadeMusic(g.cfg.Sound.Volume, g.cfg.Sound.MusicFadeSeconds)

	case StateTransition:
		if from == StateQuiz {
			g.session.Advance()
			g.checkpoint()
		}
		g.beginTransition()

	case StatePlaying:
		switch from {
		case StateQuizFailure:
			p := g.Planet()
			penalty := g.cfg.Gameplay.QuizRetryPenalty
			if penalty < 1 {
				penalty = 1
			}
			g.session.Score = core.Max(0, p.Threshold-penalty)
			g.session.quizArmed = true
			g.resetField()
		case StateMenu:
			g.resetField()
		}
		g.applyDifficulty()
		g.paused = false
		g.sound.FadeMusic(g.cfg.Sound.Volume, g.cfg.Sound.MusicFadeSeconds)

	case StateQuiz:
		g.session.quizStarts++
		g.quizElapsed = 0
		g.quiz = quiz.New(g.Planet().PickQuestion(g.rng), g.cfg.Quiz.AnswerSeconds, g.cfg.Quiz.ResultSeconds)
		g.sound.FadeMusic(g.cfg.Sound.Volume*0.4, g.cfg.Sound.MusicFadeSeconds)
		g.narrator.Interrupt(fmt.Sprintf("Quiz time! Answer to unlock %s.", g.catalog.At(g.session.PlanetIndex+1).Name))

	case StateQuizFailure:
		g.failureLeft = g.cfg.Quiz.FailureCountdown
		g.lastCallout = int(math.Ceil(g.failureLeft)) + 1
		if g.quiz != nil && g.quiz.Result() == quiz.ResultTimeout {
			g.narrator.Interrupt("Out of time! Back to the asteroid field.")
		} else {
			g.narrator.Interrupt("Wrong answer! Back to the asteroid field.")
		}
		g.quiz = nil

	case StateGameOver:
		g.session.DiedAt = g.session.PlanetIndex
		g.paused = false
		g.sound.Play(sound.CueGameOver)
		g.sound.FadeMusic(0, g.cfg.Sound.MusicFadeSeconds)
		g.narrator.Interrupt(fmt.Sprintf("Game over at %s. Total score %d.", g.Planet().Name, g.session.TotalScore))
	}
}

// checkpoint records arrival at the current planet.
func (g *Game) checkpoint() {
	if _, err := g.progress.Checkpoint(g.Planet().ID); err != nil {
		if g.err == nil {
			g.err = err
		}
		g.say("Navigation log could not be saved.")
	}
}

func (g *Game) beginTransition() {
	g.transitionElapsed = 0
	g.welcomeSkipped = false
	g.quiz = nil
	g.resetField()
	g.portal = Portal{
		X:      g.cfg.World.Width,
		Y:      g.cfg.World.PlayableHeight() / 2,
		Radius: g.cfg.Obstacles.GapHeight / 2,
	}
	p := g.Planet()
	g.sound.Play(sound.CueWelcome)
	g.narrator.Interrupt(p.Welcome)
}

func (g *Game) resetField() {
	g.mech.Clear()
	g.ship.ResetTo(g.midY())
	g.effects = Effects{}
}

// applyDifficulty recomputes scroll speed and spawn intervals for the
// current planet.
func (g *Game) applyDifficulty() {
	i := g.session.PlanetIndex
	g.mech.Configure(
		g.difficulty.Speed(g.cfg.Physics.BaseSpeed, i),
		g.difficulty.SpawnInterval(g.cfg.Obstacles.SpawnInterval, i),
		g.difficulty.SpawnInterval(g.cfg.Collectibles.SpawnInterval, i),
	)
}

func (g *Game) buildMenu() {
	g.menu = g.menu[:0]
	g.menuIndex = 0
	if i, ok := g.catalog.IndexOf(g.progress.LastPlanet()); ok && i > 0 {
		g.menu = append(g.menu, menuItem{
			label:  "Continue: " + g.catalog.At(i).Name,
			planet: i,
		})
	}
	g.menu = append(g.menu, menuItem{label: "New voyage", planet: 0})
}

func (g *Game) startVoyage(planet int) {
	g.session.Begin(planet, g.cfg.Gameplay.Lives)
	g.voyageDone = false
	if g.cfg.Transition.Duration <= 0 {
		g.transition(StatePlaying)
		return
	}
	g.transition(StateTransition)
}

// resumePlanet picks where a restart begins according to the resume policy.
func (g *Game) resumePlanet() int {
	switch g.cfg.Checkpoints.Resume {
	case config.ResumeLastPlanet:
		return g.session.DiedAt
	case config.ResumeCheckpoint:
		if i, ok := g.catalog.IndexOf(g.progress.LastPlanet()); ok {
			return i
		}
		return 0
	default:
		return 0
	}
}

func (g *Game) updateSplash(in core.InputFrame) {
	g.splashLeft -= g.dt
	if g.splashLeft <= 0 || anyAction(in) {
		g.transition(StateMenu)
	}
}

func (g *Game) updateMenu(in core.InputFrame) {
	if len(g.menu) == 0 {
		g.buildMenu()
	}

	if in.Has(core.ActionUp) {
		g.menuIndex = (g.menuIndex - 1 + len(g.menu)) % len(g.menu)
	}
	if in.Has(core.ActionDown) {
		g.menuIndex = (g.menuIndex + 1) % len(g.menu)
	}

	if in.Has(core.ActionClick) {
		for i, r := range g.layout.menu {
			if i < len(g.menu) && r.Contains(in.ClickX, in.ClickY) {
				g.menuIndex = i
				g.startVoyage(g.menu[i].planet)
				return
			}
		}
	}

	if in.Has(core.ActionConfirm) || in.Has(core.ActionThrust) {
		g.startVoyage(g.menu[g.menuIndex].planet)
	}
}

func (g *Game) updateTransition(in core.InputFrame) {
	g.transitionElapsed += g.dt
	g.portal.Update(g.dt, g.cfg.Physics.BaseSpeed, g.ship.Hitbox().Right()+g.portal.Radius)

	if !g.welcomeSkipped && (in.Has(core.ActionSkip) || in.Has(core.ActionConfirm) || in.Has(core.ActionClick)) {
		g.welcomeSkipped = true
		g.sound.Stop(sound.CueWelcome)
	}

	cueDone := g.welcomeSkipped || !g.sound.IsPlaying(sound.CueWelcome)
	if g.transitionElapsed >= g.cfg.Transition.Duration && cueDone {
		g.transition(StatePlaying)
	}
}

func (g *Game) updatePlaying(in core.InputFrame) {
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return
	}

	thrust := in.Has(core.ActionThrust) || in.Has(core.ActionClick)
	var before autopilot.Observation
	if g.autopilot {
		before = g.Observe()
		thrust = g.pilot.Decide(before)
	}
	scoreBefore, livesBefore := g.session.TotalScore, g.session.Lives

	if thrust {
		g.ship.Thrust(g.cfg.Physics.ThrustImpulse)
	}
	if in.Has(core.ActionFire) && g.mech.Fire(g.ship.Hitbox()) {
		g.sound.Play(sound.CueLaser)
	}

	g.ship.Update(g.dt, g.Planet().Gravity, g.cfg.Physics)
	// Boundary hits are skipped while invulnerable, so the ship is held
	// inside the playfield here. Touching an edge still counts as a hit
	// once the window closes.
	g.ship.Confine(0, g.cfg.World.PlayableHeight())
	g.mech.Advance(g.dt)
	if n := g.mech.ResolveProjectiles(); n > 0 {
		g.say("Obstacle vaporized!")
	}

	passed, offset := g.mech.ScorePasses(g.ship.Hitbox())
	if passed > 0 {
		g.addScore(passed)
	}

	if g.machine.Current() == StatePlaying {
		if hit, ok := g.collisions.Check(g.mech.Obstacles); ok {
			if !g.collisions.HandleCollision(hit) {
				g.loseRun()
			}
		}
	}

	if g.machine.Current() == StatePlaying {
		g.collectItems()
	}

	g.ship.TickInvulnerable()
	g.effects.Tick()

	if g.autopilot && g.learn {
		out := autopilot.Outcome{
			ScoreDelta: g.session.TotalScore - scoreBefore,
			LivesLost:  core.Max(0, livesBefore-g.session.Lives),
			Passed:     passed > 0,
			PassOffset: offset,
			GameOver:   g.machine.Current() == StateGameOver,
		}
		g.episodeReward += g.pilot.Learn(before, thrust, out, g.Observe(), out.GameOver)
	}
}

// loseRun ends the voyage once the last life is gone.
func (g *Game) loseRun() {
	if g.session.Lives == 0 {
		g.transition(StateGameOver)
	}
}

// LoseLife removes a life outside of a collision and ends the run at zero.
func (g *Game) LoseLife() {
	g.session.LoseLife()
	if g.machine.Current() == StatePlaying {
		g.loseRun()
	}
}

func (g *Game) collectItems() {
	for _, c := range g.mech.Collect(g.ship.Hitbox()) {
		g.sound.Play(sound.CuePickup)
		switch c.Kind.Effect() {
		case EffectInfo:
			g.say(fmt.Sprintf("Data recovered: +%d.", c.Value))
			g.addScore(c.Value)
		case EffectTime:
			// Fuel points do not start a quiz; the next pass or data pickup does.
			g.session.AddScore(c.Value)
			g.say("Fuel cell collected.")
		case EffectAttack:
			g.mech.ArmWeapon()
			g.say("Weapon online! Press F to fire.")
		case EffectLife:
			if g.session.GainLife() {
				g.say("Extra life!")
			} else {
				g.say("Shields already full.")
			}
		}
		if g.machine.Current() != StatePlaying {
			return
		}
	}
}

// addScore awards points and checks the quiz threshold.
func (g *Game) addScore(n int) {
	g.session.AddScore(n)
	g.checkThreshold()
}

// checkThreshold starts the quiz once per threshold crossing.
func (g *Game) checkThreshold() {
	if g.machine.Current() != StatePlaying {
		return
	}
	s := g.session
	p := g.Planet()
	if s.Score < p.Threshold {
		s.quizArmed = true
		return
	}
	if !s.quizArmed {
		return
	}
	s.quizArmed = false

	if !g.catalog.HasNext(s.PlanetIndex) {
		if !g.voyageDone {
			g.voyageDone = true
			g.say("Voyage complete! Fly on, explorer.")
		}
		return
	}
	g.transition(StateQuiz)
}

func (g *Game) updateQuiz(in core.InputFrame) {
	if g.quiz == nil {
		return
	}
	g.quizElapsed += g.dt

	choice := in.Answer()
	if choice < 0 && in.Has(core.ActionClick) {
		for i, r := range g.layout.options {
			if r.Contains(in.ClickX, in.ClickY) {
				choice = i
				break
			}
		}
	}
	if choice < 0 && g.autopilot && g.cfg.Autopilot.AnswerQuizzes && g.quizElapsed >= g.cfg.Autopilot.AnswerDelay {
		choice = g.quiz.Question().Answer
	}

	if choice >= 0 && g.quiz.Select(choice) {
		g.announceResult()
	}

	wasAwaiting := g.quiz.Phase() == quiz.PhaseAwaiting
	g.quiz.Update(g.dt)
	if wasAwaiting && g.quiz.Result() == quiz.ResultTimeout {
		g.announceResult()
	}

	if g.quiz.IsComplete() {
		if g.quiz.IsCorrect() {
			g.transition(StateTransition)
		} else {
			g.transition(StateQuizFailure)
		}
	}
}

func (g *Game) announceResult() {
	q := g.quiz.Question()
	switch g.quiz.Result() {
	case quiz.ResultCorrect:
		g.sound.Play(sound.CueCorrect)
		g.narrator.Interrupt("Correct! Plotting a course onward.")
	case quiz.ResultIncorrect:
		g.sound.Play(sound.CueIncorrect)
		g.narrator.Interrupt(fmt.Sprintf("Not quite. The answer was %s.", q.Options[q.Answer]))
	case quiz.ResultTimeout:
		g.sound.Play(sound.CueIncorrect)
		g.narrator.Interrupt("Time's up!")
	}
}

func (g *Game) updateFailure() {
	g.failureLeft -= g.dt
	if g.failureLeft <= 0 {
		g.transition(StatePlaying)
		return
	}
	if n := int(math.Ceil(g.failureLeft)); n < g.lastCallout {
		g.lastCallout = n
		g.sound.Play(sound.CueCountdown)
		g.say(fmt.Sprintf("%d...", n))
	}
}

func (g *Game) updateGameOver(in core.InputFrame) {
	switch {
	case in.Has(core.ActionRestart) || in.Has(core.ActionConfirm):
		g.session.Begin(g.resumePlanet(), g.cfg.Gameplay.Lives)
		g.voyageDone = false
		g.transition(StateTransition)
	case in.Has(core.ActionBack):
		g.transition(StateMenu)
	}
}

// FailureCountdown returns the seconds left before play resumes after a
// failed quiz.
func (g *Game) FailureCountdown() float64 { return g.failureLeft }

func anyAction(in core.InputFrame) bool {
	for _, on := range in.Actions {
		if on {
			return true
		}
	}
	return false
}
