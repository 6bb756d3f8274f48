package starhop

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/starhop/internal/core"
	"github.com/vovakirdan/starhop/internal/games/starhop/quiz"
)

// Render characters.
const (
	ObstacleChar = '█'
	ObstacleCap  = '▀'
	FloorChar    = '▓'
	ShipChar     = '▶'
	ShipBody     = '='
	FlameChar    = '~'
	ShotChar     = '-'
	StarChar     = '.'
)

// layout keeps the clickable regions drawn by the last Render, in screen cells.
type layout struct {
	menu    []core.Rect
	options []core.Rect
}

// viewport maps world coordinates to screen cells. Row 0 is the HUD and
// the last row is the narrator line.
type viewport struct {
	sx, sy float64
	top    int
	rows   int
	cols   int
	dx     int // Shake offset
}

func (g *Game) viewport(dst *core.Screen) viewport {
	rows := core.Max(dst.Height()-2, 1)
	v := viewport{
		sx:   float64(dst.Width()) / g.cfg.World.Width,
		sy:   float64(rows) / g.cfg.World.Height,
		top:  1,
		rows: rows,
		cols: dst.Width(),
	}
	if g.effects.Shake > 0 {
		v.dx = []int{-1, 1}[g.effects.Shake%2]
	}
	return v
}

func (v viewport) x(wx float64) int { return int(math.Floor(wx*v.sx)) + v.dx }
func (v viewport) y(wy float64) int { return v.top + int(math.Floor(wy*v.sy)) }

// rect converts a world box to the cells it covers; it is at least one cell.
func (v viewport) rect(b core.Box) core.Rect {
	x0, y0 := v.x(b.X), v.y(b.Y)
	x1 := int(math.Ceil(b.Right()*v.sx)) + v.dx
	y1 := v.top + int(math.Ceil(b.Bottom()*v.sy))
	return core.NewRect(x0, y0, core.Max(x1-x0, 1), core.Max(y1-y0, 1))
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.layout = layout{}

	switch g.machine.Current() {
	case StateSplash:
		g.drawSplash(dst)
	case StateMenu:
		g.drawMenu(dst)
	case StateTransition:
		g.drawStars(dst)
		g.drawField(dst, false)
		g.drawPortal(dst)
	case StatePlaying:
		g.drawStars(dst)
		g.drawField(dst, true)
		if g.paused {
			g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
		}
	case StateQuiz:
		g.drawField(dst, false)
		g.drawQuiz(dst)
	case StateQuizFailure:
		g.drawField(dst, false)
		g.drawCenteredMessage(dst, "BACK TO THE FIELD", fmt.Sprintf("Resuming in %d", int(math.Ceil(g.failureLeft))))
	case StateGameOver:
		g.drawField(dst, false)
		g.drawCenteredMessage(dst, "GAME OVER",
			fmt.Sprintf("Total %d at %s  |  R restart  B menu", g.session.TotalScore, g.Planet().Name))
	}

	if g.machine.Current() != StateSplash && g.machine.Current() != StateMenu {
		g.drawHUD(dst)
	}
	g.drawNarration(dst)
	dst.SetPen(core.ColorDefault)
}

func (g *Game) drawSplash(dst *core.Screen) {
	h := dst.Height()
	dst.SetPen(core.ColorBrightCyan)
	dst.DrawTextCentered(h/2-2, "S T A R H O P")
	dst.SetPen(core.ColorGray)
	dst.DrawTextCentered(h/2, "A voyage from Mercury to Neptune")
	dst.SetPen(core.ColorDefault)
	dst.DrawTextCentered(h/2+2, "press any key")
}

func (g *Game) drawMenu(dst *core.Screen) {
	h := dst.Height()
	dst.SetPen(core.ColorBrightCyan)
	dst.DrawTextCentered(h/2-4, "S T A R H O P")
	dst.SetPen(core.ColorDefault)

	for i, item := range g.menu {
		label := "  " + item.label + "  "
		if i == g.menuIndex {
			label = "> " + item.label + " <"
			dst.SetPen(core.ColorBrightYellow)
		} else {
			dst.SetPen(core.ColorDefault)
		}
		y := h/2 - 1 + i*2
		x := (dst.Width() - len([]rune(label))) / 2
		dst.DrawText(x, y, label)
		g.layout.menu = append(g.layout.menu, core.NewRect(x, y, len([]rune(label)), 1))
	}

	dst.SetPen(core.ColorGray)
	dst.DrawTextCentered(h-3, fmt.Sprintf("Difficulty: %s  |  Furthest: %s", g.preset, g.catalog.At(g.session.FurthestIndex).Name))
	dst.SetPen(core.ColorDefault)
}

// drawStars scatters a parallax starfield that scrolls with the tick.
func (g *Game) drawStars(dst *core.Screen) {
	w, h := dst.Width(), dst.Height()
	if w == 0 || h < 3 {
		return
	}
	dst.SetPen(core.ColorGray)
	shift := int(g.tick / 4)
	for i := 0; i < w*h/40; i++ {
		x := (i*37 + 11 - shift) % w
		if x < 0 {
			x += w
		}
		y := 1 + (i*53+7)%(h-2)
		dst.Set(x, y, StarChar)
	}
}

func (g *Game) drawField(dst *core.Screen, live bool) {
	v := g.viewport(dst)
	playable := g.cfg.World.PlayableHeight()
	color := g.Planet().Color

	// Floor
	floor := v.y(playable)
	dst.SetPen(color)
	for y := floor; y < v.top+v.rows; y++ {
		dst.DrawHLine(0, y, v.cols, FloorChar)
	}

	for _, o := range g.mech.Obstacles {
		g.drawObstacle(dst, v, o, playable)
	}

	for _, c := range g.mech.Collectibles {
		r := v.rect(c.Box())
		dst.SetPen(collectibleColor(c.Kind))
		dst.Set(r.X+r.W/2, r.Y+r.H/2, c.Kind.Glyph())
	}

	dst.SetPen(core.ColorBrightRed)
	for _, p := range g.mech.Projectiles {
		r := v.rect(p.Box())
		dst.DrawHLine(r.X, r.Y, r.W, ShotChar)
	}

	g.drawShip(dst, v, live)
	dst.SetPen(core.ColorDefault)
}

func (g *Game) drawObstacle(dst *core.Screen, v viewport, o Obstacle, playable float64) {
	dst.SetPen(g.Planet().Color)
	up := v.rect(o.UpperBox())
	if o.UpperLimit() > 0 {
		dst.DrawRect(up, ObstacleChar)
		dst.DrawHLine(up.X, up.Bottom()-1, up.W, ObstacleCap)
	}
	if o.LowerLimit() < playable {
		low := v.rect(o.LowerBox(playable))
		dst.DrawRect(low, ObstacleChar)
	}
}

func (g *Game) drawShip(dst *core.Screen, v viewport, live bool) {
	// Blink while invulnerable.
	if live && g.ship.Invulnerable() && (g.ship.InvulnerableFrames/4)%2 == 0 {
		return
	}

	sprite := v.rect(g.ship.Sprite())
	hit := v.rect(g.ship.Hitbox())
	row := hit.Y + hit.H/2

	pen := core.ColorBrightWhite
	if g.effects.Flash > 0 {
		pen = core.ColorBrightRed
	}
	if live {
		dst.SetPen(core.ColorOrange)
		for x := sprite.X; x < hit.X; x++ {
			dst.Set(x, row, FlameChar)
		}
	}
	dst.SetPen(pen)
	for x := hit.X; x < hit.Right()-1; x++ {
		dst.Set(x, row, ShipBody)
	}
	dst.Set(hit.Right()-1, row, ShipChar)
}

func (g *Game) drawPortal(dst *core.Screen) {
	v := g.viewport(dst)
	cx, cy := v.x(g.portal.X), v.y(g.portal.Y)
	rx := core.Max(int(g.portal.Radius*v.sx), 2)
	ry := core.Max(int(g.portal.Radius*v.sy), 1)

	dst.SetPen(core.ColorBrightMagenta)
	glyphs := []rune{'o', 'O', '0', 'O'}
	spin := int(g.portal.Phase * float64(len(glyphs)))
	for i := 0; i < 24; i++ {
		a := 2 * math.Pi * float64(i) / 24
		dst.Set(cx+int(math.Round(float64(rx)*math.Cos(a))), cy+int(math.Round(float64(ry)*math.Sin(a))), glyphs[(i+spin)%len(glyphs)])
	}

	p := g.Planet()
	dst.SetPen(p.Color)
	dst.DrawTextCentered(v.top+1, "Arriving at "+p.Name)
	if g.transitionElapsed >= g.cfg.Transition.Duration && !g.welcomeSkipped {
		dst.SetPen(core.ColorGray)
		dst.DrawTextCentered(v.top+2, "press S to skip")
	}
	dst.SetPen(core.ColorDefault)
}

func (g *Game) drawQuiz(dst *core.Screen) {
	if g.quiz == nil {
		return
	}
	q := g.quiz.Question()
	w, h := dst.Width(), dst.Height()

	boxW := core.Min(w-2, core.Max(len([]rune(q.Text))+4, 40))
	boxH := len(q.Options) + 6
	box := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.SetPen(core.ColorDefault)
	dst.DrawRect(box, ' ')
	dst.SetPen(core.ColorBrightCyan)
	dst.DrawBox(box)
	dst.DrawText(box.X+2, box.Y+1, truncate(q.Text, boxW-4))

	for i, opt := range q.Options {
		label := truncate(fmt.Sprintf("%d) %s", i+1, opt), boxW-4)
		dst.SetPen(optionColor(g.quiz, i))
		y := box.Y + 3 + i
		dst.DrawText(box.X+2, y, label)
		g.layout.options = append(g.layout.options, core.NewRect(box.X+1, y, boxW-2, 1))
	}

	dst.SetPen(core.ColorGray)
	status := fmt.Sprintf("%.0fs left", math.Ceil(g.quiz.TimeLeft()))
	if g.quiz.Phase() != quiz.PhaseAwaiting {
		status = strings.ToUpper(g.quiz.Result().String())
	}
	dst.DrawText(box.X+2, box.Bottom()-2, status)
	dst.SetPen(core.ColorDefault)
}

func optionColor(q *quiz.Quiz, i int) core.Color {
	if q.Phase() == quiz.PhaseAwaiting {
		return core.ColorDefault
	}
	switch {
	case i == q.Question().Answer:
		return core.ColorBrightGreen
	case i == q.Selected():
		return core.ColorBrightRed
	default:
		return core.ColorGray
	}
}

func collectibleColor(k CollectibleKind) core.Color {
	switch k {
	case KindData:
		return core.ColorBrightCyan
	case KindFuel:
		return core.ColorYellow
	case KindWeapon:
		return core.ColorBrightMagenta
	default:
		return core.ColorBrightRed
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	p := g.Planet()
	hud := fmt.Sprintf(" %s  Score %d/%d  Total %d  Lives %s ",
		p.Name, g.session.Score, p.Threshold, g.session.TotalScore, strings.Repeat("♥", g.session.Lives))
	if g.mech.WeaponActive() {
		hud += fmt.Sprintf(" Weapon %.0fs ", math.Ceil(g.mech.WeaponLeft()))
	}
	if g.autopilot {
		hud += " [AUTO] "
	}
	dst.SetPen(p.Color)
	dst.DrawText(0, 0, hud)
	dst.SetPen(core.ColorDefault)
}

func (g *Game) drawNarration(dst *core.Screen) {
	line := g.narrator.Current()
	if line == "" || dst.Height() < 2 {
		return
	}
	dst.SetPen(core.ColorBrightWhite)
	dst.DrawTextCentered(dst.Height()-1, truncate(line, dst.Width()))
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Min(core.Max(len([]rune(title)), len([]rune(subtitle)))+4, w)
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.SetPen(core.ColorDefault)
	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.SetPen(core.ColorBrightWhite)
	dst.DrawText(boxX+(boxW-len([]rune(title)))/2, boxY+1, title)
	dst.SetPen(core.ColorDefault)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
