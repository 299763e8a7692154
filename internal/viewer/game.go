// Package viewer draws a flock hosted by a driver.FlockActor from above, with
// a control panel for the steering rules.
package viewer

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tochemey/goakt/v3/actor"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/driver"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/telemetry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/ui"
)

const (
	ScreenWidth  = 1100
	ScreenHeight = 640

	panelWidth = 230.0
	viewMargin = 20.0
	askTimeout = time.Second
)

// Game implements ebiten.Game. It never touches the flock directly: every
// frame asks the actor to tick and draws the snapshot it answers with.
type Game struct {
	ctx    context.Context
	pid    *actor.PID
	params flock.Params

	sprite *ebiten.Image
	tint   color.RGBA

	loop      *driver.Loop
	timeScale float64
	last      flock.Snapshot
	stats     telemetry.Stats
	err       error

	panel *ui.Panel

	updateAvg float64 // ms, exponential moving average
	drawAvg   float64
}

// NewAppearance builds the assets shared by every boid.
func NewAppearance(tint color.RGBA) flock.Appearance {
	return flock.Appearance{Geometry: generateSprite(fishDesign, fishPalette), Material: tint}
}

// NewGame spawns the flock actor in system and builds the control panel.
func NewGame(ctx context.Context, system actor.ActorSystem, params flock.Params, appearance flock.Appearance) (*Game, error) {
	pid, err := system.Spawn(ctx, "flock", driver.NewFlockActor(params, appearance))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn flock actor: %w", err)
	}
	g := &Game{
		ctx:       ctx,
		pid:       pid,
		params:    params,
		timeScale: 1,
	}
	g.sprite, _ = appearance.Geometry.(*ebiten.Image)
	g.tint, _ = appearance.Material.(color.RGBA)

	g.loop = driver.NewLoop(g.step)
	if g.last, err = driver.Query(ctx, pid, askTimeout); err != nil {
		return nil, err
	}
	g.stats = telemetry.Compute(g.last)
	g.buildPanel()
	return g, nil
}

func (g *Game) buildPanel() {
	p := ui.NewPanel("Flock", 10, 10, panelWidth, ScreenHeight-20)

	p.AddSection("Steering")
	forces := g.params.Forces
	p.AddCheckbox("Separation", forces.Separation, func(on bool) { forces.Separation = on; g.setForces(forces) })
	p.AddCheckbox("Alignment", forces.Alignment, func(on bool) { forces.Alignment = on; g.setForces(forces) })
	p.AddCheckbox("Cohesion", forces.Cohesion, func(on bool) { forces.Cohesion = on; g.setForces(forces) })

	p.AddSection("Time")
	p.AddSlider("Time scale", 0, 3, g.timeScale, func(v float64) { g.timeScale = v })
	p.AddCheckbox("Paused", false, g.loop.SetPaused)
	p.AddButton("Reset", g.reset)

	g.panel = p
}

func (g *Game) step(dt float64) {
	snap, err := driver.Tick(g.ctx, g.pid, dt*g.timeScale, askTimeout)
	if err != nil {
		g.err = err
		return
	}
	g.show(snap)
}

func (g *Game) setForces(forces flock.ForceToggles) {
	snap, err := driver.SetForces(g.ctx, g.pid, forces, askTimeout)
	if err != nil {
		g.err = err
		return
	}
	g.show(snap)
}

func (g *Game) reset() {
	snap, err := driver.Reset(g.ctx, g.pid, g.params.Seed, askTimeout)
	if err != nil {
		g.err = err
		return
	}
	g.loop.Restart()
	g.show(snap)
}

func (g *Game) show(snap flock.Snapshot) {
	g.last = snap
	g.stats = telemetry.Compute(snap)
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update(ui.ReadInput())
	g.loop.Frame(start)
	return g.err
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(color.RGBA{R: 8, G: 20, B: 40, A: 255})
	v := newView(g.last.PlayArea)

	x0, y0 := v.toScreen(g.last.PlayArea.MinX, g.last.PlayArea.MinZ)
	x1, y1 := v.toScreen(g.last.PlayArea.MaxX, g.last.PlayArea.MaxZ)
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 1,
		color.RGBA{R: 90, G: 140, B: 180, A: 255}, true)
	ox, oy := v.toScreen(0, 0)
	vector.StrokeCircle(screen, float32(ox), float32(oy), float32(seekRadius*v.scale), 1,
		color.RGBA{R: 60, G: 90, B: 120, A: 255}, true)

	for _, a := range g.last.Agents {
		g.drawAgent(screen, v, a)
	}

	g.panel.Draw(screen)

	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nUpdate: %.2fms  Draw: %.2fms\n\nTick %d  t=%.1fs\nBoids: %d  outside: %d\nSpeed: %.2f +/- %.2f\nPolarization: %.2f\nSpread: %.1f\nSense radius: %.1f",
		ebiten.ActualFPS(), ebiten.ActualTPS(),
		g.updateAvg, g.drawAvg,
		g.stats.Tick, g.stats.SimTime,
		g.stats.Agents, g.stats.Outside,
		g.stats.MeanSpeed, g.stats.SpeedStdDev,
		g.stats.Polarization,
		g.stats.Spread,
		g.params.SenseRadius)
	ebitenutil.DebugPrintAt(screen, msg, ScreenWidth-230, 10)
}

func (g *Game) drawAgent(screen *ebiten.Image, v view, a flock.AgentState) {
	x, y := v.toScreen(a.Position.X, a.Position.Z)
	if g.sprite == nil {
		vector.FillCircle(screen, float32(x), float32(y), 2, g.tint, true)
		return
	}

	op := &ebiten.DrawImageOptions{}
	w, h := g.sprite.Bounds().Dx(), g.sprite.Bounds().Dy()
	op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
	// higher boids are drawn larger
	size := math.Max(0.5, 1+a.Position.Y/100)
	op.GeoM.Scale(size, size)
	// the sprite faces up; yaw is measured from +X towards +Z, which is
	// clockwise on screen
	op.GeoM.Rotate(a.Direction.Yaw() + math.Pi/2)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(g.tint)
	screen.DrawImage(g.sprite, op)
}

func (g *Game) Layout(int, int) (int, int) { return ScreenWidth, ScreenHeight }

// seekRadius is the distance from the origin inside which boids feel no pull.
const seekRadius = 50.0

// view maps the XZ plane onto the area right of the panel, +Z downwards.
type view struct {
	scale  float64
	cx, cz float64
	sx, sy float64
}

func newView(area flock.PlayArea) view {
	left := 10 + panelWidth + viewMargin
	width := ScreenWidth - 240 - left - viewMargin
	height := ScreenHeight - 2*viewMargin
	scale := math.Min(width/(area.MaxX-area.MinX), height/(area.MaxZ-area.MinZ))
	if math.IsInf(scale, 0) || math.IsNaN(scale) || scale <= 0 {
		scale = 1
	}
	return view{
		scale: scale,
		cx:    (area.MinX + area.MaxX) / 2,
		cz:    (area.MinZ + area.MaxZ) / 2,
		sx:    left + width/2,
		sy:    viewMargin + height/2,
	}
}

func (v view) toScreen(x, z float64) (float64, float64) {
	return v.sx + (x-v.cx)*v.scale, v.sy + (z-v.cz)*v.scale
}
