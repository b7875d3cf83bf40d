package gui

import (
	"errors"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/vibesaver/internal/engine"
	"github.com/san-kum/vibesaver/internal/render"
	"github.com/san-kum/vibesaver/internal/viz"
)

var (
	colHUD    = rl.NewColor(180, 180, 180, 255)
	colHUDDim = rl.NewColor(90, 90, 90, 255)
	colWarn   = rl.NewColor(255, 170, 60, 255)
)

const hudSize = 20

// Options sizes and titles the window. A zero FPS takes the frame rate
// from the first vibe's performance settings.
type Options struct {
	Width, Height int32
	Title         string
	FPS           int32
	Fullscreen    bool
}

func DefaultOptions() Options {
	return Options{Width: 1280, Height: 720, Title: "vibesaver"}
}

// OpenWindow initializes the raylib window. Call it before NewFacade.
func OpenWindow(opts Options) {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(opts.Width, opts.Height, opts.Title)
	if opts.FPS > 0 {
		rl.SetTargetFPS(opts.FPS)
	}
	rl.SetExitKey(0)
	if opts.Fullscreen {
		rl.ToggleFullscreen()
	}
}

// App hosts a scheduler in the window. It owns the keyboard; the facade
// owns drawing.
type App struct {
	sched    *engine.Scheduler
	facade   *Facade
	director viz.Director

	showHUD bool
	err     error
}

func NewApp(sched *engine.Scheduler, facade *Facade, director viz.Director) *App {
	a := &App{sched: sched, facade: facade, director: director, showHUD: true}
	facade.Overlay = a.drawHUD
	return a
}

// Update handles input and advances the director. It reports false once
// the user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.sched.SetPlaying(!a.sched.Playing())
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.showHUD = !a.showHUD
	}
	if a.director == nil {
		return true
	}
	if rl.IsKeyPressed(rl.KeyN) {
		a.err = a.director.Skip()
	}
	if a.sched.Playing() {
		elapsed := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
		if err := a.director.Advance(elapsed); err != nil {
			a.err = err
		}
	}
	return true
}

// RunLoop ticks the scheduler once per frame until the window closes or
// the user quits. A paused scheduler leaves the scene alone, so the loop
// redraws the frozen frame itself to keep the window responsive. The
// facade is closed on return.
func (a *App) RunLoop() error {
	for a.Update() {
		if !a.sched.Playing() {
			if err := a.facade.Render(); errors.Is(err, render.ErrClosed) {
				break
			}
			continue
		}
		if !a.sched.Tick() {
			break
		}
	}
	if err := a.sched.Stop(); err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	return a.err
}

func (a *App) drawHUD() {
	if !a.showHUD {
		return
	}
	name, tag := "-", "-"
	if h := a.sched.Handle(); h != nil {
		name, tag = h.Config.Name, string(h.Tag)
	}
	state := "playing"
	if !a.sched.Playing() {
		state = "paused"
	}

	rl.DrawText(name, 20, 20, hudSize, colHUD)
	rl.DrawText(fmt.Sprintf("%s  |  %s  |  %d FPS", tag, state, rl.GetFPS()), 20, 20+hudSize+4, hudSize-6, colHUDDim)
	if d := a.sched.Degraded(); d > 0 {
		rl.DrawText(fmt.Sprintf("degraded %d", d), 20, 20+2*hudSize+4, hudSize-6, colWarn)
	}
	if a.err != nil {
		rl.DrawText(a.err.Error(), 20, int32(rl.GetScreenHeight())-hudSize-10, hudSize-6, colWarn)
	}
	rl.DrawText("[SPACE] pause  [N] next  [H] hud  [Q] quit", 20, int32(rl.GetScreenHeight())-2*hudSize-10, hudSize-6, colHUDDim)
}

// Run opens the window, hosts sched there and blocks until it closes.
// build wires the scheduler to the window's facade; it runs after the
// window is open because textures need a GL context.
func Run(opts Options, build func(f *Facade) (*engine.Scheduler, viz.Director, error)) error {
	OpenWindow(opts)
	defer rl.CloseWindow()

	facade := NewFacade()
	sched, director, err := build(facade)
	if err != nil {
		facade.Close()
		return err
	}
	if h := sched.Handle(); opts.FPS <= 0 && h != nil {
		rl.SetTargetFPS(int32(h.Config.Performance.TargetFPS))
	}
	return NewApp(sched, facade, director).RunLoop()
}
