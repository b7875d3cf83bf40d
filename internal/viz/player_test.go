package viz

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/engine"
	"github.com/san-kum/vibesaver/internal/variant"
)

func newTestPlayer(t *testing.T, opts ...PlayerOption) (*Player, *engine.Scheduler, *Terminal) {
	t.Helper()
	term := NewTerminal(40, 12)
	b := engine.NewBuilder(term, variant.NewRegistry(), nil, engine.WithSeed(1))
	sched := engine.NewScheduler(b)
	vibes := []*config.Vibe{config.GetPreset("ambient-drift"), config.GetPreset("digital-rain")}
	if err := sched.Swap(vibes[0]); err != nil {
		t.Fatal(err)
	}
	opts = append([]PlayerOption{WithDirector(NewCycle(sched, vibes))}, opts...)
	return NewPlayer(sched, term, opts...), sched, term
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPlayerTicks(t *testing.T) {
	p, sched, term := newTestPlayer(t)
	now := time.Now()
	for i := 0; i < 3; i++ {
		_, cmd := p.Update(TickMsg(now.Add(time.Duration(i) * 16 * time.Millisecond)))
		if cmd == nil {
			t.Fatal("tick should re-arm")
		}
	}
	if sched.Frame() != 3 || term.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d ticks and %d renders", sched.Frame(), term.Frames())
	}
	if !strings.Contains(p.View(), "Ambient Drift") {
		t.Errorf("status bar should name the vibe:\n%s", p.View())
	}
}

func TestPlayerPause(t *testing.T) {
	p, sched, _ := newTestPlayer(t)
	p.Update(key(" "))
	if sched.Playing() {
		t.Fatal("space should pause")
	}
	p.Update(TickMsg(time.Now()))
	if sched.Frame() != 0 {
		t.Errorf("paused player should not advance, got frame %d", sched.Frame())
	}
	p.Update(key(" "))
	p.Update(TickMsg(time.Now()))
	if sched.Frame() != 1 {
		t.Errorf("resumed player should advance, got frame %d", sched.Frame())
	}
}

func TestPlayerNextVibe(t *testing.T) {
	p, sched, _ := newTestPlayer(t)
	p.Update(key("n"))
	if tag := sched.Handle().Tag; tag != config.GeometryMatrixRain {
		t.Errorf("expected matrix rain after skip, got %s", tag)
	}
	p.Update(key("n"))
	if tag := sched.Handle().Tag; tag != config.GeometryParticles {
		t.Errorf("skip should wrap around, got %s", tag)
	}
}

func TestPlayerThemeAndHelp(t *testing.T) {
	p, _, _ := newTestPlayer(t, WithTheme("ocean"))
	p.Update(key("t"))
	if p.Theme().Name != "sunset" {
		t.Errorf("expected sunset after ocean, got %s", p.Theme().Name)
	}
	p.Update(TickMsg(time.Now()))
	p.Update(TickMsg(time.Now().Add(time.Second)))
	p.Update(key("?"))
	if !p.ShowingHelp() || !strings.Contains(p.View(), "next vibe") {
		t.Error("help overlay should list bindings")
	}
	if !strings.Contains(p.View(), "frame time") {
		t.Error("help overlay should chart frame times")
	}
}

func TestPlayerQuit(t *testing.T) {
	p, sched, term := newTestPlayer(t)
	_, cmd := p.Update(key("q"))
	if !isQuit(cmd) {
		t.Fatal("q should quit")
	}
	if !sched.Stopped() {
		t.Error("quit should stop the scheduler")
	}
	if err := term.Render(); err == nil {
		t.Error("backend should be closed after quit")
	}
	if p.View() != "" {
		t.Error("view should be empty after quit")
	}
}

func TestPlayerQuitsWhenBackendCloses(t *testing.T) {
	p, _, term := newTestPlayer(t)
	if err := term.Close(); err != nil {
		t.Fatal(err)
	}
	_, cmd := p.Update(TickMsg(time.Now()))
	if !isQuit(cmd) {
		t.Error("closed backend should end the program")
	}
}

type failingDirector struct{ err error }

func (d failingDirector) Advance(time.Duration) error { return d.err }
func (d failingDirector) Skip() error { return d.err }

func TestPlayerDirectorError(t *testing.T) {
	boom := errors.New("playlist exhausted")
	p, _, _ := newTestPlayer(t, WithDirector(failingDirector{boom}))
	now := time.Now()
	p.Update(TickMsg(now))
	p.Update(TickMsg(now.Add(time.Second)))
	if !errors.Is(p.Err(), boom) {
		t.Errorf("expected director error, got %v", p.Err())
	}
	if !strings.Contains(p.View(), "playlist exhausted") {
		t.Error("status bar should show the error")
	}
}

func TestPlayerResize(t *testing.T) {
	p, _, term := newTestPlayer(t)
	p.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	if c := term.Canvas(); c.Width != 80 || c.Height != 30-chromeRows {
		t.Errorf("expected canvas 80x%d, got %dx%d", 30-chromeRows, c.Width, c.Height)
	}
}
