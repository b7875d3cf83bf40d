package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/engine"
	"github.com/san-kum/vibesaver/internal/metrics"
)

// DefaultFPS is the display refresh the player requests frames at.
const DefaultFPS = 60

const (
	chromeRows   = 2
	historyLen   = 120
	graphHeight  = 6
	helpMinWidth = 20
)

// Director decides which vibe plays and when it changes.
type Director interface {
	// Advance moves time forward by elapsed, swapping the scene when the
	// current entry has run its course.
	Advance(elapsed time.Duration) error
	// Skip jumps to the next vibe now.
	Skip() error
}

// Cycle is a Director that only changes vibe on request, stepping through
// a fixed list.
type Cycle struct {
	sched *engine.Scheduler
	vibes []*config.Vibe
	next  int
}

func NewCycle(sched *engine.Scheduler, vibes []*config.Vibe) *Cycle {
	return &Cycle{sched: sched, vibes: vibes, next: 1}
}

func (c *Cycle) Advance(time.Duration) error { return nil }

func (c *Cycle) Skip() error {
	if len(c.vibes) == 0 {
		return nil
	}
	v := c.vibes[c.next%len(c.vibes)]
	c.next++
	return c.sched.Swap(v)
}

// TickMsg requests one scheduler tick.
type TickMsg time.Time

type PlayerOption func(*Player)

func WithDirector(d Director) PlayerOption {
	return func(p *Player) { p.director = d }
}

func WithTheme(name string) PlayerOption {
	return func(p *Player) { p.theme = GetTheme(name) }
}

func WithFPS(fps int) PlayerOption {
	return func(p *Player) {
		if fps > 0 {
			p.fps = fps
		}
	}
}

// Player is a Bubble Tea model that drives a scheduler and shows the
// terminal backend's frames.
type Player struct {
	sched    *engine.Scheduler
	term     *Terminal
	director Director
	frames   *metrics.Recorder

	theme    Theme
	fps      int
	help     bool
	quitting bool
	last     time.Time
	err      error
}

// NewPlayer hosts sched, which must have been built on term.
func NewPlayer(sched *engine.Scheduler, term *Terminal, opts ...PlayerOption) *Player {
	p := &Player{
		sched:  sched,
		term:   term,
		frames: metrics.NewRecorder(historyLen),
		theme:  ThemeCyberpunk,
		fps:    DefaultFPS,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.director == nil {
		p.director = NewCycle(sched, nil)
	}
	sched.AddObserver(p.frames)
	return p
}

func (p *Player) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(p.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (p *Player) Init() tea.Cmd { return p.tick() }

func (p *Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)
	case tea.WindowSizeMsg:
		p.term.Resize(msg.Width, max(msg.Height-chromeRows, 1))
		return p, nil
	case TickMsg:
		if p.quitting {
			return p, nil
		}
		now := time.Time(msg)
		if !p.last.IsZero() && p.sched.Playing() {
			if err := p.director.Advance(now.Sub(p.last)); err != nil {
				p.err = err
			}
		}
		p.last = now
		if !p.sched.Tick() {
			p.quitting = true
			return p, tea.Quit
		}
		return p, p.tick()
	}
	return p, nil
}

func (p *Player) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		p.quitting = true
		if err := p.sched.Stop(); err != nil {
			p.err = err
		}
		return p, tea.Quit
	case " ":
		p.sched.SetPlaying(!p.sched.Playing())
	case "n":
		if err := p.director.Skip(); err != nil {
			p.err = err
		} else {
			p.err = nil
		}
	case "t":
		p.theme = nextTheme(p.theme)
	case "?":
		p.help = !p.help
	}
	return p, nil
}

func (p *Player) View() string {
	if p.quitting {
		return ""
	}
	st := stylesFor(p.theme)
	var b strings.Builder
	b.WriteString(p.term.Frame())
	b.WriteString(p.statusBar(st))
	if p.help {
		b.WriteByte('\n')
		b.WriteString(p.helpPanel(st))
	}
	return b.String()
}

func (p *Player) statusBar(st styles) string {
	title, tag := st.title.Render("-"), "-"
	if h := p.sched.Handle(); h != nil {
		tag = string(h.Tag)
		title = st.title.Render(h.Config.Name)
		if cols := h.Config.Colors(); len(cols) > 1 {
			title = GradientText(h.Config.Name, cols[0], cols[len(cols)-1])
		}
	}
	state := st.value.Render("▶")
	if !p.sched.Playing() {
		state = st.paused.Render("⏸")
	}
	parts := []string{
		state,
		title,
		st.label.Render("variant ") + st.value.Render(tag),
		st.label.Render("frame ") + st.value.Render(fmt.Sprintf("%d", p.sched.Frame())),
		st.label.Render("clock ") + st.value.Render(fmt.Sprintf("%.2f", p.sched.Clock())),
	}
	if d := p.sched.Degraded(); d > 0 {
		parts = append(parts, st.warning.Render(fmt.Sprintf("degraded %d", d)))
	}
	if p.err != nil {
		parts = append(parts, st.warning.Render(p.err.Error()))
	}
	parts = append(parts, st.hint.Render("? help"))
	return strings.Join(parts, "  ")
}

func (p *Player) helpPanel(st styles) string {
	keys := []string{
		"space  pause / resume",
		"n      next vibe",
		"t      theme (" + p.theme.Name + ")",
		"?      close help",
		"q      quit",
	}
	content := strings.Join(keys, "\n")
	if times := p.frames.FrameTimes(); len(times) > 1 {
		w := max(p.term.Canvas().Width-10, helpMinWidth)
		graph := asciigraph.Plot(times,
			asciigraph.Height(graphHeight),
			asciigraph.Width(w),
			asciigraph.Caption("frame time (ms)"),
		)
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", graph)
	}
	return st.panel.Render(content)
}

// Err returns the last director error, if any.
func (p *Player) Err() error { return p.err }

func (p *Player) Theme() Theme { return p.theme }

func (p *Player) ShowingHelp() bool { return p.help }

// Play runs the player full screen until the user quits or the backend
// closes.
func Play(p *Player) error {
	_, err := tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}
