// Package automation sequences vibes without a user at the keyboard:
// yaml playlists for screensaver rotation and headless parameter sweeps.
package automation

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/vibesaver/internal/config"
)

// DefaultDuration is how long an entry plays when the playlist gives no
// duration.
const DefaultDuration = 30 * time.Second

var ErrEmptyPlaylist = errors.New("automation: playlist has no entries")

// Playlist is a named rotation of vibes.
type Playlist struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Loop        bool    `yaml:"loop"`
	Shuffle     bool    `yaml:"shuffle"`
	Entries     []Entry `yaml:"entries"`

	vibes []*config.Vibe
}

// Entry names one vibe, either a built-in preset or a configuration file,
// with optional overrides.
type Entry struct {
	Preset    string          `yaml:"preset"`
	Config    string          `yaml:"config"`
	Duration  time.Duration   `yaml:"duration"`
	Geometry  config.Geometry `yaml:"geometry"`
	Intensity float64         `yaml:"intensity"`
}

// LoadPlaylist reads a playlist and resolves every entry. Config paths are
// relative to the playlist file.
func LoadPlaylist(path string) (*Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Playlist
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if err := p.Resolve(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("playlist %s: %w", path, err)
	}
	return &p, nil
}

// FromPresets builds a looping playlist that plays each preset for d.
func FromPresets(ids []string, d time.Duration) (*Playlist, error) {
	p := &Playlist{Name: "presets", Loop: true}
	for _, id := range ids {
		p.Entries = append(p.Entries, Entry{Preset: id, Duration: d})
	}
	if err := p.Resolve("."); err != nil {
		return nil, err
	}
	return p, nil
}

// Resolve loads the vibe behind every entry and checks it at the
// configuration boundary.
func (p *Playlist) Resolve(dir string) error {
	if len(p.Entries) == 0 {
		return ErrEmptyPlaylist
	}
	p.vibes = make([]*config.Vibe, len(p.Entries))
	for i := range p.Entries {
		e := &p.Entries[i]
		v, err := e.vibe(dir)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
		if err := config.Prepare(v); err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
		if e.Duration <= 0 {
			e.Duration = DefaultDuration
		}
		p.vibes[i] = v
	}
	return nil
}

func (e Entry) vibe(dir string) (*config.Vibe, error) {
	var v *config.Vibe
	switch {
	case e.Preset != "" && e.Config != "":
		return nil, errors.New("preset and config are mutually exclusive")
	case e.Preset != "":
		v = config.GetPreset(e.Preset)
		if v == nil {
			return nil, fmt.Errorf("unknown preset: %s", e.Preset)
		}
	case e.Config != "":
		path := e.Config
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		var err error
		if v, err = config.Load(path); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("needs a preset or a config")
	}
	if e.Geometry != "" {
		v.Geometry.Type = e.Geometry
	}
	if e.Intensity > 0 {
		v.Motion.Intensity = e.Intensity
	}
	return v, nil
}

// Vibe returns the resolved configuration of entry i.
func (p *Playlist) Vibe(i int) *config.Vibe {
	return p.vibes[i]
}

func (p *Playlist) Len() int {
	return len(p.vibes)
}

// Swapper applies a configuration to a running scene.
type Swapper interface {
	Swap(cfg *config.Vibe) error
}

// Runner plays a playlist against a scheduler. It satisfies the player's
// Director so the terminal and window hosts can drive it.
type Runner struct {
	playlist *Playlist
	target   Swapper
	rand     *rand.Rand

	order   []int
	pos     int
	elapsed time.Duration
	done    bool
}

func NewRunner(p *Playlist, target Swapper, seed int64) *Runner {
	r := &Runner{
		playlist: p,
		target:   target,
		rand:     rand.New(rand.NewSource(seed)),
	}
	r.reorder()
	return r
}

func (r *Runner) reorder() {
	n := r.playlist.Len()
	if r.playlist.Shuffle {
		r.order = r.rand.Perm(n)
		return
	}
	r.order = make([]int, n)
	for i := range r.order {
		r.order[i] = i
	}
}

// Start swaps in the first entry.
func (r *Runner) Start() error {
	if r.playlist.Len() == 0 {
		return ErrEmptyPlaylist
	}
	r.pos, r.elapsed, r.done = 0, 0, false
	return r.swap()
}

func (r *Runner) swap() error {
	i := r.order[r.pos]
	if err := r.target.Swap(r.playlist.Vibe(i)); err != nil {
		return fmt.Errorf("entry %d: %w", i+1, err)
	}
	return nil
}

// Advance moves the playlist clock forward, swapping entries whose
// duration has run out. A finished playlist that does not loop stays on
// its last entry.
func (r *Runner) Advance(elapsed time.Duration) error {
	if r.done || elapsed <= 0 {
		return nil
	}
	r.elapsed += elapsed
	for !r.done {
		d := r.playlist.Entries[r.order[r.pos]].Duration
		if r.elapsed < d {
			return nil
		}
		r.elapsed -= d
		if err := r.next(r.playlist.Loop); err != nil {
			return err
		}
	}
	return nil
}

// Skip moves to the next entry immediately, wrapping around at the end.
func (r *Runner) Skip() error {
	r.elapsed = 0
	r.done = false
	return r.next(true)
}

func (r *Runner) next(wrap bool) error {
	if r.pos+1 < len(r.order) {
		r.pos++
		return r.swap()
	}
	if !wrap {
		r.done = true
		return nil
	}
	r.pos = 0
	if r.playlist.Shuffle {
		r.reorder()
	}
	return r.swap()
}

// Current returns the index of the playing entry.
func (r *Runner) Current() int {
	return r.order[r.pos]
}

// Done reports whether a non-looping playlist has played out.
func (r *Runner) Done() bool {
	return r.done
}
