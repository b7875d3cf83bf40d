// Package memory is a headless render backend. It keeps the scene graph in
// memory and counts frames; nothing is drawn.
package memory

import (
	"sync"

	"github.com/san-kum/vibesaver/internal/render"
)

type Facade struct {
	mu     sync.Mutex
	root   *render.Node
	camera *render.Camera
	fx     render.PostFX
	bg     render.Background
	frames int
	closed bool

	// OnRender, if set, is called with the scene root on every Render.
	OnRender func(root *render.Node, cam *render.Camera)
}

func New() *Facade {
	return &Facade{
		root:   render.NewGroup("scene"),
		camera: render.NewCamera(),
	}
}

func (f *Facade) Scene() *render.Node { return f.root }
func (f *Facade) Camera() *render.Camera { return f.camera }
func (f *Facade) PostFX() *render.PostFX { return &f.fx }
func (f *Facade) Background() render.Background { return f.bg }

func (f *Facade) SetBackground(bg render.Background) {
	f.bg = bg
}

func (f *Facade) Render() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return render.ErrClosed
	}
	f.frames++
	if f.OnRender != nil {
		f.OnRender(f.root, f.camera)
	}
	return nil
}

// Close detaches the whole graph. Further renders fail with ErrClosed.
func (f *Facade) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	f.root.RemoveChildren()
	return nil
}

func (f *Facade) Frames() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frames
}

func (f *Facade) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// LiveNodes is the number of nodes currently attached below the root.
func (f *Facade) LiveNodes() int {
	return f.root.CountNodes()
}

var _ render.Facade = (*Facade)(nil)
