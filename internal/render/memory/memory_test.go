package memory

import (
	"errors"
	"testing"

	"github.com/san-kum/vibesaver/internal/render"
)

func TestFacade(t *testing.T) {
	f := New()
	f.Scene().AddChild(render.NewGroup("a"))
	f.Scene().AddChild(render.NewGroup("b"))

	if got := f.LiveNodes(); got != 2 {
		t.Errorf("expected 2 live nodes, got %d", got)
	}

	var seen int
	f.OnRender = func(root *render.Node, _ *render.Camera) { seen = root.CountNodes() }
	for i := 0; i < 3; i++ {
		if err := f.Render(); err != nil {
			t.Fatal(err)
		}
	}
	if f.Frames() != 3 || seen != 2 {
		t.Errorf("expected 3 frames seeing 2 nodes, got %d frames, %d nodes", f.Frames(), seen)
	}

	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if f.LiveNodes() != 0 {
		t.Errorf("close should release the graph, %d nodes left", f.LiveNodes())
	}
	if err := f.Render(); !errors.Is(err, render.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
}
