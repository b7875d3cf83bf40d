package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNodeTree(t *testing.T) {
	root := NewGroup("root")
	a := NewGroup("a")
	b := NewMesh("b", ShapeSphere, Vec3{1, 1, 1}, "", White)
	root.AddChild(a)
	a.AddChild(b)
	root.AddChild(NewBatch("batch", ShapeBox, Vec3{1, 1, 1}, "", 10))

	if got := root.CountNodes(); got != 3 {
		t.Errorf("expected 3 nodes, got %d", got)
	}
	if got := root.CountInstances(); got != 11 {
		t.Errorf("expected 11 instances, got %d", got)
	}

	root.AddChild(b)
	if b.Parent != root {
		t.Error("reparent should move b to root")
	}
	if a.NumChildren() != 0 {
		t.Errorf("expected a to be empty, got %d children", a.NumChildren())
	}

	removed := root.RemoveChildren()
	if len(removed) != 3 || root.CountNodes() != 0 {
		t.Errorf("expected 3 removed and empty root, got %d removed, %d live", len(removed), root.CountNodes())
	}
	for _, n := range removed {
		if n.Parent != nil {
			t.Errorf("%s still has a parent", n.Name)
		}
	}
}

func TestRemoveChild_NotChild(t *testing.T) {
	root := NewGroup("root")
	other := NewGroup("other")
	root.RemoveChild(other)
	if root.NumChildren() != 0 {
		t.Error("removing a stranger should be a no-op")
	}
}

func TestNewSurface(t *testing.T) {
	s := NewSurface("s", 30, 5, 60, 10, "", White)
	if len(s.Vertices) != 61*11 {
		t.Fatalf("expected %d vertices, got %d", 61*11, len(s.Vertices))
	}
	first, last := s.Vertices[0], s.Vertices[len(s.Vertices)-1]
	if first.X() != -15 || first.Y() != 2.5 {
		t.Errorf("unexpected first vertex %v", first)
	}
	if math.Abs(last.X()-15) > 1e-9 || math.Abs(last.Y()+2.5) > 1e-9 {
		t.Errorf("unexpected last vertex %v", last)
	}
}

func TestFaceDirection(t *testing.T) {
	tests := []Vec3{{1, 0, 0}, {0, 1, 0}, {0, -1, -1}, {0, 0, -1}}
	for _, dir := range tests {
		q := FaceDirection(dir)
		got := q.Rotate(Vec3{0, 0, 1})
		if !got.ApproxEqualThreshold(dir.Normalize(), 1e-6) {
			t.Errorf("FaceDirection(%v) rotates +Z to %v", dir, got)
		}
	}
	if q := FaceDirection(Vec3{}); q != mgl64.QuatIdent() {
		t.Errorf("zero direction should give identity, got %v", q)
	}
}

func TestAxisAngle(t *testing.T) {
	tr := Identity()
	tr.Rotation = mgl64.QuatRotate(math.Pi/2, Vec3{0, 1, 0})
	axis, deg := tr.AxisAngle()
	if math.Abs(deg-90) > 1e-9 {
		t.Errorf("expected 90 degrees, got %f", deg)
	}
	if !axis.ApproxEqualThreshold(Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("expected Y axis, got %v", axis)
	}

	_, deg = Identity().AxisAngle()
	if deg != 0 {
		t.Errorf("identity should have zero angle, got %f", deg)
	}
}

func TestProject(t *testing.T) {
	cam := NewCamera()
	root := NewGroup("root")
	center := NewMesh("center", ShapeSphere, Vec3{1, 1, 1}, "", White)
	behind := NewMesh("behind", ShapeSphere, Vec3{1, 1, 1}, "", White)
	behind.Position = Vec3{0, 0, 40}
	hidden := NewMesh("hidden", ShapeSphere, Vec3{1, 1, 1}, "", White)
	hidden.Visible = false
	root.AddChild(center)
	root.AddChild(behind)
	root.AddChild(hidden)

	pts := Project(root, cam, 200, 100)
	if len(pts) != 1 {
		t.Fatalf("expected 1 visible point, got %d", len(pts))
	}
	if math.Abs(pts[0].X-100) > 1e-6 || math.Abs(pts[0].Y-50) > 1e-6 {
		t.Errorf("origin should land at screen center, got (%f, %f)", pts[0].X, pts[0].Y)
	}
}

func TestProject_HiddenInstances(t *testing.T) {
	cam := NewCamera()
	root := NewGroup("root")
	b := NewBatch("b", ShapeBox, Vec3{1, 1, 1}, "", 4)
	b.SetInstanceHidden(1, true)
	b.SetInstanceHidden(3, true)
	root.AddChild(b)

	if got := len(Project(root, cam, 80, 80)); got != 2 {
		t.Errorf("expected 2 points, got %d", got)
	}
}

func TestProject_SortedFarToNear(t *testing.T) {
	cam := NewCamera()
	root := NewGroup("root")
	for _, z := range []float64{5, -5, 0} {
		m := NewMesh("m", ShapeSphere, Vec3{1, 1, 1}, "", White)
		m.Position = Vec3{0, 0, z}
		root.AddChild(m)
	}
	pts := Project(root, cam, 100, 100)
	for i := 1; i < len(pts); i++ {
		if pts[i].Depth > pts[i-1].Depth {
			t.Fatalf("points not sorted far to near: %v", pts)
		}
	}
}

func TestFogFactor(t *testing.T) {
	linear := &Fog{Near: 10, Far: 20}
	tests := []struct {
		name  string
		fog   *Fog
		depth float64
		want  float64
	}{
		{"before near", linear, 5, 0},
		{"midway", linear, 15, 0.5},
		{"past far", linear, 40, 1},
		{"degenerate", &Fog{Near: 5, Far: 5}, 30, 0},
		{"exp at eye", &Fog{Density: 0.1}, 0, 0},
		{"exp", &Fog{Density: 0.1}, 10, 1 - math.Exp(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fog.Factor(tt.depth); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestProject_ScreenSize(t *testing.T) {
	root := NewGroup("root")
	near := NewMesh("near", ShapeSphere, Vec3{1, 1, 1}, "", White)
	far := NewMesh("far", ShapeSphere, Vec3{1, 1, 1}, "", White)
	far.Position = Vec3{0, 0, -20}
	root.AddChild(near)
	root.AddChild(far)

	pts := Project(root, NewCamera(), 100, 100)
	if len(pts) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pts))
	}
	if math.Abs(pts[0].Size*2-pts[1].Size) > 1e-6 {
		t.Errorf("twice the depth should halve the size: far %f near %f", pts[0].Size, pts[1].Size)
	}
}
