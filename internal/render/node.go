package render

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

type Color = colorful.Color

var White = Color{R: 1, G: 1, B: 1}

// NodeType selects which of Node's field groups a backend reads.
type NodeType uint8

const (
	NodeGroup NodeType = iota
	NodeMesh
	NodeBatch
	NodeSurface
	NodeSprite
	NodeLight
	NodeGrid
)

func (t NodeType) String() string {
	switch t {
	case NodeGroup:
		return "group"
	case NodeMesh:
		return "mesh"
	case NodeBatch:
		return "batch"
	case NodeSurface:
		return "surface"
	case NodeSprite:
		return "sprite"
	case NodeLight:
		return "light"
	case NodeGrid:
		return "grid"
	}
	return "unknown"
}

type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeSphere
	ShapeBox
	ShapeTetra
	ShapeOcta
	ShapeIcosa
	ShapeTorus
	ShapeCylinder
	ShapeCone
	ShapeRing
	ShapePlane
	ShapePoint
)

type LightType uint8

const (
	LightAmbient LightType = iota
	LightDirectional
	LightPoint
)

// Material is an opaque shading hint passed through to the backend.
type Material string

// Instance is one slot of a batch: its transform, color and visibility
// live together so index i always means one entity.
type Instance struct {
	Transform
	Color  Color
	Hidden bool
}

// Node is the retained scene graph element. One flat struct serves every
// node type; Type says which fields apply.
type Node struct {
	Name string
	Type NodeType

	Parent   *Node
	children []*Node

	Transform
	Visible bool
	Opacity float64

	// Mesh, Batch, Surface
	Shape    Shape
	Size     Vec3
	Material Material
	Color    Color

	// Batch
	Instances []Instance

	// Surface: Cols*Rows vertices in row-major order, local space.
	Vertices   []Vec3
	Cols, Rows int

	// Sprite
	Texture *Texture

	// Light
	Light     LightType
	Intensity float64
	Range     float64

	// Grid
	Color2    Color
	Extent    float64
	Divisions int
}

func nodeDefaults(n *Node) {
	n.Transform = Identity()
	n.Visible = true
	n.Opacity = 1
	n.Color = White
}

func NewGroup(name string) *Node {
	n := &Node{Name: name, Type: NodeGroup}
	nodeDefaults(n)
	return n
}

// NewMesh creates a single shaded primitive. size is the shape's dimension
// triple: radius in X for spheres, extents for boxes.
func NewMesh(name string, shape Shape, size Vec3, mat Material, color Color) *Node {
	n := &Node{Name: name, Type: NodeMesh, Shape: shape, Size: size, Material: mat}
	nodeDefaults(n)
	n.Color = color
	return n
}

// NewBatch creates an instanced draw of count copies of one primitive. All
// slots start at the identity transform with the given color.
func NewBatch(name string, shape Shape, size Vec3, mat Material, count int) *Node {
	n := &Node{Name: name, Type: NodeBatch, Shape: shape, Size: size, Material: mat}
	nodeDefaults(n)
	n.Instances = make([]Instance, count)
	for i := range n.Instances {
		n.Instances[i] = Instance{Transform: Identity(), Color: White}
	}
	return n
}

// NewPoints is a batch of screen-sized points.
func NewPoints(name string, size float64, count int) *Node {
	return NewBatch(name, ShapePoint, Vec3{size, size, size}, "", count)
}

// NewSurface creates a width x height plane subdivided into cols x rows
// segments, lying in the local XY plane.
func NewSurface(name string, width, height float64, cols, rows int, mat Material, color Color) *Node {
	n := &Node{Name: name, Type: NodeSurface, Shape: ShapePlane, Size: Vec3{width, height, 0}, Material: mat}
	nodeDefaults(n)
	n.Color = color
	n.Cols, n.Rows = cols+1, rows+1
	n.Vertices = make([]Vec3, 0, n.Cols*n.Rows)
	for r := 0; r < n.Rows; r++ {
		for c := 0; c < n.Cols; c++ {
			x := -width/2 + width*float64(c)/float64(cols)
			y := height/2 - height*float64(r)/float64(rows)
			n.Vertices = append(n.Vertices, Vec3{x, y, 0})
		}
	}
	return n
}

func NewSprite(name string, tex *Texture) *Node {
	n := &Node{Name: name, Type: NodeSprite, Texture: tex}
	nodeDefaults(n)
	return n
}

func NewLight(name string, kind LightType, color Color, intensity float64) *Node {
	n := &Node{Name: name, Type: NodeLight, Light: kind, Intensity: intensity}
	nodeDefaults(n)
	n.Color = color
	return n
}

// NewGrid creates a ground-plane helper extent units wide.
func NewGrid(name string, extent float64, divisions int, center, lines Color) *Node {
	n := &Node{Name: name, Type: NodeGrid, Extent: extent, Divisions: divisions}
	nodeDefaults(n)
	n.Color = center
	n.Color2 = lines
	return n
}

// AddChild appends child, detaching it from any previous parent.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("render: cannot add nil child")
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child. No-op if child is not a direct child.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			child.Parent = nil
			return
		}
	}
}

func (n *Node) RemoveFromParent() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// RemoveChildren detaches every child and returns them.
func (n *Node) RemoveChildren() []*Node {
	out := n.children
	for _, c := range out {
		c.Parent = nil
	}
	n.children = nil
	return out
}

// Children returns the child list. Callers must not mutate it.
func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) NumChildren() int {
	return len(n.children)
}

// Walk visits n and its descendants depth first, passing each node's world
// matrix. Returning false from fn skips that node's subtree.
func (n *Node) Walk(fn func(node *Node, world mgl64.Mat4) bool) {
	n.walk(mgl64.Ident4(), fn)
}

func (n *Node) walk(parent mgl64.Mat4, fn func(*Node, mgl64.Mat4) bool) {
	world := parent.Mul4(n.Matrix())
	if !fn(n, world) {
		return
	}
	for _, c := range n.children {
		c.walk(world, fn)
	}
}

// CountNodes returns the number of nodes below n, excluding n.
func (n *Node) CountNodes() int {
	total := 0
	for _, c := range n.children {
		total += 1 + c.CountNodes()
	}
	return total
}

// CountInstances sums batch slots, sprites and meshes below n: the number
// of individually animated entities.
func (n *Node) CountInstances() int {
	total := 0
	for _, c := range n.children {
		switch c.Type {
		case NodeBatch:
			total += len(c.Instances)
		case NodeMesh, NodeSprite, NodeSurface:
			total++
		}
		total += c.CountInstances()
	}
	return total
}

func (n *Node) Len() int {
	return len(n.Instances)
}

func (n *Node) SetInstance(i int, t Transform) {
	n.Instances[i].Transform = t
}

func (n *Node) SetInstanceColor(i int, c Color) {
	n.Instances[i].Color = c
}

func (n *Node) SetInstanceHidden(i int, hidden bool) {
	n.Instances[i].Hidden = hidden
}
