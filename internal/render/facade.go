package render

import (
	"errors"
	"image"
	"math"
)

var ErrClosed = errors.New("render: facade closed")

// Texture is an opaque rasterized image shared by sprites.
type Texture struct {
	Key   string
	Image *image.RGBA
}

type BackgroundType uint8

const (
	BackgroundSolid BackgroundType = iota
	BackgroundGradient
	BackgroundNebula
	BackgroundGrid
	BackgroundImage
)

// Fog attenuates distant geometry toward Color. Density > 0 selects
// exponential fog, otherwise linear between Near and Far.
type Fog struct {
	Color     Color
	Near, Far float64
	Density   float64
}

// Factor is how much of the fog color replaces a surface at depth, in
// [0, 1].
func (f *Fog) Factor(depth float64) float64 {
	if f.Density > 0 {
		return 1 - math.Exp(-f.Density*f.Density*depth*depth)
	}
	if f.Far <= f.Near {
		return 0
	}
	return math.Max(0, math.Min(1, (depth-f.Near)/(f.Far-f.Near)))
}

type Background struct {
	Type   BackgroundType
	Color1 Color
	Color2 Color
	Fog    *Fog
	Image  image.Image
}

// PostFX holds the adjustable parameters of the post-processing chain.
type PostFX struct {
	BloomStrength float64
	BloomRadius   float64
	Grain         float64
	Chromatic     float64
}

// Facade is the rendering backend the engine drives. The engine only
// mutates the graph under Scene, the camera and PostFX, then calls Render.
type Facade interface {
	Scene() *Node
	Camera() *Camera
	PostFX() *PostFX
	SetBackground(Background)
	Background() Background
	Render() error
	// Close releases backend resources synchronously.
	Close() error
}
