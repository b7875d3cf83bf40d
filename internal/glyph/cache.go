// Package glyph rasterizes text symbols into sprite textures and memoizes
// them per (symbol, color) for the life of the process.
package glyph

import (
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/san-kum/vibesaver/internal/render"
)

// Size is the edge length of every glyph texture in pixels.
const Size = 128

// Cache never evicts. Keys are few in practice: one symbol per
// configuration times the palette size.
type Cache struct {
	mu       sync.Mutex
	textures map[string]*render.Texture
	rasters  int
	faces    []font.Face
}

type Option func(*Cache)

// WithFonts puts fonts ahead of the built-in faces. Each rune is drawn with
// the first font that has a glyph for it.
func WithFonts(fonts ...*opentype.Font) Option {
	return func(c *Cache) {
		for _, f := range fonts {
			if face, err := newFace(f); err == nil {
				c.faces = append(c.faces, face)
			}
		}
	}
}

func NewCache(opts ...Option) *Cache {
	c := &Cache{textures: make(map[string]*render.Texture)}
	for _, opt := range opts {
		opt(c)
	}
	c.faces = append(c.faces, builtinFaces()...)
	return c
}

var (
	defaultOnce  sync.Once
	defaultCache *Cache
)

// Default returns the process-wide cache.
func Default() *Cache {
	defaultOnce.Do(func() { defaultCache = NewCache() })
	return defaultCache
}

func Key(symbol string, c colorful.Color) string {
	return symbol + "-" + c.Clamped().Hex()
}

// Symbol recovers the symbol a texture key was made from.
func Symbol(key string) string {
	if i := strings.LastIndex(key, "-#"); i > 0 {
		return key[:i]
	}
	return key
}

// Texture returns the texture for symbol drawn in c, rasterizing it on
// first use.
func (c *Cache) Texture(symbol string, col colorful.Color) *render.Texture {
	key := Key(symbol, col)
	c.mu.Lock()
	defer c.mu.Unlock()
	if tex, ok := c.textures[key]; ok {
		return tex
	}
	tex := &render.Texture{Key: key, Image: c.rasterize(symbol, col)}
	c.textures[key] = tex
	c.rasters++
	return tex
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}

// Rasterizations counts cache misses.
func (c *Cache) Rasterizations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rasters
}

// faceFor returns the first face with a glyph for r, or nil.
func (c *Cache) faceFor(r rune) font.Face {
	for _, face := range c.faces {
		if _, ok := face.GlyphAdvance(r); ok {
			return face
		}
	}
	return nil
}

// rasterize lays the runes of symbol out in equal square cells across a
// Size x Size canvas. Runes no face covers are drawn as a box holding their
// code point.
func (c *Cache) rasterize(symbol string, col colorful.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, Size, Size))
	runes := []rune(symbol)
	if len(runes) == 0 {
		return dst
	}

	r, g, b := col.Clamped().RGB255()
	src := image.NewUniform(color.RGBA{R: r, G: g, B: b, A: 0xff})

	cell := Size / len(runes)
	top := (Size - cell) / 2
	for i, ch := range runes {
		var tile *image.RGBA
		scaler := xdraw.ApproxBiLinear
		switch face := c.faceFor(ch); {
		case face == nil:
			tile = codePointBox(ch, src)
			scaler = xdraw.NearestNeighbor
		case face == basicfont.Face7x13:
			tile = drawRune(ch, face, src)
			scaler = xdraw.NearestNeighbor
		default:
			tile = drawRune(ch, face, src)
		}
		rect := image.Rect(i*cell, top, (i+1)*cell, top+cell)
		scaler.Scale(dst, rect, tile, tile.Bounds(), xdraw.Over, nil)
	}
	return dst
}
