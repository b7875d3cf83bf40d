package glyph

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// faceSize is the point size outline fonts are drawn at before scaling into
// a texture cell.
const faceSize = Size * 3 / 4

var (
	goRegularOnce sync.Once
	goRegular     *opentype.Font
)

// builtinFaces returns fresh faces for the embedded Go font and the ASCII
// bitmap font. Faces carry scratch buffers, so every cache gets its own.
func builtinFaces() []font.Face {
	goRegularOnce.Do(func() {
		goRegular, _ = opentype.Parse(goregular.TTF)
	})
	var faces []font.Face
	if goRegular != nil {
		if face, err := newFace(goRegular); err == nil {
			faces = append(faces, face)
		}
	}
	return append(faces, basicfont.Face7x13)
}

func newFace(f *opentype.Font) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    faceSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// LoadFont reads a TrueType or OpenType file. For a collection the first
// font is used.
func LoadFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	if strings.HasSuffix(strings.ToLower(path), ".ttc") {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
		f, err := coll.Font(0)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
		return f, nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

var systemFontPaths = []string{
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/google-noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/noto/NotoSansSymbols2-Regular.ttf",
	"/System/Library/Fonts/Hiragino Sans GB.ttc",
	"/System/Library/Fonts/Apple Symbols.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	`C:\Windows\Fonts\msgothic.ttc`,
	`C:\Windows\Fonts\seguisym.ttf`,
}

// SystemFonts returns the well-known wide-coverage fonts present on this
// machine, CJK before symbols.
func SystemFonts() []string {
	var found []string
	for _, p := range systemFontPaths {
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		}
	}
	return found
}

// drawRune draws r centered on a square tile sized to the face.
func drawRune(r rune, face font.Face, src image.Image) *image.RGBA {
	m := face.Metrics()
	adv, _ := face.GlyphAdvance(r)
	w := adv.Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	edge := max(w, h, 1)

	tile := image.NewRGBA(image.Rect(0, 0, edge, edge))
	d := &font.Drawer{
		Dst:  tile,
		Src:  src,
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I((edge - w) / 2),
			Y: fixed.I((edge-h)/2) + m.Ascent,
		},
	}
	d.DrawString(string(r))
	return tile
}

// codePointBox draws the hex code point of r in two rows inside a frame,
// so uncovered runes stay distinguishable from each other.
func codePointBox(r rune, src image.Image) *image.RGBA {
	digits := fmt.Sprintf("%04X", r)
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	half := len(digits) / 2
	face := basicfont.Face7x13
	const pad = 3
	w := half*face.Advance + 2*pad
	h := 2*face.Height + 2*pad
	edge := max(w, h)

	tile := image.NewRGBA(image.Rect(0, 0, edge, edge))
	x0, y0 := (edge-w)/2, (edge-h)/2
	frame := image.Rect(x0, y0, x0+w, y0+h)
	for _, side := range []image.Rectangle{
		image.Rect(frame.Min.X, frame.Min.Y, frame.Max.X, frame.Min.Y+1),
		image.Rect(frame.Min.X, frame.Max.Y-1, frame.Max.X, frame.Max.Y),
		image.Rect(frame.Min.X, frame.Min.Y, frame.Min.X+1, frame.Max.Y),
		image.Rect(frame.Max.X-1, frame.Min.Y, frame.Max.X, frame.Max.Y),
	} {
		draw.Draw(tile, side, src, image.Point{}, draw.Over)
	}

	d := &font.Drawer{Dst: tile, Src: src, Face: face}
	for row, text := range []string{digits[:half], digits[half:]} {
		d.Dot = fixed.P(x0+pad, y0+pad+row*face.Height+face.Ascent)
		d.DrawString(text)
	}
	return tile
}
