package analyzer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Grid is an in-memory PixelSource.
type Grid struct {
	w, h int
	pix  []color.NRGBA
}

func NewGrid(w, h int) *Grid {
	if w < 0 || h < 0 {
		panic(fmt.Sprintf("analyzer: negative grid size %dx%d", w, h))
	}
	return &Grid{w: w, h: h, pix: make([]color.NRGBA, w*h)}
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }

func (g *Grid) ColorAt(x, y int) color.NRGBA {
	return g.pix[g.index(x, y)]
}

func (g *Grid) Set(x, y int, c color.NRGBA) {
	g.pix[g.index(x, y)] = c
}

// Fill paints every pixel with c.
func (g *Grid) Fill(c color.NRGBA) {
	for i := range g.pix {
		g.pix[i] = c
	}
}

func (g *Grid) index(x, y int) int {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		panic(fmt.Sprintf("analyzer: pixel access (%d,%d) outside %dx%d", x, y, g.w, g.h))
	}
	return y*g.w + x
}

// ImageGrid exposes a decoded image as a PixelSource. Coordinates are relative
// to the image's Bounds().Min.
type ImageGrid struct {
	img  *image.NRGBA
	w, h int
}

// WrapNRGBA uses img directly; the caller must not modify it while scanning.
func WrapNRGBA(img *image.NRGBA) *ImageGrid {
	b := img.Bounds()
	return &ImageGrid{img: img, w: b.Dx(), h: b.Dy()}
}

// NewImageGrid converts img to non-premultiplied RGBA when needed, drawing
// into dst if its size matches img and into a fresh buffer otherwise. dst is
// untouched when img is already NRGBA.
func NewImageGrid(img image.Image, dst *image.NRGBA) *ImageGrid {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return WrapNRGBA(nrgba)
	}
	b := img.Bounds()
	if dst == nil || dst.Rect.Size() != b.Size() {
		dst = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return WrapNRGBA(dst)
}

func (g *ImageGrid) Width() int  { return g.w }
func (g *ImageGrid) Height() int { return g.h }

func (g *ImageGrid) ColorAt(x, y int) color.NRGBA {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		panic(fmt.Sprintf("analyzer: pixel access (%d,%d) outside %dx%d", x, y, g.w, g.h))
	}
	o := g.img.Rect.Min
	return g.img.NRGBAAt(o.X+x, o.Y+y)
}
