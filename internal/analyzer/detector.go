package analyzer

import (
	"context"
	"image/color"
)

// PixelSource is a read-only W×H grid of colours.
type PixelSource interface {
	Width() int
	Height() int
	ColorAt(x, y int) color.NRGBA
}

// Bounds is the inclusive pixel bounding box of one region.
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
}

func newBounds(x, y int) Bounds {
	return Bounds{MinX: x, MaxX: x, MinY: y, MaxY: y}
}

func (b *Bounds) include(x, y int) {
	b.MinX = min(b.MinX, x)
	b.MaxX = max(b.MaxX, x)
	b.MinY = min(b.MinY, y)
	b.MaxY = max(b.MaxY, y)
}

func (b Bounds) union(o Bounds) Bounds {
	return Bounds{
		MinX: min(b.MinX, o.MinX),
		MaxX: max(b.MaxX, o.MaxX),
		MinY: min(b.MinY, o.MinY),
		MaxY: max(b.MaxY, o.MaxY),
	}
}

// Detector finds the regions of src matching target, in discovery order.
type Detector interface {
	Detect(ctx context.Context, src PixelSource, target color.NRGBA) ([]Bounds, error)
}

// matches is the single colour predicate used by every scanner.
func matches(c, target color.NRGBA) bool {
	return c == target
}
