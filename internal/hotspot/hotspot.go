// Package hotspot turns pixel bounding boxes into unit-square rectangles.
package hotspot

import "github.com/ivlev/hotspots/internal/analyzer"

// UVRect is a bounding box expressed as fractions of the grid size.
type UVRect struct {
	UMin float64 `yaml:"uMin"`
	UMax float64 `yaml:"uMax"`
	VMin float64 `yaml:"vMin"`
	VMax float64 `yaml:"vMax"`
}

// List is the ordered result of one scan, in region discovery order.
type List []UVRect

// Normalize divides each edge by the raw grid dimension, not dimension-1, so
// a box touching the last column reports UMax = (w-1)/w.
func Normalize(b analyzer.Bounds, w, h int) UVRect {
	fw, fh := float64(w), float64(h)
	return UVRect{
		UMin: float64(b.MinX) / fw,
		UMax: float64(b.MaxX) / fw,
		VMin: float64(b.MinY) / fh,
		VMax: float64(b.MaxY) / fh,
	}
}

// FromBounds normalizes every box, keeping order.
func FromBounds(bounds []analyzer.Bounds, w, h int) List {
	list := make(List, len(bounds))
	for i, b := range bounds {
		list[i] = Normalize(b, w, h)
	}
	return list
}
