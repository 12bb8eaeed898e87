package analyzer

import (
	"context"
	"fmt"
	"image"
	"image/color"
)

// Order is the fixed pixel visiting order of a scan. It decides the order in
// which regions are discovered and therefore the order of the output.
type Order int

const (
	// ColumnMajor walks x in the outer loop and y in the inner loop.
	ColumnMajor Order = iota
	// RowMajor walks y in the outer loop and x in the inner loop.
	RowMajor
)

func ParseOrder(s string) (Order, error) {
	switch s {
	case "column", "":
		return ColumnMajor, nil
	case "row":
		return RowMajor, nil
	default:
		return 0, fmt.Errorf("unknown scan order: %s", s)
	}
}

func (o Order) String() string {
	if o == RowMajor {
		return "row"
	}
	return "column"
}

// extents returns the outer and inner loop lengths for a w×h grid.
func (o Order) extents(w, h int) (outer, inner int) {
	if o == RowMajor {
		return h, w
	}
	return w, h
}

// point maps loop indices back to pixel coordinates.
func (o Order) point(outer, inner int) (x, y int) {
	if o == RowMajor {
		return inner, outer
	}
	return outer, inner
}

// slab returns the rectangle covering outer lines [from, to) of a w×h grid.
func (o Order) slab(w, h, from, to int) image.Rectangle {
	if o == RowMajor {
		return image.Rect(0, from, w, to)
	}
	return image.Rect(from, 0, to, h)
}

// Region is one traced component.
type Region struct {
	Bounds Bounds
	Pixels int
}

// Scanner is the sequential region scanner.
type Scanner struct {
	Order Order
}

func NewScanner(order Order) *Scanner {
	return &Scanner{Order: order}
}

// Scan returns the bounds of every 4-connected region of pixels equal to
// target, in discovery order. An empty result is not an error.
func (s *Scanner) Scan(src PixelSource, target color.NRGBA) []Bounds {
	regions, _ := s.Regions(context.Background(), src, target)
	return boundsOf(regions)
}

// ScanContext is Scan with cancellation checked once per outer line. A
// cancelled scan returns no regions.
func (s *Scanner) ScanContext(ctx context.Context, src PixelSource, target color.NRGBA) ([]Bounds, error) {
	regions, err := s.Regions(ctx, src, target)
	if err != nil {
		return nil, err
	}
	return boundsOf(regions), nil
}

func (s *Scanner) Detect(ctx context.Context, src PixelSource, target color.NRGBA) ([]Bounds, error) {
	return s.ScanContext(ctx, src, target)
}

// Regions is the full scan, reporting pixel counts alongside bounds.
func (s *Scanner) Regions(ctx context.Context, src PixelSource, target color.NRGBA) ([]Region, error) {
	w, h := src.Width(), src.Height()
	t := newTracer(src, target, image.Rect(0, 0, w, h))
	outer, inner := s.Order.extents(w, h)

	regions := []Region{}
	for o := 0; o < outer; o++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := 0; i < inner; i++ {
			x, y := s.Order.point(o, i)
			if t.visited(x, y) || !matches(src.ColorAt(x, y), target) {
				continue
			}
			b, n := t.trace(x, y, 0)
			regions = append(regions, Region{Bounds: b, Pixels: n})
		}
	}

	return regions, nil
}

func boundsOf(regions []Region) []Bounds {
	out := make([]Bounds, len(regions))
	for i, r := range regions {
		out[i] = r.Bounds
	}
	return out
}
