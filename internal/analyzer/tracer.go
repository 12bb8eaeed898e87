package analyzer

import (
	"image"
	"image/color"
)

// tracer flood-fills regions inside clip. The mask (and labels, when set)
// cover clip only and are indexed relative to clip.Min.
type tracer struct {
	src    PixelSource
	target color.NRGBA
	clip   image.Rectangle
	mask   *VisitedMask
	labels []int32
	stack  []image.Point
}

func newTracer(src PixelSource, target color.NRGBA, clip image.Rectangle) *tracer {
	return &tracer{
		src:    src,
		target: target,
		clip:   clip,
		mask:   NewVisitedMask(clip.Dx(), clip.Dy()),
	}
}

// visited reports whether (x, y) was already claimed by a region.
func (t *tracer) visited(x, y int) bool {
	return t.mask.IsVisited(x-t.clip.Min.X, y-t.clip.Min.Y)
}

// trace grows the region around the seed (x, y) and returns its bounds along
// with the number of pixels claimed. The stack lives on the heap, so region
// size never affects the goroutine stack.
func (t *tracer) trace(x, y int, label int32) (Bounds, int) {
	b := newBounds(x, y)
	n := 0

	t.stack = append(t.stack[:0], image.Point{X: x, Y: y})
	for len(t.stack) > 0 {
		p := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]

		if !p.In(t.clip) {
			continue
		}
		lx, ly := p.X-t.clip.Min.X, p.Y-t.clip.Min.Y
		if t.mask.IsVisited(lx, ly) || !matches(t.src.ColorAt(p.X, p.Y), t.target) {
			continue
		}

		t.mask.MarkVisited(lx, ly)
		if t.labels != nil {
			t.labels[ly*t.clip.Dx()+lx] = label
		}
		b.include(p.X, p.Y)
		n++

		t.stack = append(t.stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}

	return b, n
}
