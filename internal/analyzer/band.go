package analyzer

import (
	"context"
	"image"
	"image/color"
	"sort"

	"golang.org/x/sync/errgroup"
)

// BandScanner splits the outer scan axis into contiguous bands, traces each
// band concurrently with its own mask, and stitches regions that cross band
// seams. Its output is identical to Scanner's for the same Order.
type BandScanner struct {
	Order Order
	Bands int
}

func NewBandScanner(order Order, bands int) *BandScanner {
	return &BandScanner{Order: order, Bands: bands}
}

type bandPart struct {
	region Region
	seed   int // outer*inner + inner of the first pixel traced
}

type band struct {
	clip   image.Rectangle
	labels []int32
	parts  []bandPart
	base   int
}

func (b *band) label(x, y int) int32 {
	return b.labels[(y-b.clip.Min.Y)*b.clip.Dx()+(x-b.clip.Min.X)]
}

func (s *BandScanner) Detect(ctx context.Context, src PixelSource, target color.NRGBA) ([]Bounds, error) {
	regions, err := s.Regions(ctx, src, target)
	if err != nil {
		return nil, err
	}
	return boundsOf(regions), nil
}

func (s *BandScanner) Regions(ctx context.Context, src PixelSource, target color.NRGBA) ([]Region, error) {
	w, h := src.Width(), src.Height()
	outer, inner := s.Order.extents(w, h)
	if outer == 0 || inner == 0 {
		return []Region{}, nil
	}

	n := min(max(s.Bands, 1), outer)
	bands := make([]*band, n)
	for i := range bands {
		from, to := outer*i/n, outer*(i+1)/n
		bands[i] = &band{clip: s.Order.slab(w, h, from, to)}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, b := range bands {
		b := b
		g.Go(func() error {
			return s.traceBand(ctx, src, target, b, inner)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, b := range bands {
		b.base = total
		total += len(b.parts)
	}

	uf := newUnionFind(total)
	for i := 0; i+1 < len(bands); i++ {
		upper, lower := bands[i], bands[i+1]
		last, first := s.seam(upper, lower)
		for in := 0; in < inner; in++ {
			x1, y1 := s.Order.point(last, in)
			x2, y2 := s.Order.point(first, in)
			l1, l2 := upper.label(x1, y1), lower.label(x2, y2)
			if l1 >= 0 && l2 >= 0 {
				uf.union(upper.base+int(l1), lower.base+int(l2))
			}
		}
	}

	merged := make(map[int]*bandPart, total)
	for _, b := range bands {
		for i, p := range b.parts {
			root := uf.find(b.base + i)
			m, ok := merged[root]
			if !ok {
				cp := p
				merged[root] = &cp
				continue
			}
			m.region.Bounds = m.region.Bounds.union(p.region.Bounds)
			m.region.Pixels += p.region.Pixels
			m.seed = min(m.seed, p.seed)
		}
	}

	parts := make([]*bandPart, 0, len(merged))
	for _, p := range merged {
		parts = append(parts, p)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].seed < parts[j].seed })

	regions := make([]Region, len(parts))
	for i, p := range parts {
		regions[i] = p.region
	}
	return regions, nil
}

// seam returns the outer indices of the last line of upper and the first line
// of lower.
func (s *BandScanner) seam(upper, lower *band) (last, first int) {
	if s.Order == RowMajor {
		return upper.clip.Max.Y - 1, lower.clip.Min.Y
	}
	return upper.clip.Max.X - 1, lower.clip.Min.X
}

func (s *BandScanner) traceBand(ctx context.Context, src PixelSource, target color.NRGBA, b *band, inner int) error {
	t := newTracer(src, target, b.clip)
	t.labels = make([]int32, b.clip.Dx()*b.clip.Dy())
	for i := range t.labels {
		t.labels[i] = -1
	}

	from, to := b.clip.Min.X, b.clip.Max.X
	if s.Order == RowMajor {
		from, to = b.clip.Min.Y, b.clip.Max.Y
	}

	for o := from; o < to; o++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := 0; i < inner; i++ {
			x, y := s.Order.point(o, i)
			if t.visited(x, y) || !matches(src.ColorAt(x, y), target) {
				continue
			}
			bounds, n := t.trace(x, y, int32(len(b.parts)))
			b.parts = append(b.parts, bandPart{
				region: Region{Bounds: bounds, Pixels: n},
				seed:   o*inner + i,
			})
		}
	}

	b.labels = t.labels
	return nil
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

// union keeps the smaller index as root.
func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}
