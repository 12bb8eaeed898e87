package system

import (
	"image"
	"sync"
)

// PagePool recycles *image.NRGBA page buffers by size. Pages of a PDF usually
// share one size, so after the first page the conversion buffer for every
// scan comes from the pool.
type PagePool struct {
	mu    sync.Mutex
	pools map[image.Point]*sync.Pool
}

var pages = &PagePool{pools: make(map[image.Point]*sync.Pool)}

// GetPage returns a w×h buffer anchored at the origin. Its pixels are stale;
// callers overwrite every pixel before reading.
func GetPage(w, h int) *image.NRGBA {
	return pages.Get(w, h)
}

// PutPage releases img. It must not be used afterwards.
func PutPage(img *image.NRGBA) {
	pages.Put(img)
}

func (p *PagePool) pool(size image.Point) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	pool, ok := p.pools[size]
	if !ok {
		pool = &sync.Pool{
			New: func() any {
				return image.NewNRGBA(image.Rectangle{Max: size})
			},
		}
		p.pools[size] = pool
	}
	return pool
}

func (p *PagePool) Get(w, h int) *image.NRGBA {
	return p.pool(image.Pt(w, h)).Get().(*image.NRGBA)
}

func (p *PagePool) Put(img *image.NRGBA) {
	if img == nil || img.Rect.Min != (image.Point{}) {
		return
	}
	p.pool(img.Rect.Size()).Put(img)
}
