package source

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ErrSourceUnavailable wraps every failure to open, decode or render input.
var ErrSourceUnavailable = errors.New("pixel source unavailable")

// Source is a sequence of pages that can be rasterised to images. PageSize
// reports the raster size RenderPage will produce at dpi without rendering.
type Source interface {
	PageCount() int
	PageSize(index int, dpi int) (image.Point, error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Options tunes sources that generate their own pixels.
type Options struct {
	QRSize int
}

// Open picks a source by input: "qr:<text>" renders a QR code, *.pdf opens a
// PDF document, anything else is an image file or a directory of images.
func Open(input string, opts Options) (Source, error) {
	var (
		src Source
		err error
	)

	switch {
	case strings.HasPrefix(input, "qr:"):
		src, err = NewQRSource(strings.TrimPrefix(input, "qr:"), opts.QRSize)
	case strings.HasSuffix(strings.ToLower(input), ".pdf"):
		src, err = NewFitzPDFSource(input)
	default:
		src, err = NewImageSource(input)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, input, err)
	}
	if src.PageCount() == 0 {
		src.Close()
		return nil, fmt.Errorf("%w: %s: нет страниц или изображений", ErrSourceUnavailable, input)
	}
	return src, nil
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

// PageSize scales the page box, given in points, to pixels at dpi.
func (f *FitzPDFSource) PageSize(index int, dpi int) (image.Point, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(pointsToPixels(rect.Dx(), dpi), pointsToPixels(rect.Dy(), dpi)), nil
}

func pointsToPixels(points, dpi int) int {
	return int(math.Ceil(float64(points) * float64(dpi) / 72))
}

// RenderPage opens its own document so pages can be rendered concurrently.
func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
