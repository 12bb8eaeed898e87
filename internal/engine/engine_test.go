package engine

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ivlev/hotspots/internal/analyzer"
	"github.com/ivlev/hotspots/internal/config"
	"github.com/ivlev/hotspots/internal/export"
	"github.com/ivlev/hotspots/internal/hotspot"
	"github.com/ivlev/hotspots/internal/source"
)

var red = color.NRGBA{R: 255, A: 255}

// pageSource serves prepared images as pages. fail breaks rendering of one
// page, sizeFail breaks its size lookup.
type pageSource struct {
	pages    []image.Image
	fail     int
	sizeFail int
	renders  atomic.Int32
}

func (s *pageSource) PageCount() int { return len(s.pages) }

func (s *pageSource) PageSize(i int, dpi int) (image.Point, error) {
	if i == s.sizeFail {
		return image.Point{}, errors.New("unreadable header")
	}
	return s.pages[i].Bounds().Size(), nil
}

func (s *pageSource) RenderPage(i int, dpi int) (image.Image, error) {
	s.renders.Add(1)
	if i == s.fail {
		return nil, errors.New("corrupt page")
	}
	return s.pages[i], nil
}

func (s *pageSource) Close() error { return nil }

// page draws a w×h opaque black RGBA page with red pixels at points.
func page(w, h int, points ...image.Point) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{A: 255})
		}
	}
	for _, p := range points {
		img.SetRGBA(p.X, p.Y, color.RGBA{R: 255, A: 255})
	}
	return img
}

func newProject(t *testing.T, src source.Source, output string) *Project {
	t.Helper()
	cfg := config.Default()
	cfg.InputPath = "atlas.png"
	cfg.OutputPath = output
	cfg.Workers = 2
	require.NoError(t, cfg.Validate())

	det, err := analyzer.NewDetector(cfg.Detector, analyzer.ColumnMajor, cfg.Bands)
	require.NoError(t, err)
	exp, err := export.NewExporter(cfg.Format, cfg.ListName)
	require.NoError(t, err)
	return NewProject(cfg, src, det, exp)
}

func TestRunSinglePage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hotspots.ts")
	src := &pageSource{pages: []image.Image{page(4, 4, image.Pt(1, 1))}, fail: -1, sizeFail: -1}

	results, err := newProject(t, src, out).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, []analyzer.Bounds{{MinX: 1, MaxX: 1, MinY: 1, MaxY: 1}}, results[0].Bounds)
	require.Equal(t, hotspot.List{{UMin: 0.25, UMax: 0.25, VMin: 0.25, VMax: 0.25}}, results[0].Hotspots)
	require.Equal(t, out, results[0].Output)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "export const hotspots = [\n"+
		"  { uMin: 0.2500, uMax: 0.2500, vMin: 0.2500, vMax: 0.2500 },\n"+
		"];\n", string(data))
}

func TestRunMultiPage(t *testing.T) {
	dir := t.TempDir()
	full := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			full.SetNRGBA(x, y, red)
		}
	}
	src := &pageSource{pages: []image.Image{
		page(4, 4, image.Pt(0, 0), image.Pt(3, 3)),
		full,
		page(2, 2),
	}, fail: -1, sizeFail: -1}

	results, err := newProject(t, src, filepath.Join(dir, "out.ts")).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.Equal(t, []analyzer.Bounds{{MinX: 0, MaxX: 0, MinY: 0, MaxY: 0}, {MinX: 3, MaxX: 3, MinY: 3, MaxY: 3}}, results[0].Bounds)
	require.Equal(t, []analyzer.Bounds{{MinX: 0, MaxX: 2, MinY: 0, MaxY: 1}}, results[1].Bounds)
	require.Empty(t, results[2].Hotspots)

	for i, r := range results {
		require.Equal(t, i, r.Page)
		require.FileExists(t, filepath.Join(dir, []string{"out_p1.ts", "out_p2.ts", "out_p3.ts"}[i]))
	}

	empty, err := os.ReadFile(filepath.Join(dir, "out_p3.ts"))
	require.NoError(t, err)
	require.Equal(t, "export const hotspots = [\n];\n", string(empty))
}

func TestRunSourceFailure(t *testing.T) {
	src := &pageSource{pages: []image.Image{page(2, 2), page(2, 2)}, fail: 1, sizeFail: -1}

	results, err := newProject(t, src, filepath.Join(t.TempDir(), "out.ts")).Run(context.Background())
	require.ErrorIs(t, err, source.ErrSourceUnavailable)
	require.Nil(t, results)
}

func TestScanPageSizesBeforeRendering(t *testing.T) {
	src := &pageSource{pages: []image.Image{page(2, 2)}, fail: -1, sizeFail: 0}

	_, err := newProject(t, src, filepath.Join(t.TempDir(), "out.ts")).ScanPage(context.Background(), 0)
	require.ErrorIs(t, err, source.ErrSourceUnavailable)
	require.Zero(t, src.renders.Load())
}

func TestRunSinkFailureKeepsResults(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	src := &pageSource{pages: []image.Image{page(4, 4, image.Pt(1, 1))}, fail: -1, sizeFail: -1}
	results, err := newProject(t, src, filepath.Join(blocker, "out.ts")).Run(context.Background())
	require.ErrorIs(t, err, export.ErrSinkUnwritable)
	require.Len(t, results, 1)
	require.Len(t, results[0].Hotspots, 1)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &pageSource{pages: []image.Image{page(4, 4, image.Pt(1, 1))}, fail: -1, sizeFail: -1}
	results, err := newProject(t, src, filepath.Join(t.TempDir(), "out.ts")).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, results)
}

func TestRunDerivedOutputPath(t *testing.T) {
	dir := t.TempDir()
	src := &pageSource{pages: []image.Image{page(2, 2, image.Pt(1, 0))}, fail: -1, sizeFail: -1}

	p := newProject(t, src, "")
	p.Config.OutputDir = dir
	p.Config.ShowStats = true

	results, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "atlas.ts"), results[0].Output)
	require.FileExists(t, results[0].Output)
}
