package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/hotspots/internal/analyzer"
	"github.com/ivlev/hotspots/internal/config"
	"github.com/ivlev/hotspots/internal/export"
	"github.com/ivlev/hotspots/internal/hotspot"
	"github.com/ivlev/hotspots/internal/source"
	"github.com/ivlev/hotspots/internal/system"
)

type Project struct {
	Config   *config.Config
	Source   source.Source
	Detector analyzer.Detector
	Exporter export.Exporter
}

func NewProject(cfg *config.Config, src source.Source, det analyzer.Detector, exp export.Exporter) *Project {
	return &Project{
		Config:   cfg,
		Source:   src,
		Detector: det,
		Exporter: exp,
	}
}

// PageResult is the outcome of scanning one page.
type PageResult struct {
	Page     int
	Width    int
	Height   int
	Bounds   []analyzer.Bounds
	Hotspots hotspot.List
	Output   string
	Elapsed  time.Duration
}

// Run scans every page, then writes one output per page. Scanning is all or
// nothing: any render or scan failure returns no results. Output failures are
// reported after scanning and come back together with the complete results.
func (p *Project) Run(ctx context.Context) ([]PageResult, error) {
	startTime := time.Now()

	pageCount := p.Source.PageCount()
	if pageCount == 0 {
		return nil, fmt.Errorf("%w: источник не содержит страниц", source.ErrSourceUnavailable)
	}

	fmt.Println("--- [HOTSPOTS] ---")
	fmt.Printf("[*] Источник: %s | Страниц: %d\n", p.Config.InputPath, pageCount)
	fmt.Printf("[*] Цвет: %s | Порядок: %s | Детектор: %s\n", p.Config.Color, p.Config.Order, p.Config.Detector)
	fmt.Println("------------------")

	results := make([]PageResult, pageCount)
	workers := min(p.Config.Workers, pageCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := 0; i < pageCount; i++ {
		i := i
		g.Go(func() error {
			res, err := p.ScanPage(gctx, i)
			if err != nil {
				return err
			}
			results[i] = res
			fmt.Printf("[>] Страница %d/%d: %d hotspots\n", i+1, pageCount, len(res.Hotspots))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	scanTime := time.Since(startTime)

	var sinkErrs []error
	for i := range results {
		results[i].Output = p.outputPath(i, pageCount)
		if err := export.WriteFile(p.Exporter, results[i].Hotspots, results[i].Output); err != nil {
			log.Printf("[!] Ошибка записи %s: %v", results[i].Output, err)
			sinkErrs = append(sinkErrs, err)
		}
	}

	if p.Config.ShowStats {
		p.report(results, scanTime, time.Since(startTime))
	}

	return results, errors.Join(sinkErrs...)
}

// ScanPage renders page i and extracts its hotspots.
func (p *Project) ScanPage(ctx context.Context, i int) (PageResult, error) {
	start := time.Now()

	size, err := p.Source.PageSize(i, p.Config.DPI)
	if err != nil {
		return PageResult{}, fmt.Errorf("%w: страница %d: %w", source.ErrSourceUnavailable, i+1, err)
	}
	if err := system.CheckScanMemory(image.Rectangle{Max: size}, p.Config.Workers); err != nil {
		log.Printf("[!] Страница %d: %v", i+1, err)
	}

	img, err := p.Source.RenderPage(i, p.Config.DPI)
	if err != nil {
		return PageResult{}, fmt.Errorf("%w: страница %d: %w", source.ErrSourceUnavailable, i+1, err)
	}
	b := img.Bounds()

	grid, release := pixelGrid(img)
	defer release()

	bounds, err := p.Detector.Detect(ctx, grid, p.Config.Target)
	if err != nil {
		return PageResult{}, fmt.Errorf("сканирование страницы %d: %w", i+1, err)
	}

	return PageResult{
		Page:     i,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Bounds:   bounds,
		Hotspots: hotspot.FromBounds(bounds, b.Dx(), b.Dy()),
		Elapsed:  time.Since(start),
	}, nil
}

// pixelGrid exposes img for scanning. Non-NRGBA pages are converted into a
// pooled buffer which release returns once the scan is done.
func pixelGrid(img image.Image) (*analyzer.ImageGrid, func()) {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return analyzer.WrapNRGBA(nrgba), func() {}
	}

	b := img.Bounds()
	buf := system.GetPage(b.Dx(), b.Dy())
	return analyzer.NewImageGrid(img, buf), func() { system.PutPage(buf) }
}

func (p *Project) outputPath(page, pages int) string {
	if p.Config.OutputPath != "" {
		return export.PagePath(p.Config.OutputPath, page, pages)
	}
	return export.OutputPath(p.Config.OutputDir, p.Config.InputPath, page, pages, p.Config.Format)
}

func (p *Project) report(results []PageResult, scanTime, totalTime time.Duration) {
	pixels, hotspots := 0, 0
	for _, r := range results {
		pixels += r.Width * r.Height
		hotspots += len(r.Hotspots)
	}

	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Pages: %d\n"+
			"Pixels scanned: %d\n"+
			"Hotspots: %d\n"+
			"Scan time: %.3fs\n"+
			"Total time: %.3fs\n"+
			"Host memory: %s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, len(results), pixels, hotspots,
		scanTime.Seconds(), totalTime.Seconds(), system.HostMemory(),
	)
}
