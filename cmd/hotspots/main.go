package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ivlev/hotspots/internal/analyzer"
	"github.com/ivlev/hotspots/internal/config"
	"github.com/ivlev/hotspots/internal/engine"
	"github.com/ivlev/hotspots/internal/export"
	"github.com/ivlev/hotspots/internal/source"
	"github.com/ivlev/hotspots/internal/system"
)

var buildVersion = "dev"

func main() {
	config.RegisterFlags(flag.CommandLine)
	configPtr := flag.String("config", "", "YAML-файл настроек; явно заданные флаги важнее него")

	flag.Parse()

	cfg := config.Default()
	if err := cfg.Resolve(*configPtr, flag.CommandLine); err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}
	cfg.BuildVersion = buildVersion

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	// Everything that can fail on settings alone is built before the source
	// is opened.
	det, exp, err := newPipeline(cfg)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	if cfg.InputPath == "" {
		os.MkdirAll("input", 0755)
		latest, err := system.FindLatestInput("input", append(source.ImageExtensions, ".pdf"))
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите изображение или PDF в input/", err)
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Выбран файл: %s\n", cfg.InputPath)
	}

	src, err := source.Open(cfg.InputPath, source.Options{QRSize: cfg.QRSize})
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации источника: %v", err)
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.NewProject(cfg, src, det, exp)
	results, err := project.Run(ctx)
	if err != nil {
		if errors.Is(err, export.ErrSinkUnwritable) {
			for _, r := range results {
				fmt.Printf("[*] Страница %d: %d hotspots (не сохранено)\n", r.Page+1, len(r.Hotspots))
			}
		}
		src.Close()
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	for _, r := range results {
		fmt.Printf("[+++] Успех! %d hotspots -> %s\n", len(r.Hotspots), r.Output)
	}
}

func newPipeline(cfg *config.Config) (analyzer.Detector, export.Exporter, error) {
	order, err := analyzer.ParseOrder(cfg.Order)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}
	det, err := analyzer.NewDetector(cfg.Detector, order, cfg.Bands)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка детектора: %w", err)
	}
	exp, err := export.NewExporter(cfg.Format, cfg.ListName)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка экспорта: %w", err)
	}
	return det, exp, nil
}
