package main

import (
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"obscura/config"
	"obscura/internal/api"
	"obscura/internal/container"
	"obscura/internal/domain/port"
	"obscura/internal/infrastructure/ocr"
	"obscura/internal/infrastructure/pii"
	"obscura/internal/infrastructure/remote"
	"obscura/internal/infrastructure/storage"
	"obscura/internal/infrastructure/vision"
	"obscura/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML-конфигурации")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	timeout := time.Duration(cfg.Services.TimeoutSec) * time.Second
	detectorClient := remote.NewClient(cfg.Services.DetectorURL, timeout)

	// Без адреса удалённого OCR текст распознаётся локальным tesseract.
	var textSvc port.TextService
	if cfg.Services.OCRURL != "" {
		textSvc = remote.NewOCRService(remote.NewClient(cfg.Services.OCRURL, timeout))
	} else {
		textSvc = ocr.NewTesseractService(cfg.Services.OCRLang)
	}

	// Сервисы редактирования без адреса остаются nil: анализ работает,
	// шаг заливки пропускается.
	var segmenter port.Segmenter
	if cfg.Services.SegmenterURL != "" {
		segmenter = remote.NewSegmenter(remote.NewClient(cfg.Services.SegmenterURL, timeout))
	}
	var inpainter port.Inpainter
	if cfg.Services.InpainterURL != "" {
		inpainter = remote.NewInpainter(remote.NewClient(cfg.Services.InpainterURL, timeout), cfg.Redaction.Backend)
	}

	// Собираем внешние сервисы: каждый создаётся один раз при старте
	// и передаётся конвейерам по ссылке.
	deps := container.Deps{
		Text:      textSvc,
		Faces:     remote.NewFaceDetector(detectorClient),
		Landmarks: remote.NewLandmarkDetector(detectorClient),
		PII:       pii.NewClassifier(),
		Segmenter: segmenter,
		Inpainter: inpainter,
		Opener:    vision.NewOpener(),
		Reports:   storage.NewMemoryReportRepository(),
	}

	appContainer := container.New(cfg, deps, logger)

	server := api.NewServer(appContainer, cfg.PolicyMode, logger)
	logger.Info("starting", zap.String("addr", cfg.Addr), zap.String("policy_mode", cfg.PolicyMode))
	if err := server.Run(cfg.Addr); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
