package container

import (
	"go.uber.org/zap"

	"obscura/config"
	app "obscura/internal/application"
	"obscura/internal/domain/entity"
	"obscura/internal/domain/port"
)

// Deps — внешние сервисы и адаптеры, внедряемые при старте процесса.
// Никаких скрытых глобальных моделей: всё передаётся по ссылке.
type Deps struct {
	Text      port.TextService
	Faces     port.ObjectDetector
	Landmarks port.ObjectDetector
	PII       port.PIIClassifier
	Segmenter port.Segmenter
	Inpainter port.Inpainter
	Opener    port.VideoOpener
	Reports   port.ReportRepository
}

type Container struct {
	ImagePipeline *app.ImagePipeline
	VideoPipeline *app.VideoPipeline
	Reports       port.ReportRepository
}

func New(cfg *config.Config, deps Deps, log *zap.Logger) *Container {
	weights := make(map[entity.Kind]float64, len(cfg.Weights))
	for k, w := range cfg.Weights {
		weights[entity.Kind(k)] = w
	}

	imagePipeline := app.NewImagePipeline(
		deps.Text,
		deps.Faces,
		deps.Landmarks,
		deps.PII,
		deps.Segmenter,
		deps.Inpainter,
		app.AnalyzeSettings{
			Weights:      weights,
			FaceConf:     cfg.Detect.FaceConf,
			LandmarkConf: cfg.Detect.LandmarkConf,
			RedactConf:   cfg.Redaction.ConfThreshold,
			MaxSide:      cfg.Redaction.MaxSide,
			Multiple:     cfg.Redaction.Multiple,
			DedupIoU:     cfg.Detect.DedupIoU,
		},
		log,
	)

	sampler := app.NewFrameSampler(entity.SamplerParams{
		FPSCap:     cfg.Sampler.FPSCap,
		Stride:     cfg.Sampler.Stride,
		PadFrames:  cfg.Sampler.PadFrames,
		HistThresh: cfg.Sampler.HistThresh,
	})

	videoPipeline := app.NewVideoPipeline(imagePipeline, deps.Opener, sampler, cfg.Video.MaxScans, log)

	return &Container{
		ImagePipeline: imagePipeline,
		VideoPipeline: videoPipeline,
		Reports:       deps.Reports,
	}
}
