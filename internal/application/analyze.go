package app

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // регистрация декодера PNG
	"math"

	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // регистрация декодера WebP

	"obscura/internal/domain/entity"
	"obscura/internal/domain/port"
	"obscura/internal/imaging"
)

// AnalyzeSettings — проверенная при старте конфигурация анализа.
// Только для чтения, разделяется всеми запросами без блокировок.
type AnalyzeSettings struct {
	Weights      map[entity.Kind]float64
	FaceConf     float64 // порог детектора лиц
	LandmarkConf float64 // порог детектора объектов/вывесок
	RedactConf   float64 // порог допуска находки к редактированию
	MaxSide      int     // длинная сторона холста генеративной заливки
	Multiple     int     // кратность размеров холста
	DedupIoU     float64 // 0 — пересечения разных детекторов не схлопываются
}

// ImagePipeline — оркестратор анализа одного изображения: внешние сервисы
// вызываются последовательно, отказ любого из них даёт пустой вклад
// и предупреждение, но не срывает отчёт.
type ImagePipeline struct {
	text      port.TextService
	faces     port.ObjectDetector
	landmarks port.ObjectDetector
	pii       port.PIIClassifier
	segmenter port.Segmenter
	inpainter port.Inpainter
	settings  AnalyzeSettings
	log       *zap.Logger
}

// NewImagePipeline создаёт оркестратор с внедрёнными сервисами.
// Сервисы редактирования могут быть nil — тогда шаг заливки пропускается.
func NewImagePipeline(
	text port.TextService,
	faces port.ObjectDetector,
	landmarks port.ObjectDetector,
	pii port.PIIClassifier,
	segmenter port.Segmenter,
	inpainter port.Inpainter,
	settings AnalyzeSettings,
	log *zap.Logger,
) *ImagePipeline {
	return &ImagePipeline{
		text:      text,
		faces:     faces,
		landmarks: landmarks,
		pii:       pii,
		segmenter: segmenter,
		inpainter: inpainter,
		settings:  settings,
		log:       log.Named("image"),
	}
}

// Analyze выполняет полный проход по изображению и собирает отчёт.
func (p *ImagePipeline) Analyze(ctx context.Context, imageData []byte) (*entity.ImageReport, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	agg := NewAggregator(w, h, p.settings.DedupIoU)
	degraded := false
	var degradeWarnings []string

	// 1) Распознавание текста и классификация PII по строкам.
	if p.text != nil {
		lines, err := p.text.Recognize(ctx, imageData)
		if err != nil {
			p.log.Warn("text service failed", zap.Error(err))
			degraded = true
			degradeWarnings = append(degradeWarnings, "text recognition unavailable")
		}
		for _, line := range lines {
			kind, ok := p.pii.Classify(line.Text)
			if !ok {
				continue
			}
			agg.Add(port.RawDetection{
				Kind:   kind,
				Shape:  line.Shape,
				Conf:   line.Conf,
				Source: "ocr+rules",
				Ver:    "ocr-2.7|pii-rules-1.0",
				Text:   p.pii.MaskText(kind, line.Text),
			})
		}
	}

	// 2) Детекторы лиц и объектов.
	for _, det := range []struct {
		name     string
		detector port.ObjectDetector
		conf     float64
	}{
		{"face detection", p.faces, p.settings.FaceConf},
		{"landmark detection", p.landmarks, p.settings.LandmarkConf},
	} {
		if det.detector == nil {
			continue
		}
		raws, err := det.detector.Detect(ctx, imageData, det.conf)
		if err != nil {
			p.log.Warn("detector failed", zap.String("detector", det.name), zap.Error(err))
			degraded = true
			degradeWarnings = append(degradeWarnings, det.name+" unavailable")
			continue
		}
		for _, raw := range raws {
			agg.Add(raw)
		}
	}

	findings := agg.Findings()
	report := &entity.ImageReport{
		Findings:   findings,
		RiskScore:  Score(agg.Counts(), p.settings.Weights),
		ImageShape: [2]int{w, h},
		CoordSpace: "normalized",
		Degraded:   degraded,
		Warnings:   append(agg.Warnings(), degradeWarnings...),
	}

	// 3) Редактирование находок с достаточной уверенностью.
	if p.segmenter != nil && p.inpainter != nil {
		p.redact(ctx, img, findings, report)
	}

	return report, nil
}

// redact собирает маски допущенных находок, объединяет их и один раз
// вызывает генеративную заливку по объединённой маске.
func (p *ImagePipeline) redact(ctx context.Context, img image.Image, findings []entity.Finding, report *entity.ImageReport) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	var masks []*entity.Mask
	for _, f := range findings {
		if f.Conf < p.settings.RedactConf {
			continue
		}
		rect := pixelRect(f.BBox, w, h)
		mask, err := p.segmenter.Segment(ctx, img, rect)
		if err != nil {
			p.log.Warn("segmentation failed", zap.String("kind", string(f.Kind)), zap.Error(err))
			report.Degraded = true
			report.Warnings = append(report.Warnings, "segmentation unavailable")
			continue
		}
		if mask != nil && !mask.Empty() {
			masks = append(masks, mask)
		}
	}
	if len(masks) == 0 {
		return
	}

	composite, err := entity.UnionMasks(masks)
	if err != nil {
		p.log.Warn("mask union failed", zap.Error(err))
		report.Degraded = true
		report.Warnings = append(report.Warnings, "mask compositing failed")
		return
	}

	canvas, fittedMask, fit := imaging.FitToCanvas(img, composite, p.settings.MaxSide, p.settings.Multiple)
	filled, err := p.inpainter.Inpaint(ctx, canvas, fittedMask)
	if err != nil {
		p.log.Warn("inpainting failed", zap.Error(err))
		report.Degraded = true
		report.Warnings = append(report.Warnings, "generative fill unavailable")
		// Вместо заливки отдаём подсветку маски, чтобы клиент видел зоны.
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, imaging.Highlight(img, composite), &jpeg.Options{Quality: 90}); err == nil {
			report.Overlay = buf.Bytes()
		}
		return
	}

	restored := imaging.Restore(filled, fit)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, restored, &jpeg.Options{Quality: 90}); err != nil {
		p.log.Warn("encode redacted image failed", zap.Error(err))
		return
	}
	report.Redacted = buf.Bytes()
}

// pixelRect переводит нормализованную рамку в пиксельный прямоугольник
// с клиппингом по границам изображения.
func pixelRect(b entity.BBox, w, h int) image.Rectangle {
	x1 := int(math.Round(b.X * float64(w)))
	y1 := int(math.Round(b.Y * float64(h)))
	x2 := int(math.Round((b.X + b.W) * float64(w)))
	y2 := int(math.Round((b.Y + b.H) * float64(h)))
	return image.Rect(x1, y1, x2, y2).Intersect(image.Rect(0, 0, w, h))
}
