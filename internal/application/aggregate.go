package app

import (
	"obscura/internal/domain/entity"
	"obscura/internal/domain/port"
)

// Aggregator приводит разнородные результаты детекторов к каноническим
// находкам одного изображения. Попутно ведёт счётчики по типам и собирает
// предупреждения для отчёта. Каждый анализ создаёт свой агрегатор.
type Aggregator struct {
	imgW     int
	imgH     int
	dedupIoU float64 // 0 отключает схлопывание пересечений

	findings []entity.Finding
	counts   entity.KindCounts
	warnings []string
}

// NewAggregator создаёт агрегатор для изображения заданного размера.
func NewAggregator(imgW, imgH int, dedupIoU float64) *Aggregator {
	return &Aggregator{
		imgW:     imgW,
		imgH:     imgH,
		dedupIoU: dedupIoU,
		findings: make([]entity.Finding, 0, 8),
		counts:   make(entity.KindCounts),
	}
}

// Add нормализует сырую детекцию и добавляет находку. Возвращает false,
// когда кандидат отброшен: вырожденная рамка после клиппинга или дубликат
// при включённом схлопывании.
func (a *Aggregator) Add(raw port.RawDetection) bool {
	bbox, ok := a.normalize(raw.Shape)
	if !ok {
		return false
	}

	if a.dedupIoU > 0 {
		for _, f := range a.findings {
			if f.Kind == raw.Kind && f.BBox.IoU(bbox) > a.dedupIoU {
				return false
			}
		}
	}

	a.findings = append(a.findings, entity.Finding{
		Kind:   raw.Kind,
		BBox:   bbox,
		Conf:   clamp01(raw.Conf),
		Source: raw.Source,
		Ver:    raw.Ver,
		Text:   raw.Text,
	})
	a.counts.Add(raw.Kind)
	if w, known := WarningForKind(raw.Kind); known {
		a.warnings = append(a.warnings, w)
	}
	return true
}

// Findings возвращает накопленные находки.
func (a *Aggregator) Findings() []entity.Finding {
	return a.findings
}

// Counts возвращает счётчики по типам.
func (a *Aggregator) Counts() entity.KindCounts {
	return a.counts
}

// Warnings возвращает накопленные предупреждения.
func (a *Aggregator) Warnings() []string {
	return a.warnings
}

// normalize приводит геометрию к нормализованной рамке xywh с клиппингом
// по границам изображения. ok=false — рамка вырождена и кандидат отбрасывается.
func (a *Aggregator) normalize(s port.BoxShape) (entity.BBox, bool) {
	switch s.Form {
	case port.BoxNormXYWH:
		x := clamp01(s.XYWH[0])
		y := clamp01(s.XYWH[1])
		w := s.XYWH[2]
		h := s.XYWH[3]
		if x+w > 1 {
			w = 1 - x
		}
		if y+h > 1 {
			h = 1 - y
		}
		if w <= 0 || h <= 0 {
			return entity.BBox{}, false
		}
		return entity.BBox{X: x, Y: y, W: w, H: h}, true

	case port.BoxPixelXYXY:
		return a.normalizePixelRect(s.XYXY[0], s.XYXY[1], s.XYXY[2], s.XYXY[3])

	case port.BoxPixelPoly:
		if len(s.Poly) == 0 {
			return entity.BBox{}, false
		}
		x1, y1 := s.Poly[0][0], s.Poly[0][1]
		x2, y2 := x1, y1
		for _, p := range s.Poly[1:] {
			if p[0] < x1 {
				x1 = p[0]
			}
			if p[0] > x2 {
				x2 = p[0]
			}
			if p[1] < y1 {
				y1 = p[1]
			}
			if p[1] > y2 {
				y2 = p[1]
			}
		}
		return a.normalizePixelRect(x1, y1, x2, y2)
	}
	return entity.BBox{}, false
}

func (a *Aggregator) normalizePixelRect(x1, y1, x2, y2 float64) (entity.BBox, bool) {
	if a.imgW <= 0 || a.imgH <= 0 {
		return entity.BBox{}, false
	}
	fw := float64(a.imgW)
	fh := float64(a.imgH)
	x1 = clampf(x1, 0, fw)
	x2 = clampf(x2, 0, fw)
	y1 = clampf(y1, 0, fh)
	y2 = clampf(y2, 0, fh)
	if x2 <= x1 || y2 <= y1 {
		return entity.BBox{}, false
	}
	return entity.BBox{
		X: x1 / fw,
		Y: y1 / fh,
		W: (x2 - x1) / fw,
		H: (y2 - y1) / fh,
	}, true
}

func clamp01(v float64) float64 {
	return clampf(v, 0, 1)
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
