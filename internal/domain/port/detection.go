package port

import "obscura/internal/domain/entity"

// BoxForm — вариант представления геометрии у внешнего детектора.
type BoxForm int

const (
	// BoxNormXYWH — нормализованные (x, y, w, h) в [0,1].
	BoxNormXYWH BoxForm = iota
	// BoxPixelXYXY — пиксельные (x1, y1, x2, y2).
	BoxPixelXYXY
	// BoxPixelPoly — пиксельный многоугольник (обычно 4 точки OCR).
	BoxPixelPoly
)

// BoxShape — геометрия детекции в одном из поддерживаемых представлений.
// Детекторы возвращают разные формы; агрегатор приводит их к единой
// нормализованной рамке до того, как находку увидят остальные компоненты.
type BoxShape struct {
	Form BoxForm
	XYWH [4]float64
	XYXY [4]float64
	Poly [][2]float64
}

// NormXYWH строит нормализованную форму.
func NormXYWH(x, y, w, h float64) BoxShape {
	return BoxShape{Form: BoxNormXYWH, XYWH: [4]float64{x, y, w, h}}
}

// PixelXYXY строит пиксельную форму по двум углам.
func PixelXYXY(x1, y1, x2, y2 float64) BoxShape {
	return BoxShape{Form: BoxPixelXYXY, XYXY: [4]float64{x1, y1, x2, y2}}
}

// PixelPoly строит пиксельную форму по точкам многоугольника.
func PixelPoly(pts [][2]float64) BoxShape {
	return BoxShape{Form: BoxPixelPoly, Poly: pts}
}

// RawDetection — сырой результат детектора до нормализации.
type RawDetection struct {
	Kind   entity.Kind
	Shape  BoxShape
	Conf   float64
	Source string
	Ver    string
	Text   string
}

// TextLine — одна распознанная строка текста с геометрией и уверенностью.
type TextLine struct {
	Text  string
	Shape BoxShape
	Conf  float64
}
