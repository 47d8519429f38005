package entity

import "math"

// CanvasFit описывает обратимое преобразование произвольного изображения
// в квадратный холст фиксированной сетки. Создаётся один раз на проход
// редактирования и используется ровно один раз для обратного преобразования.
type CanvasFit struct {
	OrigW     int `json:"orig_w"`
	OrigH     int `json:"orig_h"`
	ResizedW  int `json:"resized_w"`
	ResizedH  int `json:"resized_h"`
	PadLeft   int `json:"pad_left"`
	PadTop    int `json:"pad_top"`
	PadRight  int `json:"pad_right"`
	PadBottom int `json:"pad_bottom"`
}

// Side возвращает сторону квадратного холста.
func (f CanvasFit) Side() int {
	return f.ResizedW + f.PadLeft + f.PadRight
}

// PlanCanvasFit вычисляет геометрию подгонки: длинная сторона уменьшается
// до min(maxSide, длинная сторона), пропорции сохраняются, размеры
// округляются вверх до кратного mult, затем изображение симметрично
// дополняется до квадрата (лишний пиксель уходит на правую/нижнюю сторону).
func PlanCanvasFit(w, h, maxSide, mult int) CanvasFit {
	if mult < 1 {
		mult = 1
	}
	long := w
	if h > long {
		long = h
	}
	targetLong := maxSide
	if long < targetLong {
		targetLong = long
	}
	scale := float64(targetLong) / float64(long)

	newW := int(math.Round(float64(w) * scale))
	newH := int(math.Round(float64(h) * scale))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	newW = roundUpTo(newW, mult)
	newH = roundUpTo(newH, mult)

	side := newW
	if newH > side {
		side = newH
	}
	side = roundUpTo(side, mult)

	padW := side - newW
	padH := side - newH
	pl := padW / 2
	pt := padH / 2

	return CanvasFit{
		OrigW:     w,
		OrigH:     h,
		ResizedW:  newW,
		ResizedH:  newH,
		PadLeft:   pl,
		PadTop:    pt,
		PadRight:  padW - pl,
		PadBottom: padH - pt,
	}
}

func roundUpTo(v, mult int) int {
	return (v + mult - 1) / mult * mult
}
