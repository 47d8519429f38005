package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"obscura/internal/domain/entity"
)

// FitToCanvas готовит изображение и маску для генеративной заливки:
// масштабирует с сохранением пропорций, округляет размеры вверх до кратных
// mult и дополняет до квадратного холста. Поля изображения заливаются
// цветом левого верхнего пикселя оригинала, поля маски — "оставить".
func FitToCanvas(img image.Image, mask *entity.Mask, maxSide, mult int) (image.Image, *entity.Mask, entity.CanvasFit) {
	bounds := img.Bounds()
	fit := entity.PlanCanvasFit(bounds.Dx(), bounds.Dy(), maxSide, mult)
	side := fit.Side()

	resized := imaging.Resize(img, fit.ResizedW, fit.ResizedH, imaging.Lanczos)

	fill := img.At(bounds.Min.X, bounds.Min.Y)
	canvas := imaging.New(side, side, toNRGBA(fill))
	canvas = imaging.Paste(canvas, resized, image.Pt(fit.PadLeft, fit.PadTop))

	var fittedMask *entity.Mask
	if mask != nil {
		resizedMask := resizeMaskNearest(mask, fit.ResizedW, fit.ResizedH)
		fittedMask = entity.NewMask(side, side)
		for y := 0; y < fit.ResizedH; y++ {
			for x := 0; x < fit.ResizedW; x++ {
				if resizedMask.At(x, y) {
					fittedMask.Set(x+fit.PadLeft, y+fit.PadTop, true)
				}
			}
		}
	}

	return canvas, fittedMask, fit
}

// Restore обрезает поля квадратного результата и возвращает изображение
// точно исходного размера. Обратная операция к FitToCanvas.
func Restore(sq image.Image, fit entity.CanvasFit) image.Image {
	b := sq.Bounds()
	cropped := imaging.Crop(sq, image.Rect(
		b.Min.X+fit.PadLeft,
		b.Min.Y+fit.PadTop,
		b.Max.X-fit.PadRight,
		b.Max.Y-fit.PadBottom,
	))
	return imaging.Resize(cropped, fit.OrigW, fit.OrigH, imaging.Lanczos)
}

// Highlight накладывает полупрозрачную красную подсветку на помеченные
// маской области. Используется для отладочного артефакта в отчёте.
func Highlight(img image.Image, mask *entity.Mask) image.Image {
	out := imaging.Clone(img)
	b := out.Bounds()
	for y := 0; y < b.Dy() && y < mask.H; y++ {
		for x := 0; x < b.Dx() && x < mask.W; x++ {
			if !mask.At(x, y) {
				continue
			}
			c := out.NRGBAAt(x, y)
			c.R = uint8((int(c.R) + 255) / 2)
			c.G /= 2
			c.B /= 2
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// resizeMaskNearest масштабирует маску методом ближайшего соседа:
// интерполяция размыла бы границу "заменить/оставить".
func resizeMaskNearest(m *entity.Mask, w, h int) *entity.Mask {
	out := entity.NewMask(w, h)
	for y := 0; y < h; y++ {
		sy := y * m.H / h
		for x := 0; x < w; x++ {
			sx := x * m.W / w
			if m.At(sx, sy) {
				out.Set(x, y, true)
			}
		}
	}
	return out
}

func toNRGBA(c color.Color) color.NRGBA {
	r, g, b, a := c.RGBA()
	return color.NRGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(a >> 8),
	}
}
