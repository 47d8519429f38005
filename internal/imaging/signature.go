package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Размеры отпечатка сцены: кадр сжимается до 160x90, затем строится
// двумерная гистограмма 32x32 по тону и насыщенности.
const (
	sigWidth  = 160
	sigHeight = 90
	hueBins   = 32
	satBins   = 32
)

// HSVSignature строит компактный отпечаток сцены кадра: уменьшенная копия,
// перевод в HSV и L1-нормированная гистограмма по каналам H и S.
// Близкие по содержанию кадры дают близкие отпечатки.
func HSVSignature(frame image.Image) []float64 {
	tiny := imaging.Resize(frame, sigWidth, sigHeight, imaging.Box)
	hist := make([]float64, hueBins*satBins)

	b := tiny.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, ok := colorful.MakeColor(tiny.At(x, y))
			if !ok {
				continue
			}
			h, s, _ := c.Hsv()
			hb := int(h / 360 * hueBins)
			if hb >= hueBins {
				hb = hueBins - 1
			}
			sb := int(s * satBins)
			if sb >= satBins {
				sb = satBins - 1
			}
			hist[hb*satBins+sb]++
		}
	}

	total := 0.0
	for _, v := range hist {
		total += v
	}
	if total > 0 {
		for i := range hist {
			hist[i] /= total
		}
	}
	return hist
}

// L1Distance возвращает сумму модулей поэлементных разностей двух отпечатков.
func L1Distance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	d := 0.0
	for i := 0; i < n; i++ {
		d += math.Abs(a[i] - b[i])
	}
	return d
}
