package remote

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"

	"obscura/internal/domain/entity"
	"obscura/internal/domain/port"
)

// Segmenter — клиент сервиса сегментации. Сервис принимает изображение
// и пиксельную рамку-подсказку и возвращает PNG-маску того же размера.
type Segmenter struct {
	client *Client
}

// NewSegmenter создаёт клиент сегментатора.
func NewSegmenter(client *Client) *Segmenter {
	return &Segmenter{client: client}
}

// Segment строит маску объекта внутри рамки.
func (s *Segmenter) Segment(ctx context.Context, img image.Image, bbox image.Rectangle) (*entity.Mask, error) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	bbox = bbox.Intersect(image.Rect(0, 0, w, h))
	if bbox.Empty() {
		return entity.NewMask(w, h), nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	body, err := s.client.postFile(ctx, "/segment", "image.png", buf.Bytes(), map[string]string{
		"x1": strconv.Itoa(bbox.Min.X),
		"y1": strconv.Itoa(bbox.Min.Y),
		"x2": strconv.Itoa(bbox.Max.X),
		"y2": strconv.Itoa(bbox.Max.Y),
	})
	if err != nil {
		return nil, fmt.Errorf("segment request: %w", err)
	}

	maskImg, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode mask: %w", err)
	}
	if maskImg.Bounds().Dx() != w || maskImg.Bounds().Dy() != h {
		return nil, fmt.Errorf("mask size %dx%d does not match image %dx%d",
			maskImg.Bounds().Dx(), maskImg.Bounds().Dy(), w, h)
	}

	return maskFromImage(maskImg), nil
}

// maskFromImage переводит полутоновую картинку в булеву маску:
// яркость выше половины — "заменить".
func maskFromImage(img image.Image) *entity.Mask {
	b := img.Bounds()
	mask := entity.NewMask(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if g.Y > 127 {
				mask.Set(x-b.Min.X, y-b.Min.Y, true)
			}
		}
	}
	return mask
}

var _ port.Segmenter = (*Segmenter)(nil)
