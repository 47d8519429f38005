package remote

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"obscura/internal/domain/entity"
	"obscura/internal/domain/port"
)

// Inpainter — клиент сервиса генеративной заливки. Выбор бэкенда
// (диффузионный или маскированная дорисовка) задаётся конфигурацией
// и передаётся сервису как поле формы.
type Inpainter struct {
	client  *Client
	backend string
}

// NewInpainter создаёт клиент заливки для заданного бэкенда.
func NewInpainter(client *Client, backend string) *Inpainter {
	return &Inpainter{client: client, backend: backend}
}

// Inpaint заменяет помеченные маской области. Белый пиксель маски —
// "заменить", чёрный — "оставить".
func (p *Inpainter) Inpaint(ctx context.Context, img image.Image, mask *entity.Mask) (image.Image, error) {
	var imgBuf bytes.Buffer
	if err := png.Encode(&imgBuf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	var maskBuf bytes.Buffer
	if err := png.Encode(&maskBuf, maskToGray(mask)); err != nil {
		return nil, fmt.Errorf("encode mask: %w", err)
	}

	body, err := p.client.postFiles(ctx, "/inpaint", []filePart{
		{field: "file", name: "image.png", data: imgBuf.Bytes()},
		{field: "mask", name: "mask.png", data: maskBuf.Bytes()},
	}, map[string]string{"backend": p.backend})
	if err != nil {
		return nil, fmt.Errorf("inpaint request: %w", err)
	}

	out, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode inpainted image: %w", err)
	}
	return out, nil
}

func maskToGray(mask *entity.Mask) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, mask.W, mask.H))
	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			if mask.At(x, y) {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

var _ port.Inpainter = (*Inpainter)(nil)
