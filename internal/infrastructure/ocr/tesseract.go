//go:build ocr
// +build ocr

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"obscura/internal/domain/port"
)

// TesseractService — локальное распознавание текста через tesseract.
// Альтернатива удалённому OCR-сервису для развёртываний без него.
type TesseractService struct {
	Language string
}

// NewTesseractService создаёт локальный OCR для заданного языка.
func NewTesseractService(language string) *TesseractService {
	if language == "" {
		language = "eng"
	}
	return &TesseractService{Language: language}
}

// Recognize возвращает распознанные строки с пиксельной геометрией.
func (s *TesseractService) Recognize(ctx context.Context, imageData []byte) ([]port.TextLine, error) {
	_ = ctx
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(s.Language); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}
	if err := client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("ocr failed: %w", err)
	}

	lines := make([]port.TextLine, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		lines = append(lines, port.TextLine{
			Text: box.Word,
			Shape: port.PixelXYXY(
				float64(box.Box.Min.X), float64(box.Box.Min.Y),
				float64(box.Box.Max.X), float64(box.Box.Max.Y),
			),
			Conf: box.Confidence / 100.0,
		})
	}
	return lines, nil
}

var _ port.TextService = (*TesseractService)(nil)
