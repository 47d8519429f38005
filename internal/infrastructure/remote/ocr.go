package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"obscura/internal/domain/port"
)

// OCRService — клиент сервиса распознавания текста. Сервис в зависимости
// от версии возвращает один из двух несовместимых форматов результата;
// оба приводятся к единому списку строк на границе сервиса.
type OCRService struct {
	client *Client
}

// NewOCRService создаёт клиент OCR-сервиса.
func NewOCRService(client *Client) *OCRService {
	return &OCRService{client: client}
}

// Recognize возвращает распознанные строки с пиксельной геометрией.
func (s *OCRService) Recognize(ctx context.Context, imageData []byte) ([]port.TextLine, error) {
	body, err := s.client.postFile(ctx, "/ocr", "image.jpg", imageData, nil)
	if err != nil {
		return nil, fmt.Errorf("ocr request: %w", err)
	}
	return parseOCRResponse(body)
}

// Новый формат: страница-объект с параллельными списками.
type ocrPage struct {
	RecTexts  []string       `json:"rec_texts"`
	RecScores []float64      `json:"rec_scores"`
	RecPolys  [][][2]float64 `json:"rec_polys"`
	RecBoxes  [][4]float64   `json:"rec_boxes"`
}

// parseOCRResponse разбирает оба формата ответа OCR-сервиса.
func parseOCRResponse(data []byte) ([]port.TextLine, error) {
	var pages []json.RawMessage
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("decode ocr response: %w", err)
	}
	if len(pages) == 0 {
		return nil, nil
	}

	var page ocrPage
	if err := json.Unmarshal(pages[0], &page); err == nil && len(page.RecTexts) > 0 {
		return parseNewFormat(page), nil
	}
	return parseClassicFormat(pages[0])
}

func parseNewFormat(page ocrPage) []port.TextLine {
	lines := make([]port.TextLine, 0, len(page.RecTexts))
	for i, text := range page.RecTexts {
		conf := 0.0
		if i < len(page.RecScores) {
			conf = page.RecScores[i]
		}

		var shape port.BoxShape
		switch {
		case i < len(page.RecPolys):
			shape = port.PixelPoly(page.RecPolys[i])
		case i < len(page.RecBoxes):
			b := page.RecBoxes[i]
			shape = port.PixelXYXY(b[0], b[1], b[2], b[3])
		default:
			continue
		}

		lines = append(lines, port.TextLine{Text: text, Shape: shape, Conf: conf})
	}
	return lines
}

// Классический формат: [[точки, [текст, уверенность]], ...].
func parseClassicFormat(raw json.RawMessage) ([]port.TextLine, error) {
	var entries [][2]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode classic ocr response: %w", err)
	}

	lines := make([]port.TextLine, 0, len(entries))
	for _, e := range entries {
		var poly [][2]float64
		if err := json.Unmarshal(e[0], &poly); err != nil || len(poly) == 0 {
			continue
		}

		var tail []json.RawMessage
		if err := json.Unmarshal(e[1], &tail); err != nil || len(tail) < 2 {
			continue
		}
		var text string
		var conf float64
		if err := json.Unmarshal(tail[0], &text); err != nil {
			continue
		}
		if err := json.Unmarshal(tail[1], &conf); err != nil {
			continue
		}

		lines = append(lines, port.TextLine{Text: text, Shape: port.PixelPoly(poly), Conf: conf})
	}
	return lines, nil
}

var _ port.TextService = (*OCRService)(nil)
