//go:build !ocr
// +build !ocr

package ocr

import (
	"context"
	"errors"

	"obscura/internal/domain/port"
)

// TesseractService — заглушка локального OCR (сборка без tesseract).
type TesseractService struct {
	Language string
}

// NewTesseractService создаёт заглушку (без tesseract).
func NewTesseractService(language string) *TesseractService {
	return &TesseractService{Language: language}
}

// Recognize возвращает ошибку, если сборка без тега ocr.
func (s *TesseractService) Recognize(ctx context.Context, imageData []byte) ([]port.TextLine, error) {
	_ = ctx
	_ = imageData
	return nil, errors.New("ocr build tag is not enabled")
}

var _ port.TextService = (*TesseractService)(nil)
