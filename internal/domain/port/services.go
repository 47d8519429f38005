package port

import (
	"context"
	"image"

	"obscura/internal/domain/entity"
)

// TextService интерфейс сервиса распознавания текста
type TextService interface {
	// Recognize возвращает распознанные строки с геометрией
	Recognize(ctx context.Context, imageData []byte) ([]TextLine, error)
}

// ObjectDetector интерфейс детектора объектов (лица, номера, вывески)
type ObjectDetector interface {
	// Detect возвращает сырые детекции с уверенностью не ниже порога
	Detect(ctx context.Context, imageData []byte, confThreshold float64) ([]RawDetection, error)
}

// PIIClassifier интерфейс классификатора персональных данных в тексте
type PIIClassifier interface {
	// Classify определяет тип PII в строке; ok=false если PII не найдено
	Classify(text string) (kind entity.Kind, ok bool)

	// MaskText возвращает строку с закрытыми чувствительными символами
	MaskText(kind entity.Kind, text string) string
}

// Segmenter интерфейс сервиса сегментации области
type Segmenter interface {
	// Segment строит маску объекта внутри пиксельной рамки
	Segment(ctx context.Context, img image.Image, bbox image.Rectangle) (*entity.Mask, error)
}

// Inpainter интерфейс сервиса генеративной заливки
type Inpainter interface {
	// Inpaint заменяет помеченные маской области правдоподобным фоном
	Inpaint(ctx context.Context, img image.Image, mask *entity.Mask) (image.Image, error)
}
