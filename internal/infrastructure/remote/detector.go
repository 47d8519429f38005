package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"obscura/internal/domain/entity"
	"obscura/internal/domain/port"
)

// Detector — клиент сервиса детекции объектов. Сервис возвращает
// пиксельные рамки с именем класса; имена приводятся к типам находок
// таблицей соответствия.
type Detector struct {
	client      *Client
	path        string
	source      string
	ver         string
	defaultKind entity.Kind
	kindByClass map[string]entity.Kind
}

// NewFaceDetector создаёт клиент детектора лиц.
func NewFaceDetector(client *Client) *Detector {
	return &Detector{
		client:      client,
		path:        "/detect/faces",
		source:      "yolov8-face",
		ver:         "YOLOv8",
		defaultKind: entity.KindFace,
	}
}

// NewLandmarkDetector создаёт клиент детектора номеров, вывесок и документов.
func NewLandmarkDetector(client *Client) *Detector {
	return &Detector{
		client: client,
		path:   "/detect/landmarks",
		source: "yolov8-landmarks",
		ver:    "YOLOv8",
		kindByClass: map[string]entity.Kind{
			"license_plate": entity.KindLicensePlate,
			"plate":         entity.KindLicensePlate,
			"traffic sign":  entity.KindAddressSign,
			"street_sign":   entity.KindAddressSign,
			"address_sign":  entity.KindAddressSign,
			"document":      entity.KindDocumentID,
			"id_card":       entity.KindDocumentID,
		},
	}
}

type detectionItem struct {
	Class string  `json:"class"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Conf  float64 `json:"confidence"`
}

// Detect возвращает сырые детекции с уверенностью не ниже порога.
// Классы без соответствия типу находки пропускаются: они не считаются
// чувствительными.
func (d *Detector) Detect(ctx context.Context, imageData []byte, confThreshold float64) ([]port.RawDetection, error) {
	body, err := d.client.postFile(ctx, d.path, "image.jpg", imageData, map[string]string{
		"conf": strconv.FormatFloat(confThreshold, 'f', -1, 64),
	})
	if err != nil {
		return nil, fmt.Errorf("detector request: %w", err)
	}

	var result struct {
		Detections []detectionItem `json:"detections"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode detector response: %w", err)
	}

	out := make([]port.RawDetection, 0, len(result.Detections))
	for _, item := range result.Detections {
		kind := d.defaultKind
		if mapped, ok := d.kindByClass[item.Class]; ok {
			kind = mapped
		}
		if kind == "" || item.Conf < confThreshold {
			continue
		}
		out = append(out, port.RawDetection{
			Kind:   kind,
			Shape:  port.PixelXYXY(item.X1, item.Y1, item.X2, item.Y2),
			Conf:   item.Conf,
			Source: d.source,
			Ver:    d.ver,
		})
	}
	return out, nil
}

var _ port.ObjectDetector = (*Detector)(nil)
