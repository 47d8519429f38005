package entity

import "time"

// ImageReport — итог анализа одного изображения.
type ImageReport struct {
	Findings   []Finding `json:"findings"`
	RiskScore  int       `json:"riskScore"`
	ImageShape [2]int    `json:"imageShape"` // (W, H)
	CoordSpace string    `json:"coordSpace"` // всегда "normalized"
	Degraded   bool      `json:"degraded"`
	Warnings   []string  `json:"warnings"`
	Redacted   []byte    `json:"redacted,omitempty"` // JPEG после генеративной заливки
	Overlay    []byte    `json:"overlay,omitempty"`  // JPEG с подсветкой маски, когда заливка недоступна
}

// FrameReport — итог анализа одного отобранного кадра видео.
type FrameReport struct {
	FrameIdx  int       `json:"frame_idx"`
	TimeS     float64   `json:"time_s"`
	Timecode  string    `json:"timecode"`
	Findings  []Finding `json:"findings"`
	RiskScore int       `json:"riskScore"`
	Degraded  bool      `json:"degraded"`
	Warnings  []string  `json:"warnings"`
}

// VideoReport — итог анализа видео по отобранным кадрам.
type VideoReport struct {
	FPS        float64       `json:"fps"`
	FrameCount int           `json:"frame_count"`
	KeptCount  int           `json:"kept_count"`
	Frames     []FrameReport `json:"frames"`
	PeakScore  int           `json:"peak_score"`
	Params     SamplerParams `json:"params"`
	Warnings   []string      `json:"warnings"`
}

// AnalysisRecord — сохранённый результат анализа, доступный по ID запроса.
type AnalysisRecord struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Image     *ImageReport `json:"image,omitempty"`
	Video     *VideoReport `json:"video,omitempty"`
}
