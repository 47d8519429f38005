package entity

// SamplerParams — параметры адаптивного отбора кадров.
type SamplerParams struct {
	FPSCap     float64 `json:"fps_cap"`
	Stride     int     `json:"stride"`
	PadFrames  int     `json:"pad_frames"`
	HistThresh float64 `json:"hist_thresh"`
}

// FrameSelection — итог отбора кадров: строго возрастающая
// последовательность индексов без повторов плюс характеристики источника.
// После создания не изменяется.
type FrameSelection struct {
	Indices     []int
	SrcFPS      float64
	TotalFrames int
}

// TimeAt возвращает время кадра в секундах от начала видео.
func (s FrameSelection) TimeAt(idx int) float64 {
	if s.SrcFPS <= 0 {
		return 0
	}
	return float64(idx) / s.SrcFPS
}
