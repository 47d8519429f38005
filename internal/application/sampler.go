package app

import (
	"math"
	"sort"

	"obscura/internal/domain/entity"
	"obscura/internal/domain/port"
	"obscura/internal/imaging"
)

// fallbackFPS используется для расчёта шага декодирования, когда источник
// не сообщает частоту кадров.
const fallbackFPS = 30.0

// FrameSampler отбирает ограниченное представительное подмножество кадров:
// периодический шаг гарантирует покрытие любых длинных фрагментов,
// отпечаток сцены ловит резкие смены содержимого между периодическими
// отсчётами, а временное окно добавляет контекст вокруг каждой смены.
type FrameSampler struct {
	params entity.SamplerParams
}

// NewFrameSampler создаёт сэмплер с заданными параметрами.
func NewFrameSampler(params entity.SamplerParams) *FrameSampler {
	return &FrameSampler{params: params}
}

// Params возвращает параметры отбора (попадают в отчёт по видео).
func (s *FrameSampler) Params() entity.SamplerParams {
	return s.params
}

// Select последовательно обходит источник и возвращает отсортированные
// индексы отобранных кадров. Обход строго по возрастанию индексов:
// эталонный отпечаток обновляется по ходу, и перестановка кадров
// изменила бы результат.
func (s *FrameSampler) Select(src port.FrameSource) entity.FrameSelection {
	srcFPS := src.FPS()
	if srcFPS <= 0 {
		srcFPS = fallbackFPS
	}

	step := 1
	if s.params.FPSCap > 0 {
		step = int(math.Round(srcFPS / s.params.FPSCap))
		if step < 1 {
			step = 1
		}
	}

	kept := make(map[int]bool)
	var last []float64
	lastIdx := -1

	for {
		frame, idx, ok := src.Next(step)
		if !ok {
			break
		}
		lastIdx = idx

		// Первый извлечённый кадр всегда попадает в выборку и задаёт эталон.
		if last == nil {
			last = imaging.HSVSignature(frame)
			kept[idx] = true
			continue
		}

		sig := imaging.HSVSignature(frame)
		keepPeriodic := s.params.Stride > 0 && idx%s.params.Stride == 0
		keepScene := imaging.L1Distance(sig, last) > s.params.HistThresh
		if keepPeriodic || keepScene {
			kept[idx] = true
			last = sig
		}
	}

	total := src.Frames()
	if total <= 0 {
		// Источник не сообщил длину: считаем по фактически пройденным кадрам.
		total = lastIdx + 1
	}

	if s.params.PadFrames > 0 {
		padded := make(map[int]bool, len(kept))
		for k := range kept {
			for d := -s.params.PadFrames; d <= s.params.PadFrames; d++ {
				idx := k + d
				if idx >= 0 && idx < total {
					padded[idx] = true
				}
			}
		}
		kept = padded
	}

	indices := make([]int, 0, len(kept))
	for k := range kept {
		indices = append(indices, k)
	}
	sort.Ints(indices)

	return entity.FrameSelection{
		Indices:     indices,
		SrcFPS:      srcFPS,
		TotalFrames: total,
	}
}
