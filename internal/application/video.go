package app

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"obscura/internal/domain/entity"
	"obscura/internal/domain/port"
)

// VideoPipeline прогоняет видео через отбор кадров и анализирует каждый
// отобранный кадр путём обычного анализа изображения.
type VideoPipeline struct {
	image   *ImagePipeline
	opener  port.VideoOpener
	sampler *FrameSampler
	scans   *semaphore.Weighted
	log     *zap.Logger
}

// NewVideoPipeline создаёт видеоконвейер. maxScans ограничивает число
// одновременных сканирований видео в процессе.
func NewVideoPipeline(image *ImagePipeline, opener port.VideoOpener, sampler *FrameSampler, maxScans int64, log *zap.Logger) *VideoPipeline {
	if maxScans < 1 {
		maxScans = 1
	}
	return &VideoPipeline{
		image:   image,
		opener:  opener,
		sampler: sampler,
		scans:   semaphore.NewWeighted(maxScans),
		log:     log.Named("video"),
	}
}

type scanResult struct {
	sel entity.FrameSelection
	err error
}

// Analyze выполняет полный проход по видео. Байты пишутся во временный
// файл: видеодекодеру нужен путь. Невозможность открыть видео фатальна
// для запроса, частичных результатов не бывает.
func (v *VideoPipeline) Analyze(ctx context.Context, videoData []byte) (*entity.VideoReport, error) {
	tmp, err := os.CreateTemp("", "obscura-*.mp4")
	if err != nil {
		return nil, fmt.Errorf("create temp video: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(videoData); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp video: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp video: %w", err)
	}

	// Сканирование блокирует на последовательном I/O, поэтому уходит
	// на отдельную горутину; результат возвращается одним куском.
	if err := v.scans.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	ch := make(chan scanResult, 1)
	go func() {
		defer v.scans.Release(1)
		src, err := v.opener.Open(path)
		if err != nil {
			ch <- scanResult{err: fmt.Errorf("open video: %w", err)}
			return
		}
		defer src.Close()
		ch <- scanResult{sel: v.sampler.Select(src)}
	}()
	res := <-ch
	if res.err != nil {
		return nil, res.err
	}
	sel := res.sel

	src, err := v.opener.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reopen video: %w", err)
	}
	defer src.Close()

	frames := make([]entity.FrameReport, 0, len(sel.Indices))
	peak := 0
	var warnings []string

	for _, idx := range sel.Indices {
		frame, ok := src.ReadAt(idx)
		if !ok {
			continue
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 85}); err != nil {
			v.log.Warn("frame encode failed", zap.Int("frame", idx), zap.Error(err))
			continue
		}

		rep, err := v.image.Analyze(ctx, buf.Bytes())
		if err != nil {
			v.log.Warn("frame analysis failed", zap.Int("frame", idx), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("frame %d analysis failed", idx))
			continue
		}

		t := sel.TimeAt(idx)
		frames = append(frames, entity.FrameReport{
			FrameIdx:  idx,
			TimeS:     round3(t),
			Timecode:  timecode(t),
			Findings:  rep.Findings,
			RiskScore: rep.RiskScore,
			Degraded:  rep.Degraded,
			Warnings:  rep.Warnings,
		})
		if rep.RiskScore > peak {
			peak = rep.RiskScore
		}
	}

	return &entity.VideoReport{
		FPS:        sel.SrcFPS,
		FrameCount: sel.TotalFrames,
		KeptCount:  len(frames),
		Frames:     frames,
		PeakScore:  peak,
		Params:     v.sampler.Params(),
		Warnings:   warnings,
	}, nil
}

func round3(v float64) float64 {
	return float64(int64(v*1000+0.5)) / 1000
}

// timecode форматирует время кадра как ч:мм:сс.ммм.
func timecode(sec float64) string {
	d := time.Duration(sec * float64(time.Second))
	hh := int(d / time.Hour)
	mm := int(d/time.Minute) % 60
	ss := d % time.Minute
	return fmt.Sprintf("%d:%02d:%06.3f", hh, mm, ss.Seconds())
}
