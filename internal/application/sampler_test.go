package app

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"obscura/internal/domain/entity"
	"obscura/internal/domain/port"
)

type memFrameSource struct {
	frames      []image.Image
	fps         float64
	totalFrames int
	pos         int
}

func (s *memFrameSource) Next(step int) (image.Image, int, bool) {
	if step < 1 {
		step = 1
	}
	idx := s.pos + step - 1
	if idx >= len(s.frames) {
		return nil, 0, false
	}
	s.pos = idx + 1
	return s.frames[idx], idx, true
}

func (s *memFrameSource) ReadAt(idx int) (image.Image, bool) {
	if idx < 0 || idx >= len(s.frames) {
		return nil, false
	}
	return s.frames[idx], true
}

func (s *memFrameSource) FPS() float64 { return s.fps }

func (s *memFrameSource) Frames() int { return s.totalFrames }

func (s *memFrameSource) Close() error { return nil }

var _ port.FrameSource = (*memFrameSource)(nil)

func solidFrame(c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func solidFrames(n int, c color.Color) []image.Image {
	frame := solidFrame(c)
	frames := make([]image.Image, n)
	for i := range frames {
		frames[i] = frame
	}
	return frames
}

func TestFrameSamplerStaticVideo(t *testing.T) {
	src := &memFrameSource{
		frames:      solidFrames(1000, color.NRGBA{R: 200, G: 40, B: 40, A: 255}),
		fps:         30,
		totalFrames: 1000,
	}
	sampler := NewFrameSampler(entity.SamplerParams{
		FPSCap:     24,
		Stride:     100,
		PadFrames:  6,
		HistThresh: 0.3,
	})

	sel := sampler.Select(src)

	expected := map[int]bool{}
	for base := 0; base < 1000; base += 100 {
		for d := -6; d <= 6; d++ {
			if base+d >= 0 && base+d < 1000 {
				expected[base+d] = true
			}
		}
	}
	require.Len(t, sel.Indices, len(expected))
	for _, idx := range sel.Indices {
		require.True(t, expected[idx], "unexpected index %d", idx)
	}
	require.InDelta(t, 30.0, sel.SrcFPS, 1e-9)
	require.Equal(t, 1000, sel.TotalFrames)
}

func TestFrameSamplerSceneChange(t *testing.T) {
	frames := append(
		solidFrames(30, color.NRGBA{R: 255, A: 255}),
		solidFrames(30, color.NRGBA{B: 255, A: 255})...,
	)
	src := &memFrameSource{frames: frames, fps: 30, totalFrames: 60}
	sampler := NewFrameSampler(entity.SamplerParams{HistThresh: 0.3})

	sel := sampler.Select(src)

	require.Equal(t, []int{0, 30}, sel.Indices)
}

func TestFrameSamplerIndicesSortedUnique(t *testing.T) {
	frames := append(
		solidFrames(50, color.NRGBA{R: 255, A: 255}),
		solidFrames(50, color.NRGBA{G: 255, A: 255})...,
	)
	src := &memFrameSource{frames: frames, fps: 30, totalFrames: 100}
	sampler := NewFrameSampler(entity.SamplerParams{Stride: 48, PadFrames: 5, HistThresh: 0.3})

	sel := sampler.Select(src)

	for i := 1; i < len(sel.Indices); i++ {
		require.Greater(t, sel.Indices[i], sel.Indices[i-1])
	}
	for _, idx := range sel.Indices {
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 100)
	}
}

func TestFrameSamplerDecimation(t *testing.T) {
	src := &memFrameSource{
		frames:      solidFrames(30, color.NRGBA{R: 255, A: 255}),
		fps:         30,
		totalFrames: 30,
	}
	sampler := NewFrameSampler(entity.SamplerParams{FPSCap: 10, HistThresh: 0.3})

	sel := sampler.Select(src)

	// шаг 3: первым извлекается кадр 2, он задаёт эталон и попадает в выборку
	require.Equal(t, []int{2}, sel.Indices)
}

func TestFrameSamplerDeterministic(t *testing.T) {
	build := func() *memFrameSource {
		frames := append(
			solidFrames(40, color.NRGBA{R: 255, A: 255}),
			solidFrames(40, color.NRGBA{B: 255, A: 255})...,
		)
		return &memFrameSource{frames: frames, fps: 25, totalFrames: 80}
	}
	sampler := NewFrameSampler(entity.SamplerParams{FPSCap: 12, Stride: 20, PadFrames: 2, HistThresh: 0.3})

	first := sampler.Select(build())
	second := sampler.Select(build())
	require.Equal(t, first.Indices, second.Indices)
}

func TestFrameSamplerEmptySource(t *testing.T) {
	src := &memFrameSource{fps: 30}
	sampler := NewFrameSampler(entity.SamplerParams{Stride: 10})

	sel := sampler.Select(src)

	require.Empty(t, sel.Indices)
	require.Equal(t, 0, sel.TotalFrames)
}

func TestFrameSamplerFPSFallback(t *testing.T) {
	src := &memFrameSource{
		frames:      solidFrames(10, color.NRGBA{R: 255, A: 255}),
		fps:         0,
		totalFrames: 10,
	}
	sampler := NewFrameSampler(entity.SamplerParams{Stride: 5})

	sel := sampler.Select(src)

	require.InDelta(t, fallbackFPS, sel.SrcFPS, 1e-9)
}
