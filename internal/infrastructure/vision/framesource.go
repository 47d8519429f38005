//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"obscura/internal/domain/port"
)

// Opener открывает видеофайлы через OpenCV.
type Opener struct{}

// NewOpener создаёт открыватель видео.
func NewOpener() *Opener {
	return &Opener{}
}

// Open открывает файл как источник кадров.
func (o *Opener) Open(path string) (port.FrameSource, error) {
	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, errors.New("failed to open video source")
	}
	return &videoFileSource{cap: cap, mat: gocv.NewMat()}, nil
}

// videoFileSource — источник кадров поверх gocv.VideoCapture.
// Не потокобезопасен: один источник обслуживает один проход.
type videoFileSource struct {
	cap *gocv.VideoCapture
	mat gocv.Mat
	pos int // индекс следующего кадра
}

// Next пропускает step-1 кадров без декодирования и декодирует следующий.
func (s *videoFileSource) Next(step int) (image.Image, int, bool) {
	if step < 1 {
		step = 1
	}
	if step > 1 {
		s.cap.Grab(step - 1)
		s.pos += step - 1
	}
	if !s.cap.Read(&s.mat) || s.mat.Empty() {
		return nil, 0, false
	}
	idx := s.pos
	s.pos++
	img, err := s.mat.ToImage()
	if err != nil {
		return nil, 0, false
	}
	return img, idx, true
}

// ReadAt декодирует кадр по индексу.
func (s *videoFileSource) ReadAt(idx int) (image.Image, bool) {
	s.cap.Set(gocv.VideoCapturePosFrames, float64(idx))
	s.pos = idx
	if !s.cap.Read(&s.mat) || s.mat.Empty() {
		return nil, false
	}
	s.pos++
	img, err := s.mat.ToImage()
	if err != nil {
		return nil, false
	}
	return img, true
}

// FPS возвращает частоту кадров, сообщённую контейнером видео.
func (s *videoFileSource) FPS() float64 {
	return s.cap.Get(gocv.VideoCaptureFPS)
}

// Frames возвращает сообщённое число кадров.
func (s *videoFileSource) Frames() int {
	return int(s.cap.Get(gocv.VideoCaptureFrameCount))
}

// Close освобождает захват видео.
func (s *videoFileSource) Close() error {
	s.mat.Close()
	return s.cap.Close()
}

var _ port.VideoOpener = (*Opener)(nil)
