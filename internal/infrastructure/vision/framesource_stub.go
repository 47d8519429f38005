//go:build !gocv
// +build !gocv

package vision

import (
	"errors"

	"obscura/internal/domain/port"
)

// Opener — заглушка открывателя видео (сборка без OpenCV).
type Opener struct{}

// NewOpener создаёт заглушку (без OpenCV).
func NewOpener() *Opener {
	return &Opener{}
}

// Open возвращает ошибку, если сборка без тега gocv.
func (o *Opener) Open(path string) (port.FrameSource, error) {
	_ = path
	return nil, errors.New("gocv build tag is not enabled")
}

var _ port.VideoOpener = (*Opener)(nil)
