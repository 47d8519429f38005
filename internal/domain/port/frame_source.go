package port

import "image"

// FrameSource интерфейс последовательного источника кадров видео.
// Кадры обходятся строго в порядке возрастания индексов: детектор смены
// сцены хранит состояние и зависит от порядка.
type FrameSource interface {
	// Next продвигается на step кадров (пропуск дешёвый, декодируется
	// только последний) и возвращает кадр, его индекс и ok=false,
	// когда источник исчерпан
	Next(step int) (frame image.Image, idx int, ok bool)

	// ReadAt декодирует кадр с заданным индексом (произвольный доступ)
	ReadAt(idx int) (image.Image, bool)

	// FPS возвращает частоту кадров источника; 0 если не сообщается
	FPS() float64

	// Frames возвращает общее число кадров; 0 если не сообщается
	Frames() int

	// Close освобождает ресурсы источника
	Close() error
}

// VideoOpener интерфейс открытия видеофайла как источника кадров
type VideoOpener interface {
	// Open открывает файл; ошибка открытия фатальна для запроса
	Open(path string) (FrameSource, error)
}
