package entity

import "fmt"

// Mask — булева сетка с размерами исходного изображения.
// true означает "заменить при редактировании", false — "оставить".
type Mask struct {
	W    int
	H    int
	Bits []bool
}

// NewMask создаёт пустую маску заданного размера.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Bits: make([]bool, w*h)}
}

// At возвращает значение пикселя маски.
func (m *Mask) At(x, y int) bool {
	return m.Bits[y*m.W+x]
}

// Set устанавливает значение пикселя маски.
func (m *Mask) Set(x, y int, v bool) {
	m.Bits[y*m.W+x] = v
}

// Count возвращает число помеченных пикселей.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Empty сообщает, что маска не помечает ни одного пикселя.
func (m *Mask) Empty() bool {
	return m.Count() == 0
}

// Clone возвращает независимую копию маски.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.W, m.H)
	copy(out.Bits, m.Bits)
	return out
}

// UnionMasks объединяет маски побитовым ИЛИ. Все маски должны совпадать
// по размерам. Пустой вход возвращает nil — редактирования не будет.
func UnionMasks(masks []*Mask) (*Mask, error) {
	if len(masks) == 0 {
		return nil, nil
	}
	first := masks[0]
	out := first.Clone()
	for _, m := range masks[1:] {
		if m.W != first.W || m.H != first.H {
			return nil, fmt.Errorf("mask size mismatch: %dx%d vs %dx%d", m.W, m.H, first.W, first.H)
		}
		for i, b := range m.Bits {
			if b {
				out.Bits[i] = true
			}
		}
	}
	return out, nil
}
