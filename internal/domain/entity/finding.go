package entity

// Kind — тип обнаруженной чувствительной информации.
type Kind string

const (
	KindFace         Kind = "face"
	KindEmail        Kind = "email"
	KindPhone        Kind = "phone"
	KindCreditCard   Kind = "credit_card"
	KindAddressText  Kind = "address_text"
	KindDOB          Kind = "dob"
	KindNationalID   Kind = "national_id"
	KindPassport     Kind = "passport"
	KindIBAN         Kind = "iban"
	KindBIC          Kind = "bic"
	KindLicensePlate Kind = "license_plate"
	KindDocumentID   Kind = "document_id"
	KindAddressSign  Kind = "address_sign"
)

// BBox — ограничивающая рамка в нормализованных координатах [0,1].
type BBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Valid проверяет инварианты рамки: положительная площадь внутри [0,1].
func (b BBox) Valid() bool {
	return b.X >= 0 && b.Y >= 0 &&
		b.W > 0 && b.H > 0 &&
		b.X+b.W <= 1 && b.Y+b.H <= 1
}

// Center возвращает центр рамки.
func (b BBox) Center() (x, y float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// IoU считает меру пересечения двух рамок (intersection over union).
func (b BBox) IoU(o BBox) float64 {
	x1 := maxf(b.X, o.X)
	y1 := maxf(b.Y, o.Y)
	x2 := minf(b.X+b.W, o.X+o.W)
	y2 := minf(b.Y+b.H, o.Y+o.H)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	inter := (x2 - x1) * (y2 - y1)
	union := b.W*b.H + o.W*o.H - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Finding — одна нормализованная детекция. Создаётся агрегатором
// и после этого не изменяется.
type Finding struct {
	Kind   Kind    `json:"kind"`
	BBox   BBox    `json:"bbox"`
	Conf   float64 `json:"conf"`
	Source string  `json:"source"`
	Ver    string  `json:"ver"`
	Text   string  `json:"text,omitempty"` // замаскированный текст для OCR-находок
}

// KindCounts — количество находок по каждому типу.
type KindCounts map[Kind]int

// Add увеличивает счётчик типа.
func (c KindCounts) Add(k Kind) {
	c[k]++
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
