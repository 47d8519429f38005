package pii

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"obscura/internal/domain/entity"
	"obscura/internal/domain/port"
)

// Скомпилированные один раз шаблоны PII. Порядок проверки важен:
// более специфичные типы идут раньше общих.
var (
	emailRE = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	// 13-19 цифр с пробелами или дефисами (банковские карты).
	cardRE  = regexp.MustCompile(`\b(?:\d[ -]*?){13,19}\b`)
	phoneRE = regexp.MustCompile(`[+()0-9\- .]{7,}`)
	dobRE   = regexp.MustCompile(`\b(0?[1-9]|[12][0-9]|3[01])[- /.](0?[1-9]|1[0-2])[- /.](19|20)\d{2}\b`)
	// Национальные идентификаторы.
	nationalIDRE = regexp.MustCompile(`\b[A-Z0-9]{8,12}\b`)
	passportRE   = regexp.MustCompile(`(?i)\b([A-Z]{1,2}[0-9]{6,8})\b`)
	ibanRE       = regexp.MustCompile(`\b[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}\b`)
	bicRE        = regexp.MustCompile(`\b[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?\b`)
	plateRE      = regexp.MustCompile(`(?i)\b([A-Z]{1,3}[- ]?\d{1,4}[A-Z]{0,3})\b`)
	// Признаки почтового адреса: номер дома, Ave/Rd/Street и т.п.
	addressRE = regexp.MustCompile(`(?i)\b(\d+\s+[A-Za-z]{2,}|Blk\s*\d+|Ave|Avenue|Rd\.?|Road|Street|St\.?)\b`)

	digitRE    = regexp.MustCompile(`\d`)
	alphaNumRE = regexp.MustCompile(`(?i)[A-Z0-9]`)
)

// Classifier определяет тип PII в распознанном тексте и умеет закрывать
// чувствительные символы для отображения.
type Classifier struct{}

// NewClassifier создаёт классификатор.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify возвращает тип PII в строке; ok=false — чувствительного
// содержимого не найдено.
func (c *Classifier) Classify(text string) (entity.Kind, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", false
	}

	if emailRE.MatchString(s) {
		return entity.KindEmail, true
	}
	if c.hasValidPhone(s) {
		return entity.KindPhone, true
	}
	if cardRE.MatchString(s) {
		return entity.KindCreditCard, true
	}
	if dobRE.MatchString(s) {
		return entity.KindDOB, true
	}
	if nationalIDRE.MatchString(s) {
		return entity.KindNationalID, true
	}
	if passportRE.MatchString(s) {
		return entity.KindPassport, true
	}
	if ibanRE.MatchString(s) {
		return entity.KindIBAN, true
	}
	if bicRE.MatchString(s) {
		return entity.KindBIC, true
	}
	if plateRE.MatchString(s) {
		return entity.KindLicensePlate, true
	}
	if addressRE.MatchString(s) {
		return entity.KindAddressText, true
	}
	return "", false
}

// hasValidPhone ищет в строке кандидатов на телефон и проверяет их
// библиотекой номеров: одни цифры легко спутать с другими числами.
func (c *Classifier) hasValidPhone(s string) bool {
	for _, cand := range phoneRE.FindAllString(s, -1) {
		num, err := phonenumbers.Parse(cand, "")
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(num) {
			return true
		}
	}
	return false
}

// MaskText закрывает чувствительные символы строки по типу находки.
func (c *Classifier) MaskText(kind entity.Kind, text string) string {
	switch kind {
	case entity.KindEmail:
		return maskEmail(text)
	case entity.KindPhone:
		return digitRE.ReplaceAllString(text, "•")
	case entity.KindCreditCard:
		return maskDigitsExceptLast(text, 4)
	case entity.KindPassport, entity.KindNationalID, entity.KindLicensePlate:
		return alphaNumRE.ReplaceAllString(text, "•")
	case entity.KindIBAN, entity.KindBIC:
		if len(text) > 8 {
			return text[:4] + "•••" + text[len(text)-4:]
		}
		return alphaNumRE.ReplaceAllString(text, "•")
	case entity.KindDOB:
		return "••/••/••••"
	}
	return text
}

// maskEmail оставляет первый символ и домен: a***@example.com.
func maskEmail(s string) string {
	at := strings.Index(s, "@")
	if at < 1 {
		return s
	}
	return s[:1] + "***" + s[at:]
}

var _ port.PIIClassifier = (*Classifier)(nil)

// maskDigitsExceptLast закрывает все цифры, кроме keep последних.
func maskDigitsExceptLast(s string, keep int) string {
	total := len(digitRE.FindAllString(s, -1))
	seen := 0
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			seen++
			if seen <= total-keep {
				b.WriteRune('•')
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
