package app

import "obscura/internal/domain/entity"

// warningByKind — предупреждение для пользователя по типу находки.
// Неизвестный тип предупреждения не даёт, это не ошибка.
var warningByKind = map[entity.Kind]string{
	entity.KindEmail:        "Potential email address detected - may expose private contact",
	entity.KindPhone:        "Potential phone number detected - may expose private contact",
	entity.KindNationalID:   "Potential national ID number detected - sensitive identifier",
	entity.KindAddressText:  "Potential address detected - may reveal location",
	entity.KindFace:         "Face detected - may reveal identity",
	entity.KindLicensePlate: "License plate detected - may expose vehicle information",
	entity.KindDocumentID:   "Document ID detected - may contain sensitive credentials",
	entity.KindAddressSign:  "Address sign detected - may reveal home or workplace",
	entity.KindCreditCard:   "Credit card number detected - financial risk",
	entity.KindDOB:          "Date of birth detected - sensitive identifier",
	entity.KindPassport:     "Passport number detected - sensitive identifier",
	entity.KindIBAN:         "Bank account number detected - financial risk",
	entity.KindBIC:          "Bank code detected - financial risk",
}

// WarningForKind возвращает предупреждение для типа находки.
func WarningForKind(k entity.Kind) (string, bool) {
	w, ok := warningByKind[k]
	return w, ok
}
