// Package paymentmsg разбирает текстовые уведомления Orange Money о платеже.
//
// Разбор эвристический: ищется первое вхождение «du», одного пробельного
// символа и восьми цифр. Сумма, валюта и формулировка не проверяются,
// подпись у уведомлений отсутствует.
package paymentmsg

import (
	"regexp"
	"strings"
)

// PayerLength количество цифр в номере плательщика.
const PayerLength = 8

// Пробельные символы и цифры понимаются в смысле Unicode: SMS-шлюзы
// нередко присылают неразрывный пробел между «du» и номером.
var payerRe = regexp.MustCompile(`du[\s\v\p{Z}\x{85}\x{1C}-\x{1F}](\p{Nd}{8})`)

// Decode переводит тело запроса в текст, отбрасывая некорректные UTF-8 последовательности.
func Decode(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "")
}

// ExtractPayer возвращает номер плательщика из первого совпадения в тексте.
func ExtractPayer(text string) (string, bool) {
	m := payerRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Parse объединяет Decode и ExtractPayer для сырого тела уведомления.
func Parse(raw []byte) (string, bool) {
	return ExtractPayer(Decode(raw))
}
