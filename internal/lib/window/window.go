// Package window описывает 30-дневное окно подписки.
// Функции чистые: они ничего не сохраняют и не читают текущее время сами.
package window

import "time"

// Window длительность подписки после активации.
const Window = 30 * 24 * time.Hour

// End возвращает момент окончания окна, начатого в subscribeDate.
func End(subscribeDate time.Time) time.Time {
	return subscribeDate.Add(Window)
}

// Expired сообщает, истекло ли окно к моменту now.
// Граница включительная: now == subscribeDate+30д ещё не истечение.
func Expired(subscribeDate, now time.Time) bool {
	return now.After(End(subscribeDate))
}

// Peek вычисляет статус подписки без побочных эффектов.
//
// Флаг true без даты — недопустимое состояние, которое обычными операциями
// не создаётся; в этом случае флаг возвращается как есть.
func Peek(isSubscribed bool, subscribeDate *time.Time, now time.Time) bool {
	if !isSubscribed {
		return false
	}
	if subscribeDate == nil {
		return true
	}
	return !Expired(*subscribeDate, now)
}
