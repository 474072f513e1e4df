// Package models содержит доменную модель пользователя системы:
// учётные данные, номер Orange Money и состояние подписки.
// Структуры используются в бизнес‑логике, хранилище и HTTP‑ответах.
package models

import "time"

// DateLayout формат даты подписки в ответах API (ДД/ММ/ГГГГ).
const DateLayout = "02/01/2006"

// User представляет зарегистрированного пользователя системы.
//
// IsSubscribed имеет смысл только вместе с SubscribeDate: флаг и дата
// выставляются одновременно при активации, истечение сбрасывает только флаг.
type User struct {
	ID            int        // Автоинкрементный идентификатор
	Username      string     // Имя пользователя (уникальное)
	Phone         string     // Контактный телефон (уникальный)
	OrangeMoney   string     // Номер Orange Money для сопоставления платежей
	PasswordHash  string     // Хэш пароля пользователя
	IsSubscribed  bool       // Текущий флаг подписки
	SubscribeDate *time.Time // Момент последней активации, nil до первой оплаты
}

// UserView — представление пользователя в ответах API.
type UserView struct {
	Username     string  `json:"username"`
	Phone        string  `json:"phone"`
	OrangeMoney  string  `json:"orange_money"`
	IsSubscribed bool    `json:"is_subscribed"`
	Date         *string `json:"date"`
}

// NewUserView строит представление пользователя с уже вычисленным статусом подписки.
func NewUserView(u User, subscribed bool) UserView {
	view := UserView{
		Username:     u.Username,
		Phone:        u.Phone,
		OrangeMoney:  u.OrangeMoney,
		IsSubscribed: subscribed,
	}
	if u.SubscribeDate != nil {
		date := u.SubscribeDate.Format(DateLayout)
		view.Date = &date
	}
	return view
}

// Stats сводка для администратора.
type Stats struct {
	Total  int        `json:"total"`
	Active int        `json:"actifs"`
	Users  []UserView `json:"users"`
}
