package models

import "errors"

// Ошибки предметной области. Каждая публичная операция отдаёт наружу
// ровно одну из них, намеренно скрывая внутреннюю причину:
// неизвестный пользователь и неверный пароль дают ErrInvalidCredentials,
// неразобранное сообщение и неизвестный плательщик дают ErrUnrecognizedPayload.
var (
	ErrDuplicateIdentity   = errors.New("duplicate identity")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotFound            = errors.New("not found")
	ErrUnrecognizedPayload = errors.New("payload not recognized")
	ErrUnauthorized        = errors.New("unauthorized")
)
