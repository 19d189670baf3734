// Package storage содержит ошибки, общие для всех реализаций хранилища.
package storage

import "errors"

var (
	// ErrNotFound запись не найдена или принадлежит другому пользователю.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken e-mail уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrQuotaExceeded месячный лимит договоров исчерпан.
	ErrQuotaExceeded = errors.New("monthly contract quota exceeded")
)
