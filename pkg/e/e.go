package e

import (
	"errors"
	"fmt"
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = errors.New("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = errors.New("incorrect environment variable")

	// Ошибки сессии
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionConflict = errors.New("session changed concurrently")

	// Ошибки кэша
	ErrCacheMiss = errors.New("cache miss")

	// 400 Bad Request
	ErrStatusBadRequest = errors.New("bad request")

	// 500 Internal Server Error
	ErrInternalServerError = errors.New("internal server error")

	// Ошибки валидации форм, текст показывается пользователю как есть
	ErrNameRequired     = &ValidationError{Msg: "Name cannot be empty!"}
	ErrCategoryRequired = &ValidationError{Msg: "Please select category!"}
)

// ValidationError — ошибка клиентской валидации формы, до обращения к бэкенду.
type ValidationError struct {
	Msg string
}

func (v *ValidationError) Error() string {
	return v.Msg
}

// RequestError — ошибка запроса к бэкенду (сеть или ответ не 2xx).
type RequestError struct {
	Path       string
	StatusCode int // 0, если ответ не был получен
	Err        error
}

func (r *RequestError) Error() string {
	if r.StatusCode != 0 {
		return fmt.Sprintf("request %s failed with status %d", r.Path, r.StatusCode)
	}

	return fmt.Sprintf("request %s failed: %v", r.Path, r.Err)
}

func (r *RequestError) Unwrap() error {
	return r.Err
}

// LoadError — ошибка загрузки списка категорий.
type LoadError struct {
	Attempts int
	Err      error
}

func (l *LoadError) Error() string {
	return fmt.Sprintf("categories load failed after %d attempt(s): %v", l.Attempts, l.Err)
}

func (l *LoadError) Unwrap() error {
	return l.Err
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
