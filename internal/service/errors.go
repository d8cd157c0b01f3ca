package service

import (
	"RepoHost/internal/model"
	"context"
	"errors"
	"fmt"
)

// Исходы операций ядра. Сравнивать через errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrForbidden    = errors.New("repository is archived")
	ErrInvalidName  = model.ErrInvalidName
	ErrInvalidInput = errors.New("invalid input")
	ErrIO           = errors.New("storage failure")
	ErrTimeout      = errors.New("operation timed out")

	// ErrLoginTaken — логин уже занят.
	ErrLoginTaken = fmt.Errorf("login already taken: %w", ErrConflict)
)

// storageErr оборачивает сбой хранилища. Истёкший дедлайн считается таймаутом, а не ошибкой диска.
func storageErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrIO, err)
}
