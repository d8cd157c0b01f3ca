package model

import (
	"errors"
	"fmt"
	"regexp"
)

// MaxNameLength ограничивает длину имени пользователя, репозитория, ветки и файла.
const MaxNameLength = 100

// MaxKindLength ограничивает длину типа репозитория.
const MaxKindLength = 64

// ErrInvalidName возвращается для имён, небезопасных в качестве сегмента пути.
var ErrInvalidName = errors.New("invalid name")

var nameRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateName проверяет, что имя можно использовать как отдельный сегмент пути:
// только буквы, цифры и . _ -, без "." и "..".
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %q is longer than %d", ErrInvalidName, name, MaxNameLength)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !nameRe.MatchString(name) {
		return fmt.Errorf("%w: %q (allowed: letters, digits, . _ -)", ErrInvalidName, name)
	}
	return nil
}

// ValidateNames проверяет несколько имён подряд и возвращает первую ошибку.
func ValidateNames(names ...string) error {
	for _, n := range names {
		if err := ValidateName(n); err != nil {
			return err
		}
	}
	return nil
}

// ValidateKind проверяет тип репозитория. Это свободный текст, а не сегмент пути.
func ValidateKind(kind string) error {
	if len(kind) > MaxKindLength {
		return fmt.Errorf("%w: kind is longer than %d", ErrInvalidName, MaxKindLength)
	}
	return nil
}
