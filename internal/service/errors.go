package service

import (
	"errors"
	"fmt"
)

// Ошибки сервиса календаря. Проверяются через errors.Is
var (
	// ErrInvalidInput некорректные или отсутствующие поля; изменений не происходит
	ErrInvalidInput = errors.New("invalid input")
	// ErrCapacityExceeded изменение нарушило бы лимит активных слотов в день
	ErrCapacityExceeded = errors.New("maximum 2 slots allowed per day")
	// ErrStorageUnavailable ошибка чтения или записи в хранилище
	ErrStorageUnavailable = errors.New("storage unavailable")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// storageError сохраняет и причину, и ErrStorageUnavailable для errors.Is
func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

func isServiceError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrStorageUnavailable)
}
