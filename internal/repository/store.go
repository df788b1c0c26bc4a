package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/slot_calendar/internal/model"
)

// RecurringSlotStore доступ к еженедельным слотам
type RecurringSlotStore interface {
	// ListRecurringSlots возвращает все слоты в порядке вставки (по id)
	ListRecurringSlots(ctx context.Context) ([]*model.RecurringSlot, error)
	CountRecurringSlots(ctx context.Context, dayOfWeek int) (int, error)
	// InsertRecurringSlot заполняет ID и CreatedAt
	InsertRecurringSlot(ctx context.Context, slot *model.RecurringSlot) error
}

// ExceptionStore доступ к исключениям на конкретные даты
type ExceptionStore interface {
	// ListExceptions возвращает исключения с датой в [from, to], упорядоченные по (date, id)
	ListExceptions(ctx context.Context, from, to time.Time) ([]*model.SlotException, error)
	// CountExceptions считает исключения на дату, кроме слота excludeSlotID и статуса excludeStatus
	CountExceptions(ctx context.Context, date time.Time, excludeSlotID int64, excludeStatus model.ExceptionStatus) (int, error)
	// InsertException записывает исключение; повтор для той же пары (slot_id, date) заменяет предыдущее
	InsertException(ctx context.Context, exception *model.SlotException) error
}

// Store граница хранилища, от которой зависит сервис календаря
type Store interface {
	RecurringSlotStore
	ExceptionStore

	// WithinDayLock выполняет fn в одной транзакции под блокировкой, привязанной к дню недели.
	// Пара "посчитать, затем вставить" внутри fn не пересекается с такой же парой
	// для того же дня недели. Ошибка fn откатывает транзакцию.
	WithinDayLock(ctx context.Context, dayOfWeek int, fn func(tx Store) error) error

	Ping(ctx context.Context) error
}
