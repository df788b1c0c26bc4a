package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/slot_calendar/internal/model"
	"github.com/Freeeeeet/slot_calendar/internal/repository"
	"go.uber.org/zap"
)

// CapacityGuard проверяет лимит model.MaxSlotsPerDay перед вставкой.
// Сам ничего не пишет: при успехе вызывающий код продолжает вставку
// в той же транзакции (см. repository.Store.WithinDayLock).
type CapacityGuard struct {
	logger *zap.Logger
}

// NewCapacityGuard создаёт проверку лимита
func NewCapacityGuard(logger *zap.Logger) *CapacityGuard {
	return &CapacityGuard{logger: logger}
}

// CheckNewRecurringSlot правило для нового recurring слота: на день недели уже не больше одного слота
func (g *CapacityGuard) CheckNewRecurringSlot(ctx context.Context, store repository.RecurringSlotStore, dayOfWeek int) error {
	count, err := store.CountRecurringSlots(ctx, dayOfWeek)
	if err != nil {
		return storageError("count recurring slots", err)
	}

	if count >= model.MaxSlotsPerDay {
		g.logger.Info("Recurring slot rejected: day is full",
			zap.Int("day_of_week", dayOfWeek),
			zap.Int("existing", count))
		return ErrCapacityExceeded
	}

	return nil
}

// CheckEditException правило для исключения-редактирования слота slotID на дату date.
//
// Итог = recurring слоты дня недели − 1 (базовое вхождение слота заменяется)
// + активные исключения других слотов на эту дату + 1 (создаваемое исключение).
// Не проверяет, что slotID действительно относится к дню недели date.
func (g *CapacityGuard) CheckEditException(ctx context.Context, store repository.Store, slotID int64, date time.Time) error {
	weekday := int(date.Weekday())

	recurringCount, err := store.CountRecurringSlots(ctx, weekday)
	if err != nil {
		return storageError("count recurring slots", err)
	}

	exceptionCount, err := store.CountExceptions(ctx, date, slotID, model.ExceptionStatusDeleted)
	if err != nil {
		return storageError("count slot exceptions", err)
	}

	total := recurringCount - 1 + exceptionCount + 1
	if total > model.MaxSlotsPerDay {
		g.logger.Info("Slot edit rejected: day is full",
			zap.Int64("slot_id", slotID),
			zap.String("date", model.FormatDate(date)),
			zap.Int("recurring_count", recurringCount),
			zap.Int("exception_count", exceptionCount))
		return ErrCapacityExceeded
	}

	return nil
}
