package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/Freeeeeet/slot_calendar/internal/model"
	"github.com/Freeeeeet/slot_calendar/internal/repository"
	"go.uber.org/zap"
)

// CalendarService собирает недельный календарь и выполняет изменения слотов
type CalendarService struct {
	store  repository.Store
	guard  *CapacityGuard
	logger *zap.Logger
}

func NewCalendarService(store repository.Store, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		store:  store,
		guard:  NewCapacityGuard(logger),
		logger: logger,
	}
}

// ResolveWeek строит календарь недели, содержащей дату anchor (YYYY-MM-DD)
func (s *CalendarService) ResolveWeek(ctx context.Context, anchor string) (*model.ResolvedWeek, error) {
	date, err := model.ParseDate(anchor)
	if err != nil {
		return nil, invalidInput("week must be a date in YYYY-MM-DD format")
	}
	return s.ResolveWeekOf(ctx, date)
}

// ResolveWeekOf строит календарь недели, содержащей date.
// Частичный результат при ошибке хранилища не возвращается.
func (s *CalendarService) ResolveWeekOf(ctx context.Context, date time.Time) (*model.ResolvedWeek, error) {
	start, end := model.WeekBounds(date)

	slots, err := s.store.ListRecurringSlots(ctx)
	if err != nil {
		s.logger.Error("Failed to load recurring slots", zap.Error(err))
		return nil, storageError("list recurring slots", err)
	}

	exceptions, err := s.store.ListExceptions(ctx, start, end)
	if err != nil {
		s.logger.Error("Failed to load slot exceptions",
			zap.String("week_start", model.FormatDate(start)),
			zap.Error(err))
		return nil, storageError("list slot exceptions", err)
	}

	week := ResolveWeekFrom(date, slots, exceptions)

	s.logger.Debug("Week resolved",
		zap.String("week_start", week.WeekStart),
		zap.Int("recurring_slots", len(slots)),
		zap.Int("exceptions", len(exceptions)),
		zap.Int("occurrences", week.OccurrenceCount()))

	return week, nil
}

// ListRecurringSlots возвращает недельный шаблон, упорядоченный по дню недели и времени начала
func (s *CalendarService) ListRecurringSlots(ctx context.Context) ([]*model.RecurringSlot, error) {
	slots, err := s.store.ListRecurringSlots(ctx)
	if err != nil {
		return nil, storageError("list recurring slots", err)
	}

	slices.SortStableFunc(slots, func(a, b *model.RecurringSlot) int {
		if c := cmp.Compare(a.DayOfWeek, b.DayOfWeek); c != 0 {
			return c
		}
		return cmp.Compare(a.StartTime, b.StartTime)
	})

	return slots, nil
}

// CreateRecurringSlot создаёт еженедельный слот, если на день недели их меньше двух
func (s *CalendarService) CreateRecurringSlot(ctx context.Context, dayOfWeek int, startTime, endTime string) (*model.RecurringSlot, error) {
	if !model.ValidDayOfWeek(dayOfWeek) {
		return nil, invalidInput("day_of_week must be between 0 and 6")
	}

	start, end, err := parseTimeRange(startTime, endTime)
	if err != nil {
		return nil, err
	}

	slot := &model.RecurringSlot{
		DayOfWeek: dayOfWeek,
		StartTime: start,
		EndTime:   end,
	}

	err = s.store.WithinDayLock(ctx, dayOfWeek, func(tx repository.Store) error {
		if err := s.guard.CheckNewRecurringSlot(ctx, tx, dayOfWeek); err != nil {
			return err
		}
		if err := tx.InsertRecurringSlot(ctx, slot); err != nil {
			return storageError("insert recurring slot", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.lockError(err)
	}

	s.logger.Info("Recurring slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Int("day_of_week", slot.DayOfWeek),
		zap.String("start_time", slot.StartTime),
		zap.String("end_time", slot.EndTime))

	return slot, nil
}

// EditOccurrence меняет время слота на одну дату, не затрагивая остальные даты
func (s *CalendarService) EditOccurrence(ctx context.Context, slotID int64, date, newStartTime, newEndTime string) error {
	day, err := model.ParseDate(date)
	if err != nil {
		return invalidInput("date must be in YYYY-MM-DD format")
	}

	start, end, err := parseTimeRange(newStartTime, newEndTime)
	if err != nil {
		return err
	}

	exception := model.NewEditedException(slotID, day, start, end)

	// блокировка по дню недели даты, общая с созданием recurring слота
	err = s.store.WithinDayLock(ctx, int(day.Weekday()), func(tx repository.Store) error {
		if err := s.guard.CheckEditException(ctx, tx, slotID, day); err != nil {
			return err
		}
		if err := tx.InsertException(ctx, exception); err != nil {
			return storageError("insert slot exception", err)
		}
		return nil
	})
	if err != nil {
		return s.lockError(err)
	}

	s.logger.Info("Slot occurrence edited",
		zap.Int64("slot_id", slotID),
		zap.String("date", model.FormatDate(day)),
		zap.String("start_time", start),
		zap.String("end_time", end))

	return nil
}

// DeleteOccurrence убирает слот на одну дату. Лимит не проверяется: удаление не добавляет вхождений.
// Удаление несуществующего вхождения сохраняется и ни на что не влияет.
func (s *CalendarService) DeleteOccurrence(ctx context.Context, slotID int64, date string) error {
	day, err := model.ParseDate(date)
	if err != nil {
		return invalidInput("date must be in YYYY-MM-DD format")
	}

	exception := model.NewDeletedException(slotID, day)
	if err := s.store.InsertException(ctx, exception); err != nil {
		s.logger.Error("Failed to store delete exception",
			zap.Int64("slot_id", slotID),
			zap.Error(err))
		return storageError("insert slot exception", err)
	}

	s.logger.Info("Slot occurrence deleted",
		zap.Int64("slot_id", slotID),
		zap.String("date", model.FormatDate(day)))

	return nil
}

// Ping проверяет доступность хранилища
func (s *CalendarService) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return storageError("ping", err)
	}
	return nil
}

// lockError оставляет ошибки сервиса как есть, а сбои транзакции относит к хранилищу
func (s *CalendarService) lockError(err error) error {
	if isServiceError(err) {
		return err
	}
	s.logger.Error("Storage transaction failed", zap.Error(err))
	return storageError("day lock", err)
}

func parseTimeRange(startTime, endTime string) (string, string, error) {
	if startTime == "" || endTime == "" {
		return "", "", invalidInput("start and end time are required")
	}

	start, err := model.ParseTimeOfDay(startTime)
	if err != nil {
		return "", "", invalidInput("start time must be in HH:MM format")
	}
	end, err := model.ParseTimeOfDay(endTime)
	if err != nil {
		return "", "", invalidInput("end time must be in HH:MM format")
	}

	// HH:MM сравнивается лексически
	if end <= start {
		return "", "", invalidInput("end time must be after start time")
	}

	return start, end, nil
}
