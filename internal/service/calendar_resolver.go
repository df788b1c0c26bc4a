package service

import (
	"cmp"
	"slices"
	"time"

	"github.com/Freeeeeet/slot_calendar/internal/model"
)

// ResolveWeekFrom накладывает исключения на недельный шаблон и строит календарь
// недели (воскресенье–суббота), содержащей anchor. Хранилище не трогает.
//
// Базовый набор даты: recurring слоты её дня недели в порядке slots.
// Исключения одной даты применяются по возрастанию ID: deleted убирает вхождение,
// edited заменяет время и помечает IsException. Исключение для слота,
// которого нет в базовом наборе этой даты, игнорируется.
func ResolveWeekFrom(anchor time.Time, slots []*model.RecurringSlot, exceptions []*model.SlotException) *model.ResolvedWeek {
	start, end := model.WeekBounds(anchor)
	exceptionsByDate := groupExceptionsByDate(exceptions)

	week := &model.ResolvedWeek{
		WeekStart: model.FormatDate(start),
		WeekEnd:   model.FormatDate(end),
		Days:      make([]model.ResolvedDay, 0, model.DaysInWeek),
	}

	for _, date := range model.WeekDates(anchor) {
		key := model.FormatDate(date)

		occurrences := baselineOccurrences(slots, date)
		for _, exception := range exceptionsByDate[key] {
			occurrences = applyException(occurrences, exception)
		}

		week.Days = append(week.Days, model.ResolvedDay{
			Date:        key,
			Occurrences: occurrences,
		})
	}

	return week
}

// baselineOccurrences recurring слоты дня недели даты, без исключений
func baselineOccurrences(slots []*model.RecurringSlot, date time.Time) []model.ResolvedOccurrence {
	weekday := int(date.Weekday())
	key := model.FormatDate(date)

	occurrences := make([]model.ResolvedOccurrence, 0, model.MaxSlotsPerDay)
	for _, slot := range slots {
		if slot.DayOfWeek != weekday {
			continue
		}
		occurrences = append(occurrences, model.ResolvedOccurrence{
			SlotID:    slot.ID,
			Date:      key,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}
	return occurrences
}

// applyException применяет одно исключение к набору вхождений дня
func applyException(occurrences []model.ResolvedOccurrence, exception *model.SlotException) []model.ResolvedOccurrence {
	idx := slices.IndexFunc(occurrences, func(o model.ResolvedOccurrence) bool {
		return o.SlotID == exception.SlotID
	})
	if idx == -1 {
		return occurrences
	}

	switch {
	case exception.IsDeleted():
		return slices.Delete(occurrences, idx, idx+1)
	case exception.IsEdited():
		if exception.NewStartTime == nil || exception.NewEndTime == nil {
			return occurrences
		}
		occurrences[idx].StartTime = *exception.NewStartTime
		occurrences[idx].EndTime = *exception.NewEndTime
		occurrences[idx].IsException = true
	}

	return occurrences
}

// groupExceptionsByDate группирует исключения по дате; внутри даты порядок по ID
func groupExceptionsByDate(exceptions []*model.SlotException) map[string][]*model.SlotException {
	byDate := make(map[string][]*model.SlotException)
	for _, exception := range exceptions {
		key := model.FormatDate(exception.Date)
		byDate[key] = append(byDate[key], exception)
	}

	for _, list := range byDate {
		slices.SortStableFunc(list, func(a, b *model.SlotException) int {
			return cmp.Compare(a.ID, b.ID)
		})
	}

	return byDate
}
