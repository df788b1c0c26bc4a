package model

// ResolvedOccurrence фактическое состояние слота в конкретную дату после наложения исключений.
// Не сохраняется, живёт в пределах одного запроса.
type ResolvedOccurrence struct {
	SlotID      int64  `json:"slot_id"`
	Date        string `json:"-"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsException bool   `json:"is_exception"`
}

// ResolvedDay вхождения одной даты
type ResolvedDay struct {
	Date        string               `json:"date"`
	Occurrences []ResolvedOccurrence `json:"occurrences"`
}

// ResolvedWeek календарь недели с воскресенья по субботу
type ResolvedWeek struct {
	WeekStart string        `json:"weekStart"`
	WeekEnd   string        `json:"weekEnd"`
	Days      []ResolvedDay `json:"days"`
}

// OccurrenceCount возвращает общее количество вхождений за неделю
func (w *ResolvedWeek) OccurrenceCount() int {
	total := 0
	for _, day := range w.Days {
		total += len(day.Occurrences)
	}
	return total
}
