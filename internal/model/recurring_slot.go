package model

import "time"

// RecurringSlot еженедельный слот, привязанный к дню недели.
// Строка никогда не редактируется на месте: изменения на конкретную дату
// оформляются через SlotException.
type RecurringSlot struct {
	ID        int64     `json:"id"`
	DayOfWeek int       `json:"day_of_week"` // 0 = Sunday, 6 = Saturday
	StartTime string    `json:"start_time"`  // HH:MM
	EndTime   string    `json:"end_time"`    // HH:MM
	CreatedAt time.Time `json:"created_at"`
}
