package model

import "time"

type ExceptionStatus string

const (
	ExceptionStatusEdited  ExceptionStatus = "edited"  // время слота изменено на конкретную дату
	ExceptionStatusDeleted ExceptionStatus = "deleted" // слот убран на конкретную дату
)

// Valid проверяет, что статус известен
func (s ExceptionStatus) Valid() bool {
	return s == ExceptionStatusEdited || s == ExceptionStatusDeleted
}

// SlotException переопределяет вхождение recurring слота на одну дату.
// NewStartTime и NewEndTime заданы только для статуса edited.
type SlotException struct {
	ID           int64           `json:"id"`
	SlotID       int64           `json:"slot_id"`
	Date         time.Time       `json:"date"`
	Status       ExceptionStatus `json:"status"`
	NewStartTime *string         `json:"new_start_time"`
	NewEndTime   *string         `json:"new_end_time"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// IsDeleted checks if exception removes the occurrence
func (e *SlotException) IsDeleted() bool {
	return e.Status == ExceptionStatusDeleted
}

// IsEdited checks if exception replaces occurrence times
func (e *SlotException) IsEdited() bool {
	return e.Status == ExceptionStatusEdited
}

// NewEditedException создаёт исключение с новым временем
func NewEditedException(slotID int64, date time.Time, startTime, endTime string) *SlotException {
	return &SlotException{
		SlotID:       slotID,
		Date:         NormalizeDate(date),
		Status:       ExceptionStatusEdited,
		NewStartTime: &startTime,
		NewEndTime:   &endTime,
	}
}

// NewDeletedException создаёт исключение-удаление
func NewDeletedException(slotID int64, date time.Time) *SlotException {
	return &SlotException{
		SlotID: slotID,
		Date:   NormalizeDate(date),
		Status: ExceptionStatusDeleted,
	}
}
