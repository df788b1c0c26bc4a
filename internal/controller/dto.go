package controller

// CreateSlotRequest тело POST /slots.
// DayOfWeek указатель: 0 (воскресенье) допустимое значение, а required отличает его от отсутствия поля.
type CreateSlotRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required,gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
}

// EditOccurrenceRequest тело PATCH /slots/{id}
type EditOccurrenceRequest struct {
	Date         string `json:"date" validate:"required,isodate"`
	NewStartTime string `json:"new_start_time" validate:"required,hhmm"`
	NewEndTime   string `json:"new_end_time" validate:"required,hhmm"`
}

// DeleteOccurrenceRequest параметры DELETE /slots/{id}
type DeleteOccurrenceRequest struct {
	Date string `json:"date" validate:"required,isodate"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}
