package controller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/slot_calendar/internal/service"
)

func intPtr(v int) *int { return &v }

func TestValidator_CreateSlot(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		req    CreateSlotRequest
		fields []string
	}{
		{name: "valid", req: CreateSlotRequest{DayOfWeek: intPtr(0), StartTime: "09:00", EndTime: "10:00"}},
		{name: "seconds accepted", req: CreateSlotRequest{DayOfWeek: intPtr(6), StartTime: "09:00:00", EndTime: "10:30:00"}},
		{name: "empty", req: CreateSlotRequest{}, fields: []string{"day_of_week", "start_time", "end_time"}},
		{name: "day out of range", req: CreateSlotRequest{DayOfWeek: intPtr(9), StartTime: "09:00", EndTime: "10:00"}, fields: []string{"day_of_week"}},
		{name: "bad time", req: CreateSlotRequest{DayOfWeek: intPtr(1), StartTime: "9am", EndTime: "10:00"}, fields: []string{"start_time"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if len(tt.fields) == 0 {
				require.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, errors.Is(err, service.ErrInvalidInput))
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
			assert.Len(t, verr.Fields, len(tt.fields))
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"end_time": "is required", "date": "is required"}}

	assert.Equal(t, "validation failed: date is required; end_time is required", err.Error())
}

func TestValidator_Date(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(DeleteOccurrenceRequest{Date: "2024-02-29"}))
	assert.Error(t, v.Validate(DeleteOccurrenceRequest{Date: "2023-02-29"}))
	assert.Error(t, v.Validate(DeleteOccurrenceRequest{Date: ""}))
}
