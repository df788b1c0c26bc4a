package service

import (
	"testing"
	"time"

	"github.com/Freeeeeet/slot_calendar/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func mondaySlots() []*model.RecurringSlot {
	return []*model.RecurringSlot{
		{ID: 1, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"},
		{ID: 2, DayOfWeek: 1, StartTime: "11:00", EndTime: "12:00"},
	}
}

func occ(id int64, start, end string, isException bool) model.ResolvedOccurrence {
	return model.ResolvedOccurrence{SlotID: id, Date: "2024-01-08", StartTime: start, EndTime: end, IsException: isException}
}

func TestResolveWeekFrom_Exceptions(t *testing.T) {
	anchor := mustDate(t, "2024-01-08")
	monday := anchor

	tests := []struct {
		name       string
		exceptions []*model.SlotException
		want       []model.ResolvedOccurrence
	}{
		{
			name: "baseline only",
			want: []model.ResolvedOccurrence{occ(1, "09:00", "10:00", false), occ(2, "11:00", "12:00", false)},
		},
		{
			name:       "deleted removes occurrence",
			exceptions: []*model.SlotException{{ID: 10, SlotID: 1, Date: monday, Status: model.ExceptionStatusDeleted}},
			want:       []model.ResolvedOccurrence{occ(2, "11:00", "12:00", false)},
		},
		{
			name: "edited replaces times in place",
			exceptions: []*model.SlotException{
				{ID: 10, SlotID: 2, Date: monday, Status: model.ExceptionStatusEdited, NewStartTime: strPtr("13:00"), NewEndTime: strPtr("14:00")},
			},
			want: []model.ResolvedOccurrence{occ(1, "09:00", "10:00", false), occ(2, "13:00", "14:00", true)},
		},
		{
			name:       "unknown slot is ignored",
			exceptions: []*model.SlotException{{ID: 10, SlotID: 99, Date: monday, Status: model.ExceptionStatusDeleted}},
			want:       []model.ResolvedOccurrence{occ(1, "09:00", "10:00", false), occ(2, "11:00", "12:00", false)},
		},
		{
			name: "later edit wins by id, not by slice order",
			exceptions: []*model.SlotException{
				{ID: 20, SlotID: 1, Date: monday, Status: model.ExceptionStatusEdited, NewStartTime: strPtr("15:00"), NewEndTime: strPtr("16:00")},
				{ID: 10, SlotID: 1, Date: monday, Status: model.ExceptionStatusEdited, NewStartTime: strPtr("07:00"), NewEndTime: strPtr("08:00")},
			},
			want: []model.ResolvedOccurrence{occ(1, "15:00", "16:00", true), occ(2, "11:00", "12:00", false)},
		},
		{
			name: "delete after edit removes occurrence",
			exceptions: []*model.SlotException{
				{ID: 10, SlotID: 2, Date: monday, Status: model.ExceptionStatusEdited, NewStartTime: strPtr("13:00"), NewEndTime: strPtr("14:00")},
				{ID: 11, SlotID: 2, Date: monday, Status: model.ExceptionStatusDeleted},
			},
			want: []model.ResolvedOccurrence{occ(1, "09:00", "10:00", false)},
		},
		{
			name: "edit after delete has no match left",
			exceptions: []*model.SlotException{
				{ID: 10, SlotID: 2, Date: monday, Status: model.ExceptionStatusDeleted},
				{ID: 11, SlotID: 2, Date: monday, Status: model.ExceptionStatusEdited, NewStartTime: strPtr("13:00"), NewEndTime: strPtr("14:00")},
			},
			want: []model.ResolvedOccurrence{occ(1, "09:00", "10:00", false)},
		},
		{
			name: "edited without times is ignored",
			exceptions: []*model.SlotException{
				{ID: 10, SlotID: 1, Date: monday, Status: model.ExceptionStatusEdited},
			},
			want: []model.ResolvedOccurrence{occ(1, "09:00", "10:00", false), occ(2, "11:00", "12:00", false)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			week := ResolveWeekFrom(anchor, mondaySlots(), tt.exceptions)

			require.Len(t, week.Days, model.DaysInWeek)
			assert.Equal(t, "2024-01-08", week.Days[1].Date)
			assert.Equal(t, tt.want, week.Days[1].Occurrences)
		})
	}
}

func TestResolveWeekFrom_WeekShape(t *testing.T) {
	anchor := mustDate(t, "2024-01-11")
	slots := append(mondaySlots(), &model.RecurringSlot{ID: 3, DayOfWeek: 0, StartTime: "08:00", EndTime: "09:00"})

	week := ResolveWeekFrom(anchor, slots, nil)

	assert.Equal(t, "2024-01-07", week.WeekStart)
	assert.Equal(t, "2024-01-13", week.WeekEnd)
	require.Len(t, week.Days, 7)

	assert.Equal(t, "2024-01-07", week.Days[0].Date)
	require.Len(t, week.Days[0].Occurrences, 1)
	assert.Equal(t, int64(3), week.Days[0].Occurrences[0].SlotID)

	for _, i := range []int{2, 3, 4, 5, 6} {
		assert.NotNil(t, week.Days[i].Occurrences, "day %d", i)
		assert.Empty(t, week.Days[i].Occurrences, "day %d", i)
	}
	assert.Equal(t, 3, week.OccurrenceCount())
}

func TestResolveWeekFrom_ExceptionOnlyAffectsItsDate(t *testing.T) {
	// воскресенье 2024-01-14 начинает следующую неделю
	thisWeek := mustDate(t, "2024-01-08")
	nextWeek := mustDate(t, "2024-01-15")

	exceptions := []*model.SlotException{
		{ID: 10, SlotID: 1, Date: thisWeek, Status: model.ExceptionStatusEdited, NewStartTime: strPtr("13:00"), NewEndTime: strPtr("14:00")},
	}

	next := ResolveWeekFrom(nextWeek, mondaySlots(), exceptions)

	require.Len(t, next.Days[1].Occurrences, 2)
	assert.Equal(t, "09:00", next.Days[1].Occurrences[0].StartTime)
	assert.False(t, next.Days[1].Occurrences[0].IsException)
}

func TestResolveWeekFrom_DoesNotMutateInputs(t *testing.T) {
	anchor := mustDate(t, "2024-01-08")
	slots := mondaySlots()
	exceptions := []*model.SlotException{
		{ID: 10, SlotID: 1, Date: anchor, Status: model.ExceptionStatusEdited, NewStartTime: strPtr("13:00"), NewEndTime: strPtr("14:00")},
	}

	first := ResolveWeekFrom(anchor, slots, exceptions)
	second := ResolveWeekFrom(anchor, slots, exceptions)

	assert.Equal(t, first, second)
	assert.Equal(t, "09:00", slots[0].StartTime)
}
