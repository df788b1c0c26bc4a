package render

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/slot_calendar/internal/model"
)

func sampleWeek() *model.ResolvedWeek {
	days := make([]model.ResolvedDay, 0, 7)
	for _, d := range []string{"2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12", "2024-01-13"} {
		days = append(days, model.ResolvedDay{Date: d, Occurrences: []model.ResolvedOccurrence{}})
	}
	days[1].Occurrences = []model.ResolvedOccurrence{
		{SlotID: 1, StartTime: "09:00", EndTime: "10:00"},
		{SlotID: 2, StartTime: "13:00", EndTime: "14:00", IsException: true},
	}
	days[5].Occurrences = []model.ResolvedOccurrence{
		{SlotID: 3, StartTime: "16:15", EndTime: "17:45"},
	}
	return &model.ResolvedWeek{WeekStart: "2024-01-07", WeekEnd: "2024-01-13", Days: days}
}

func TestWeekICS(t *testing.T) {
	now := time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)

	out, err := WeekICS(sampleWeek(), now)
	require.NoError(t, err)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 3)

	first := events[0]
	assert.Equal(t, "slot-1-20240108@slot_calendar", first.GetProperty(ical.ComponentPropertyUniqueId).Value)
	assert.Equal(t, "20240108T090000", first.GetProperty(ical.ComponentPropertyDtStart).Value)
	assert.Equal(t, "20240108T100000", first.GetProperty(ical.ComponentPropertyDtEnd).Value)
	assert.Equal(t, "Slot #1", first.GetProperty(ical.ComponentPropertySummary).Value)
	assert.Nil(t, first.GetProperty(ical.ComponentPropertyDescription))

	edited := events[1]
	require.NotNil(t, edited.GetProperty(ical.ComponentPropertyDescription))

	assert.Equal(t, "20240112T161500", events[2].GetProperty(ical.ComponentPropertyDtStart).Value)
}

func TestWeekICS_EmptyWeek(t *testing.T) {
	week := &model.ResolvedWeek{WeekStart: "2024-01-07", WeekEnd: "2024-01-13"}

	out, err := WeekICS(week, time.Now())
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}

func TestWeekICS_InvalidTime(t *testing.T) {
	week := &model.ResolvedWeek{Days: []model.ResolvedDay{
		{Date: "2024-01-08", Occurrences: []model.ResolvedOccurrence{{SlotID: 1, StartTime: "late", EndTime: "10:00"}}},
	}}

	_, err := WeekICS(week, time.Now())
	assert.Error(t, err)
}
