package render

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/Freeeeeet/slot_calendar/internal/model"
)

const icsProductID = "-//slot_calendar//weekly availability//EN"

// WeekICS экспортирует вхождения недели в iCalendar.
// Время плавающее (без TZID и Z): календарь не знает часовых поясов.
func WeekICS(week *model.ResolvedWeek, now time.Time) (string, error) {
	cal := ical.NewCalendar()
	cal.SetProductId(icsProductID)
	cal.SetMethod(ical.MethodPublish)

	for _, day := range week.Days {
		for _, occ := range day.Occurrences {
			start, err := icsLocalTime(day.Date, occ.StartTime)
			if err != nil {
				return "", err
			}
			end, err := icsLocalTime(day.Date, occ.EndTime)
			if err != nil {
				return "", err
			}

			event := cal.AddEvent(occurrenceUID(occ.SlotID, day.Date))
			event.SetDtStampTime(now)
			event.SetProperty(ical.ComponentPropertyDtStart, start)
			event.SetProperty(ical.ComponentPropertyDtEnd, end)
			event.SetSummary(fmt.Sprintf("Slot #%d", occ.SlotID))
			if occ.IsException {
				event.SetDescription("Time changed for this date")
			}
		}
	}

	return cal.Serialize(), nil
}

func occurrenceUID(slotID int64, date string) string {
	return fmt.Sprintf("slot-%d-%s@slot_calendar", slotID, strings.ReplaceAll(date, "-", ""))
}

// icsLocalTime YYYY-MM-DD + HH:MM → 20060102T150405
func icsLocalTime(date, timeOfDay string) (string, error) {
	t, err := time.Parse(model.DateLayout+" "+model.TimeLayout, date+" "+timeOfDay)
	if err != nil {
		return "", fmt.Errorf("format ics time: %w", err)
	}
	return t.Format("20060102T150405"), nil
}
