package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout формат календарной даты (без времени и часового пояса)
	DateLayout = "2006-01-02"
	// TimeLayout формат времени суток HH:MM
	TimeLayout = "15:04"

	DaysInWeek = 7
	// MaxSlotsPerDay максимальное количество активных слотов в один день
	MaxSlotsPerDay = 2
)

// ParseDate разбирает календарную дату в формате YYYY-MM-DD.
// Результат всегда полночь в UTC, чтобы сдвиги часовых поясов не меняли день недели.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate форматирует дату в ISO вид
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// NormalizeDate отбрасывает время суток и часовой пояс
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekBounds возвращает воскресенье и субботу недели, в которую попадает anchor
func WeekBounds(anchor time.Time) (start, end time.Time) {
	day := NormalizeDate(anchor)
	start = day.AddDate(0, 0, -int(day.Weekday()))
	return start, start.AddDate(0, 0, DaysInWeek-1)
}

// WeekDates возвращает 7 дат недели начиная с воскресенья
func WeekDates(anchor time.Time) []time.Time {
	start, _ := WeekBounds(anchor)
	dates := make([]time.Time, 0, DaysInWeek)
	for offset := 0; offset < DaysInWeek; offset++ {
		dates = append(dates, start.AddDate(0, 0, offset))
	}
	return dates
}

// ParseTimeOfDay проверяет время суток и приводит его к виду HH:MM.
// Секунды (HH:MM:SS, так их отдаёт колонка TIME) отбрасываются.
func ParseTimeOfDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		var errSec error
		t, errSec = time.Parse("15:04:05", s)
		if errSec != nil {
			return "", fmt.Errorf("parse time of day %q: %w", s, err)
		}
	}
	return t.Format(TimeLayout), nil
}

// IsTimeOfDay сообщает, является ли строка корректным временем суток
func IsTimeOfDay(s string) bool {
	_, err := ParseTimeOfDay(s)
	return err == nil
}

// ValidDayOfWeek 0 = Sunday, 6 = Saturday
func ValidDayOfWeek(day int) bool {
	return day >= 0 && day < DaysInWeek
}
