package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/slot_calendar/internal/model"
)

func TestWeekImage(t *testing.T) {
	now := time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)

	data, err := WeekImage(sampleWeek(), now)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestWeekImage_EmptyWeek(t *testing.T) {
	week := &model.ResolvedWeek{WeekStart: "2024-01-07", WeekEnd: "2024-01-13", Days: sampleWeek().Days[:0]}

	data, err := WeekImage(week, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestCalculateHourRange(t *testing.T) {
	hours := calculateHourRange(sampleWeek())

	// 09:00..17:45 с отступом в час
	assert.Equal(t, 8, hours.start)
	assert.Equal(t, 19, hours.end)
	assert.Equal(t, 11, hours.total)

	empty := calculateHourRange(&model.ResolvedWeek{})
	assert.Equal(t, defaultMinHour-hourPaddingTop, empty.start)
	assert.Equal(t, defaultMaxHour+hourPaddingBot, empty.end)
}

func TestCalculateHourRange_ClampsToDay(t *testing.T) {
	week := &model.ResolvedWeek{Days: []model.ResolvedDay{{
		Date:        "2024-01-08",
		Occurrences: []model.ResolvedOccurrence{{SlotID: 1, StartTime: "00:00", EndTime: "23:30"}},
	}}}

	hours := calculateHourRange(week)
	assert.Equal(t, 0, hours.start)
	assert.Equal(t, 24, hours.end)
}
