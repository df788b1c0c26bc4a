package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/Freeeeeet/slot_calendar/internal/model"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = ""
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 120
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 8
	defaultMaxHour   = 18
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 16.0
	slotTimeFontSize   = 15.0
	legendItemFontSize = 12.0
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	todayBgColor   = color.NRGBA{255, 99, 71, 125}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	slotRecurringColor = color.RGBA{133, 193, 85, 220}
	slotExceptionColor = color.RGBA{255, 196, 87, 235}
	slotTextColor      = color.RGBA{20, 24, 28, 230}
	slotShadowColor    = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

var weekdayShort = [model.DaysInWeek]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// loadFont устанавливает шрифт Go нужного стиля, basicfont как fallback
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	fontData := goregular.TTF
	if style == FontStyleBold {
		fontData = gobold.TTF
	}

	fontsMu.Lock()
	parsed, ok := cachedFonts[style]
	if !ok {
		var err error
		parsed, err = opentype.Parse(fontData)
		if err == nil {
			cachedFonts[style] = parsed
		}
	}
	fontsMu.Unlock()

	if parsed == nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}
	dc.SetFontFace(face)
}

// WeekImage рисует неделю (воскресенье–суббота) в PNG.
// Вхождения с исключениями выделены отдельным цветом; now нужен для подсветки сегодняшнего дня.
func WeekImage(week *model.ResolvedWeek, now time.Time) ([]byte, error) {
	today := model.FormatDate(now)
	hours := calculateHourRange(week)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / model.DaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)
	for dayIndex, day := range week.Days {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, day.Date == today)
		drawDayHeader(dc, day.Date, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, occ := range day.Occurrences {
			drawOccurrence(dc, occ, x, y, dayWidth, hours, cellHeight)
		}
	}
	drawLegend(dc, dayWidth)

	return encodeImage(dc)
}

// calculateHourRange определяет диапазон часов по вхождениям недели
func calculateHourRange(week *model.ResolvedWeek) hourRange {
	minHour := 24
	maxHour := 0

	for _, day := range week.Days {
		for _, occ := range day.Occurrences {
			startH, _ := splitTime(occ.StartTime)
			endH, endM := splitTime(occ.EndTime)
			if endM > 0 {
				endH++
			}
			minHour = min(minHour, startH)
			maxHour = max(maxHour, endH)
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := max(minHour-hourPaddingTop, 0)
	endHour := min(maxHour+hourPaddingBot, 24)

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с периодом недели
func drawHeader(dc *gg.Context, week *model.ResolvedWeek) {
	title := week.WeekStart + " – " + week.WeekEnd
	if start, err := model.ParseDate(week.WeekStart); err == nil {
		title = start.Format("January 2006") + "  ·  " + title
	}

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	_, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleDefault)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует название дня недели и дату
func drawDayHeader(dc *gg.Context, date string, x, y float64, dayWidth int) {
	weekdayStr := ""
	dateStr := date
	if d, err := model.ParseDate(date); err == nil {
		weekdayStr = weekdayShort[d.Weekday()]
		dateStr = d.Format("02.01")
	}

	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(dateStr, x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(weekdayStr, x+float64(dayWidth)/2, y, 0.5, -0.2)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawOccurrence рисует одно вхождение слота
func drawOccurrence(dc *gg.Context, occ model.ResolvedOccurrence, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startH, startM := splitTime(occ.StartTime)
	endH, endM := splitTime(occ.EndTime)
	slotStartHour := float64(startH) + float64(startM)/60.0
	slotEndHour := float64(endH) + float64(endM)/60.0

	slotY := y + (slotStartHour-float64(hours.start))*cellHeight
	slotHeight := max((slotEndHour-slotStartHour)*cellHeight, minSlotHeight)

	fillColor := slotRecurringColor
	if occ.IsException {
		fillColor = slotExceptionColor
	}
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	// Основной слот
	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fillColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Stroke()

	loadFont(dc, slotTimeFontSize, FontStyleDefault)
	dc.SetColor(slotTextColor)
	txtX := x + float64(dayPaddingX) + 8
	txtY := slotY + 8 + 10
	dc.DrawStringAnchored(occ.StartTime+"–"+occ.EndTime, txtX, txtY, 0, 0)
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, dayWidth int) {
	liX := float64(leftLabelsWidth + model.DaysInWeek*dayWidth + 10)
	liY := float64(imageHeight) - 78.0

	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Weekly", slotRecurringColor},
		{"Changed", slotExceptionColor},
	}

	boxW := 20.0
	boxH := 14.0

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize, FontStyleDefault)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, liX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// splitTime HH:MM → часы и минуты; некорректное значение даёт 0:00
func splitTime(s string) (int, int) {
	t, err := time.Parse(model.TimeLayout, s)
	if err != nil {
		return 0, 0
	}
	return t.Hour(), t.Minute()
}
