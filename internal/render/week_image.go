package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"time"

	"github.com/fogleman/gg"

	"github.com/Freeeeeet/study_planner/internal/formatting"
	"github.com/Freeeeeet/study_planner/internal/model"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 200
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 7
	defaultMaxHour   = 23
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 16.0
	slotTimeFontSize   = 14.0
	legendItemFontSize = 13.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 90}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{225, 225, 225, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}
	overrideColor    = color.RGBA{220, 38, 38, 255}
	slotTextColor    = color.RGBA{20, 24, 28, 230}
	slotShadowColor  = color.RGBA{0, 0, 0, 20}
	legendItemColor  = color.RGBA{70, 74, 78, 220}
)

// hourRange диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// WeekImage рисует PNG с расписанием недели (Пн-Пт) с учётом замен.
// Если now попадает в неделю, подсвечивается день и текущее время.
func WeekImage(data *model.AppData, weekStart, now time.Time) ([]byte, error) {
	week := BuildWeek(data, weekStart)
	hours := calculateHourRange(week)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / len(week)
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	todayIndex := -1
	for i, column := range week {
		if isSameDay(column.Date, now) {
			todayIndex = i
		}
	}

	drawHeader(dc, week, data.SelectedClassID)
	drawHourLabels(dc, hours, cellHeight)
	for i, column := range week {
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, i == todayIndex)
		drawDayHeader(dc, column, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, cell := range column.Cells {
			drawSlot(dc, cell, x, y, dayWidth, hours, cellHeight)
		}
	}
	if todayIndex >= 0 {
		drawCurrentTimeLine(dc, now, hours, cellHeight, dayWidth, len(week))
	}
	drawLegend(dc, week, dayWidth*len(week))

	return encodeImage(dc)
}

// calculateHourRange определяет диапазон часов по парам недели
func calculateHourRange(week []DayColumn) hourRange {
	minHour := 24
	maxHour := 0

	for _, column := range week {
		for _, cell := range column.Cells {
			start, ok1 := minutesOf(cell.Slot.StartTime)
			end, ok2 := minutesOf(cell.Slot.EndTime)
			if !ok1 || !ok2 {
				continue
			}
			endH := end / 60
			if end%60 > 0 {
				endH++
			}
			minHour = min(minHour, start/60)
			maxHour = max(maxHour, endH)
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := max(0, minHour-hourPaddingTop)
	endHour := min(24, maxHour+hourPaddingBot)

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создаёт контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader заголовок: месяц и класс
func drawHeader(dc *gg.Context, week []DayColumn, classID string) {
	first := week[0].Date
	last := week[len(week)-1].Date

	title := formatting.MonthName(first.Month())
	if first.Month() != last.Month() {
		title += " - " + formatting.MonthName(last.Month())
	}
	title += " " + strconv.Itoa(last.Year()) + " · " + classID

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	_, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels колонка с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleMedium)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func isSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// drawDayBackground фон дня
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

// drawDayHeader короткое название дня и дата
func drawDayHeader(dc *gg.Context, column DayColumn, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(column.Date.Format("02/01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(formatting.WeekdayShort(column.Day), x+float64(dayWidth)/2, y, 0.5, -0.2)
}

// drawHourLines горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawSlot рисует одну пару; заменённые пары обводятся красным
func drawSlot(dc *gg.Context, cell Cell, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	start, ok1 := minutesOf(cell.Slot.StartTime)
	end, ok2 := minutesOf(cell.Slot.EndTime)
	if !ok1 || !ok2 {
		return
	}
	startHour := float64(start) / 60
	endHour := float64(end) / 60

	slotY := y + (startHour-float64(hours.start))*cellHeight
	slotHeight := max((endHour-startHour)*cellHeight, minSlotHeight)
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	fillColor := lighten(SubjectColor(cell.Subject.Color), 0.45)

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	// Рамка
	if cell.Overridden {
		dc.SetColor(overrideColor)
		dc.SetLineWidth(2.5)
	} else {
		dc.SetColor(darkenColor(fillColor, 0.8))
		dc.SetLineWidth(1)
	}
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Stroke()

	loadFont(dc, slotTimeFontSize, FontStyleMedium)
	dc.SetColor(slotTextColor)
	txtX := x + dayPaddingX + 8
	txtY := slotY + 8 + 10
	label := cell.Slot.StartTime + " " + cell.Subject.ShortName
	if cell.Overridden {
		label += " *"
	}
	dc.DrawStringAnchored(truncate(label, 22), txtX, txtY, 0, 0)
}

func truncate(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes-3]) + "..."
}

// drawCurrentTimeLine красная линия текущего времени
func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth, days int) {
	currentHour := float64(now.Hour()) + float64(now.Minute())/60.0
	if currentHour < float64(hours.start) || currentHour > float64(hours.end) {
		return
	}

	currentTimeY := float64(headerHeight) + (currentHour-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), currentTimeY, float64(leftLabelsWidth+days*dayWidth), currentTimeY)
	dc.Stroke()
}

// drawLegend предметы недели справа от сетки
func drawLegend(dc *gg.Context, week []DayColumn, gridWidth int) {
	seen := make(map[string]model.Subject)
	for _, column := range week {
		for _, cell := range column.Cells {
			seen[cell.Subject.ID] = cell.Subject
		}
	}
	subjects := make([]model.Subject, 0, len(seen))
	for _, s := range seen {
		subjects = append(subjects, s)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].ShortName < subjects[j].ShortName })

	const boxW, boxH = 20.0, 14.0
	liX := float64(leftLabelsWidth+gridWidth) + 14
	liY := float64(headerHeight)

	loadFont(dc, legendItemFontSize, FontStyleDefault)
	for _, s := range subjects {
		dc.SetColor(lighten(SubjectColor(s.Color), 0.45))
		dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(truncate(s.ShortName, 18), liX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}

	dc.SetColor(overrideColor)
	dc.SetLineWidth(2.5)
	dc.DrawRoundedRectangle(liX, liY, boxW, boxH, 3)
	dc.Stroke()
	dc.SetColor(legendItemColor)
	dc.DrawStringAnchored("Substituição", liX+boxW+8, liY+boxH/2+1, 0, 0.2)
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
